package consolidation

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/memoryfile"
)

// HashIndexPath is the on-disk location of one source's materialized
// contentHash set, relative to the project's .aicf directory. One file
// per source, mirroring internal/cachestore's one-store-per-source
// layout.
func HashIndexPath(aicfDir string, source aicf.Source) string {
	return filepath.Join(aicfDir, "hashes", string(source)+".index")
}

// LoadKnownHashes reads the set of contentHash values already
// materialized for a source across every prior cycle, not just chunks
// still sitting in the cache. Without this, a chunk's hash falls out of
// both this index and cachestore.Store's own in-memory set the moment
// its chunk file is deleted post-materialization, so the same raw event
// reappearing on a later poll (spec.md §4.6, the "caught by two polling
// cycles" case in §5) would be re-materialized into a duplicate AICF
// file every cycle. A missing file is an empty, not-yet-seen index, not
// an error.
func LoadKnownHashes(path string) (map[string]bool, error) {
	known := map[string]bool{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return known, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			known[line] = true
		}
	}
	return known, scanner.Err()
}

// SaveKnownHashes rewrites path with every hash in known, one per line,
// sorted for a stable diff. Agent.Run mutates known in place with every
// newly materialized hash, so this is called once per cycle after Run
// returns to persist what it added.
func SaveKnownHashes(path string, known map[string]bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	hashes := make([]string, 0, len(known))
	for h := range known {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)

	var buf strings.Builder
	for _, h := range hashes {
		buf.WriteString(h)
		buf.WriteByte('\n')
	}
	return memoryfile.AtomicWrite(path, buf.String())
}
