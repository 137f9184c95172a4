package cachestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// ContentHash computes the content-addressing key for rawData: canonicalize
// to JSON with recursively sorted object keys, no HTML-escaping, no
// indentation, trim trailing whitespace, then SHA-256 the result. Two
// payloads that are structurally identical but differ only in key order
// hash identically.
func ContentHash(rawData any) (string, error) {
	canonical, err := canonicalize(rawData)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalize(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	return []byte(strings.TrimRight(buf.String(), "\n\r\t ")), nil
}

// normalize recursively sorts map keys by round-tripping through
// encoding/json's native map ordering (Go's json.Marshal already sorts map
// keys), but explicit sortedMap conversion keeps behavior independent of
// whether v was decoded from JSON or built programmatically with nested
// map[string]any values containing non-comparable orderings.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ordered := make(sortedMap, 0, len(keys))
		for _, k := range keys {
			nv, err := normalize(val[k])
			if err != nil {
				return nil, err
			}
			ordered = append(ordered, sortedPair{Key: k, Value: nv})
		}
		return ordered, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			nv, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}

// sortedMap marshals as a JSON object with keys in insertion order, which
// normalize() has already sorted lexicographically.
type sortedMap []sortedPair

type sortedPair struct {
	Key   string
	Value any
}

func (m sortedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valJSON, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
