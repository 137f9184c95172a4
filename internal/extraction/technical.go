package extraction

import (
	"strings"

	"github.com/aicf-dev/aicf/internal/aicf"
)

// TechnologyMarkers maps a primary technology name to the keywords that
// indicate it, and DefaultArchitectureMarkers maps an architectural
// category name to its keywords. Both are adapted from the teacher's
// DefaultTagRules (internal/extraction/tags.go): same
// tag-name-to-keyword-list shape, split in two so TechnicalWorkExtractor
// can distinguish "what language/framework" from "what kind of system".
var TechnologyMarkers = map[string][]string{
	"golang":     {".go", "go mod", "go build", "go test", "golang", "goroutine"},
	"python":     {".py", "pip", "pytest", "python", "django", "flask"},
	"typescript": {".ts", ".tsx", "typescript"},
	"javascript": {".js", ".jsx", "npm", "node", "javascript"},
	"rust":       {".rs", "cargo", "rustc", "rust"},
	"java":       {".java", "maven", "gradle", "java"},
	"sql":        {"sql", "postgres", "mysql", "sqlite", "select * from"},
}

var DefaultArchitectureMarkers = map[string][]string{
	"kubernetes":     {"kubectl", "k8s", "helm", "deployment.yaml", "kubernetes"},
	"docker":         {"dockerfile", "docker-compose", "container image", "docker"},
	"microservices":  {"microservice", "service mesh", "istio"},
	"api":            {"api", "endpoint", "rest", "grpc", "graphql"},
	"database":       {"database", "schema", "migration", "query"},
	"frontend":       {"frontend", "react", "vue", "component", "css"},
	"package_config": {"package.json", "go.mod", "requirements.txt", "cargo.toml", "pom.xml"},
}

// TechnicalWorkExtractor detects technology and architecture markers
// across a conversation's messages per spec.md §4.3.
type TechnicalWorkExtractor struct {
	technologies map[string][]string
	architecture map[string][]string
}

// NewTechnicalWorkExtractor builds an extractor from the given marker
// tables, falling back to the package defaults when either is empty.
func NewTechnicalWorkExtractor(technologies, architecture map[string][]string) *TechnicalWorkExtractor {
	if len(technologies) == 0 {
		technologies = TechnologyMarkers
	}
	if len(architecture) == 0 {
		architecture = DefaultArchitectureMarkers
	}
	return &TechnicalWorkExtractor{technologies: technologies, architecture: architecture}
}

// Extract records one TechnicalWork entry per distinct technology or
// architectural category referenced, at the timestamp of its first
// mention.
func (e *TechnicalWorkExtractor) Extract(messages []aicf.Message) []aicf.TechnicalWork {
	var work []aicf.TechnicalWork
	seenTech := map[string]bool{}
	seenArch := map[string]bool{}

	for _, msg := range messages {
		lower := strings.ToLower(msg.Text)

		for name, keywords := range e.technologies {
			if seenTech[name] {
				continue
			}
			if containsAny(lower, keywords) {
				seenTech[name] = true
				work = append(work, aicf.TechnicalWork{
					Timestamp:   msg.Timestamp,
					Type:        "technology",
					Description: name,
				})
			}
		}

		for name, keywords := range e.architecture {
			if seenArch[name] {
				continue
			}
			if containsAny(lower, keywords) {
				seenArch[name] = true
				work = append(work, aicf.TechnicalWork{
					Timestamp:   msg.Timestamp,
					Type:        "architecture",
					Description: name,
				})
			}
		}
	}

	return work
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
