package extraction

import "regexp"

// Pattern is one named, weighted regex rule. Grounded on the teacher's
// own extraction.Pattern/DefaultPatterns shape; kept unchanged as the
// common compiled-pattern-table idiom every extractor below reuses.
type Pattern struct {
	Name   string
	Regex  string
	Weight float64
}

type compiledPattern struct {
	Pattern
	regex *regexp.Regexp
}

// compilePatterns compiles every pattern, silently skipping any whose
// regex fails to compile (the teacher's own HeuristicExtractor does the
// same rather than treat a bad pattern as a fatal startup error).
func compilePatterns(patterns []Pattern) []*compiledPattern {
	compiled := make([]*compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			continue
		}
		compiled = append(compiled, &compiledPattern{Pattern: p, regex: re})
	}
	return compiled
}

// bestMatch returns the highest-weight pattern matching content, or nil.
func bestMatch(patterns []*compiledPattern, content string) *compiledPattern {
	var best *compiledPattern
	var bestWeight float64
	for _, p := range patterns {
		if p.regex.MatchString(content) && p.Weight > bestWeight {
			best = p
			bestWeight = p.Weight
		}
	}
	return best
}
