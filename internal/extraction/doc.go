// Package extraction implements the six rule-based extractors that turn a
// conversation's messages into an aicf.AnalysisResult: IntentExtractor,
// ActionExtractor, TechnicalWorkExtractor, DecisionExtractor,
// FlowExtractor, and StateExtractor.
//
// Every extractor is pattern-based: compiled regex (or keyword) tables
// with per-pattern weights and a confidence threshold, plus (for
// DecisionExtractor) a surrounding context window. There is no LLM
// summarizer stage in this package; all classification is rule-based, by
// design (see DESIGN.md).
package extraction
