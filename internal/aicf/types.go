// Package aicf defines the shared data model for the conversation memory
// pipeline: raw records as read from foreign stores, cache chunks, and the
// AnalysisResult produced by the extraction stage. These types are the
// contract every other package in this module composes over.
package aicf

import "time"

// Source identifies which foreign assistant platform a record came from.
// A closed set — readers are added by extending this type and the
// SourceReader registry in internal/sources, never by accepting an
// arbitrary string at runtime.
type Source string

const (
	SourceAugment       Source = "augment"
	SourceClaudeCLI     Source = "claude-cli"
	SourceClaudeDesktop Source = "claude-desktop"
	SourceWarp          Source = "warp"
)

// KnownSources lists every Source this build recognizes, in a stable order
// used for deterministic iteration (e.g. rate-limiter burst sizing).
var KnownSources = []Source{SourceAugment, SourceClaudeCLI, SourceClaudeDesktop, SourceWarp}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	for _, k := range KnownSources {
		if k == s {
			return true
		}
	}
	return false
}

func (s Source) String() string { return string(s) }

// Confidence grades how certain an extractor is about a classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Impact grades how significant an extracted decision is.
type Impact string

const (
	ImpactHigh   Impact = "HIGH"
	ImpactMedium Impact = "MEDIUM"
	ImpactLow    Impact = "LOW"
)

// DominantRole summarizes which side of a conversation drove it.
type DominantRole string

const (
	RoleUser     DominantRole = "user"
	RoleAI       DominantRole = "ai"
	RoleBalanced DominantRole = "balanced"
)

// SpecVersion is the version field written as line 1 of every AICF file.
const SpecVersion = "3.0"

// RawRecord is one conversation record as read from a foreign store, before
// it is cached. (source, conversationId) is unique within a cycle;
// contentHash is computed by the cache writer, not the reader.
type RawRecord struct {
	ConversationID string
	WorkspaceID    string
	WorkspaceName  string
	Source         Source
	Timestamp      time.Time
	LastModified   time.Time
	RawData        map[string]any

	// Messages is the reader's reconstruction of the conversation turns,
	// used directly by the extractors. Readers populate this from RawData
	// according to their own source's shape.
	Messages []Message
}

// Message is one turn of a conversation, normalized across all sources.
type Message struct {
	Role      string // "user" or "assistant"
	Text      string
	Timestamp time.Time
	ToolCalls []ToolCall

	// Metadata carries source-specific context that doesn't fit the
	// normalized Role/Text/ToolCalls shape but is an input to downstream
	// extraction: token-usage counts, "thinking" block text, working
	// directory, git branch. Keys are source-specific; nil when a
	// source has nothing to report for this turn.
	Metadata map[string]any
}

// ToolCall records one tool invocation surfaced by a source (e.g. Claude
// CLI's tool_use/tool_result blocks, or Augment's request_nodes).
type ToolCall struct {
	Name   string
	Detail string
}

// Chunk is the persistent, content-addressed representation of one
// RawRecord staged in .cache/llm/<source>/chunk-<N>.json. Immutable once
// written; duplicates (same ContentHash for the same source) are dropped.
type Chunk struct {
	ChunkID        int       `json:"chunkId"`
	ConversationID string    `json:"conversationId"`
	WorkspaceID    string    `json:"workspaceId"`
	WorkspaceName  string    `json:"workspaceName"`
	Source         Source    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
	LastModified   time.Time `json:"lastModified"`
	RawData        any       `json:"rawData"`
	ContentHash    string    `json:"contentHash"`

	// Messages is the reader's normalized turns for this record, carried
	// through the chunk so the consolidation agent can run extractors
	// without re-parsing the source-specific RawData blob.
	Messages []Message `json:"messages"`
}

// UserIntent is one classified user utterance.
type UserIntent struct {
	Timestamp  time.Time
	Intent     string
	Confidence Confidence
}

// AIAction is one classified assistant action.
type AIAction struct {
	Timestamp time.Time
	Type      string
	Details   string
}

// TechnicalWork is one detected technology/architecture marker.
type TechnicalWork struct {
	Timestamp   time.Time
	Type        string
	Description string
}

// Decision is one extracted decision sentence, always ≤200 characters.
type Decision struct {
	Timestamp time.Time
	Decision  string
	Impact    Impact
	Context   string
}

// Flow summarizes the turn-taking shape of a conversation.
type Flow struct {
	TurnCount    int
	DominantRole DominantRole
	Sequence     []string
}

// WorkingState captures the open threads at the end of a conversation.
type WorkingState struct {
	CurrentTask string
	Blockers    []string
	NextAction  string
}

// AnalysisResult is the composed output of running every extractor over one
// conversation's RawRecord. Every field is optional; the shape is fixed.
// Array fields are deduplicated by the Analysis Orchestrator before this
// type ever leaves that package — every other package may assume no
// duplicate entries.
type AnalysisResult struct {
	ConversationID string
	Timestamp      time.Time

	// Source identifies which platform this conversation came from. It
	// is not one of the nine AICF grammar lines in spec.md §3, but is
	// carried alongside so the Session Consolidation Agent can populate
	// the session schema's AI_MODEL column (spec.md §4.7), which has no
	// other source in the per-conversation record.
	Source Source

	// FirstUserMessage is the trimmed text of the first user turn,
	// carried alongside (not one of the nine §3 grammar lines) so the
	// Session Consolidation Agent can derive a session title from it
	// per spec.md §4.7 without re-reading the original conversation.
	FirstUserMessage string

	UserIntents   []UserIntent
	AIActions     []AIAction
	TechnicalWork []TechnicalWork
	Decisions     []Decision
	Flow          Flow
	WorkingState  WorkingState
}
