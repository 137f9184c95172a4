package extraction

import "github.com/aicf-dev/aicf/internal/aicf"

// dominantRoleThreshold is the spec.md §4.3 ratio above which a
// conversation is considered driven by one role rather than balanced.
const dominantRoleThreshold = 0.6

// FlowExtractor builds the turn sequence and computes turn count and
// dominant role per spec.md §4.3.
type FlowExtractor struct{}

// NewFlowExtractor returns a FlowExtractor. It carries no configuration.
func NewFlowExtractor() *FlowExtractor { return &FlowExtractor{} }

// Extract builds the [user, ai, user, ai, ...] sequence for messages.
func (e *FlowExtractor) Extract(messages []aicf.Message) aicf.Flow {
	sequence := make([]string, 0, len(messages))
	userCount, aiCount := 0, 0

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			sequence = append(sequence, "user")
			userCount++
		case "assistant":
			sequence = append(sequence, "ai")
			aiCount++
		default:
			sequence = append(sequence, msg.Role)
		}
	}

	total := userCount + aiCount
	role := aicf.RoleBalanced
	if total > 0 {
		switch {
		case float64(userCount)/float64(total) > dominantRoleThreshold:
			role = aicf.RoleUser
		case float64(aiCount)/float64(total) > dominantRoleThreshold:
			role = aicf.RoleAI
		}
	}

	return aicf.Flow{
		TurnCount:    len(sequence),
		DominantRole: role,
		Sequence:     sequence,
	}
}
