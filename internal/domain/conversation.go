package domain

// Phase identifies where a conversation currently is in the intake flow.
type Phase string

const (
	// PhaseStep means the conversation is collecting the answer for the
	// numbered step in ConversationState.Step.
	PhaseStep Phase = "step"
	// PhaseConfirm means all answers are collected and the user must approve
	// or discard them before anything is submitted.
	PhaseConfirm Phase = "confirm"
)

// ConversationState is the full per-session state of a campaign intake
// conversation. It is owned by the caller and threaded through every
// transition; nothing in it is shared across sessions.
type ConversationState struct {
	ConversationID string
	Phase          Phase
	Step           int // 1-based; meaningful only while Phase == PhaseStep
	Draft          CampaignDraft
}

// NewConversationState returns a fresh state positioned at the first step
// with no answers collected.
func NewConversationState(conversationID string) ConversationState {
	return ConversationState{
		ConversationID: conversationID,
		Phase:          PhaseStep,
		Step:           1,
	}
}
