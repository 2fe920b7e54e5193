package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campaign-agent/internal/domain"
)

// SessionStore persists conversation state across the turns of one session.
type SessionStore interface {
	GetSession(ctx context.Context, conversationID string) (domain.ConversationState, bool, error)
	SaveSession(ctx context.Context, state domain.ConversationState) error
}

// AdsPlatform is the external advertising platform collaborator. Both
// creation calls are synchronous and idempotency-unaware; callers must not
// resubmit on their own.
type AdsPlatform interface {
	CustomerID(ctx context.Context) (string, error)
	CreateBudget(ctx context.Context, b domain.BudgetCreation) (string, error)
	CreateCampaign(ctx context.Context, c domain.CampaignCreation) (string, error)
}

// ChatService drives the campaign intake conversation: one message in, one
// reply out, with state loaded and saved around every transition.
type ChatService struct {
	sessions SessionStore
	platform AdsPlatform
	now      func() time.Time
}

type ChatInput struct {
	ConversationID string
	Message        string
}

type ChatOutput struct {
	Reply          string
	ConversationID string
	// Reset is true only when a successful submission cleared the session.
	Reset bool
}

type StartOutput struct {
	ConversationID string
	Prompt         string
}

func NewChatService(sessions SessionStore, platform AdsPlatform) (*ChatService, error) {
	if sessions == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if platform == nil {
		return nil, errors.New("usecase: ads platform must not be nil")
	}
	return &ChatService{sessions: sessions, platform: platform, now: time.Now}, nil
}

// Start opens a fresh conversation positioned at the first question.
func (s *ChatService) Start(ctx context.Context) (StartOutput, error) {
	state := domain.NewConversationState(newUUID())
	if err := s.sessions.SaveSession(ctx, state); err != nil {
		return StartOutput{}, newError(ErrorInternal, "session_write_error", err)
	}
	return StartOutput{ConversationID: state.ConversationID, Prompt: steps[0].prompt}, nil
}

// Chat advances the conversation by exactly one turn and returns exactly
// one reply. Validation rejections and submission failures are normal
// replies; only empty input and infrastructure faults surface as errors.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}

	state, err := s.loadState(ctx, strings.TrimSpace(in.ConversationID))
	if err != nil {
		return ChatOutput{}, err
	}

	var out ChatOutput
	if state.Phase == domain.PhaseConfirm {
		state, out, err = s.confirmTurn(ctx, state, message)
		if err != nil {
			return ChatOutput{}, err
		}
	} else {
		state, out = stepTurn(state, message, truncateToDay(s.now()))
	}

	if err := s.sessions.SaveSession(ctx, state); err != nil {
		return ChatOutput{}, newError(ErrorInternal, "session_write_error", err)
	}
	out.ConversationID = state.ConversationID
	return out, nil
}

// loadState fetches the session's state, starting a fresh one when the
// conversation id is missing or unknown.
func (s *ChatService) loadState(ctx context.Context, conversationID string) (domain.ConversationState, error) {
	if conversationID == "" {
		return domain.NewConversationState(newUUID()), nil
	}
	stored, found, err := s.sessions.GetSession(ctx, conversationID)
	if err != nil {
		return domain.ConversationState{}, newError(ErrorInternal, "session_read_error", err)
	}
	if !found {
		return domain.NewConversationState(conversationID), nil
	}
	return stored, nil
}

// stepTurn runs one collection-phase transition. Rejections return the
// input state unchanged alongside the rejection message.
func stepTurn(state domain.ConversationState, message string, today time.Time) (domain.ConversationState, ChatOutput) {
	if state.Step < 1 || state.Step > len(steps) {
		// Corrupt step index; restart rather than guess.
		state = domain.NewConversationState(state.ConversationID)
	}
	step := steps[state.Step-1]
	if err := step.apply(message, &state.Draft, today); err != nil {
		return state, ChatOutput{Reply: err.Error()}
	}
	if state.Step < len(steps) {
		state.Step++
		return state, ChatOutput{Reply: steps[state.Step-1].prompt}
	}
	state.Phase = domain.PhaseConfirm
	state.Step = 0
	return state, ChatOutput{Reply: renderReview(state.Draft)}
}

// confirmTurn handles the yes/no gate. "yes" submits once and resets only
// on success; "no" discards every answer and starts over; anything else
// leaves the state where it is.
func (s *ChatService) confirmTurn(ctx context.Context, state domain.ConversationState, message string) (domain.ConversationState, ChatOutput, error) {
	switch strings.ToLower(message) {
	case "yes":
		params, err := state.Draft.Complete()
		if err != nil {
			return state, ChatOutput{}, newError(ErrorInternal, "incomplete_answers", err)
		}
		campaignRef, err := s.submit(ctx, params)
		if err != nil {
			// Stay at confirmation: the user may answer "yes" again or
			// abandon with "no". Nothing is retried automatically.
			return state, ChatOutput{Reply: "Failed to create campaign. Please try again."}, nil
		}
		fresh := domain.NewConversationState(state.ConversationID)
		return fresh, ChatOutput{
			Reply: fmt.Sprintf("Campaign created successfully! Campaign ID: %s", campaignRef),
			Reset: true,
		}, nil
	case "no":
		fresh := domain.NewConversationState(state.ConversationID)
		return fresh, ChatOutput{
			Reply: "What would you like to edit? Please enter a new response for any question.\n\n" + steps[0].prompt,
		}, nil
	default:
		return state, ChatOutput{Reply: "Invalid response. Please enter: yes or no."}, nil
	}
}

// renderReview summarizes every collected answer and asks for confirmation.
func renderReview(draft domain.CampaignDraft) string {
	var b strings.Builder
	b.WriteString("Here is your campaign summary:\n\n")
	fmt.Fprintf(&b, "Campaign Name: %s\n", draft.Name)
	fmt.Fprintf(&b, "Daily Budget: %s\n", draft.DailyBudget)
	fmt.Fprintf(&b, "Advertising Type: %s\n", draft.Channel)
	fmt.Fprintf(&b, "Google Search Partners: %s\n", draft.SearchPartners)
	fmt.Fprintf(&b, "Start Date: %s\n", domain.ISODate(*draft.StartDate))
	fmt.Fprintf(&b, "End Date: %s\n", domain.ISODate(*draft.EndDate))
	b.WriteString("\nDoes everything look correct? Please enter: yes or no.")
	return b.String()
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var newUUID = func() string {
	return uuid.NewString()
}
