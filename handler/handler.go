package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"campaign-agent/internal/usecase"
)

// UseCase is the conversation service surface the handler depends on.
type UseCase interface {
	Start(ctx context.Context) (usecase.StartOutput, error)
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// Handler adapts API Gateway proxy events to the conversation service.
// GET starts a fresh conversation; POST delivers one user message.
type Handler struct {
	uc UseCase
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Reset          bool   `json:"reset"`
}

type startResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func NewHandler(uc UseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: usecase must not be nil")
	}
	return &Handler{uc: uc}, nil
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)

	if event.HTTPMethod == http.MethodGet {
		out, err := h.uc.Start(ctx)
		if err != nil {
			return errorReply(err, corrID), nil
		}
		return jsonReply(http.StatusOK, startResponse{Response: out.Prompt, ConversationID: out.ConversationID}, corrID), nil
	}

	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return jsonReply(http.StatusBadRequest, errorResponse{
			Error:  string(usecase.ErrorInvalidInput),
			Reason: "malformed_body",
		}, corrID), nil
	}

	out, err := h.uc.Chat(ctx, usecase.ChatInput{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		return errorReply(err, corrID), nil
	}
	return jsonReply(http.StatusOK, chatResponse{
		Response:       out.Reply,
		ConversationID: out.ConversationID,
		Reset:          out.Reset,
	}, corrID), nil
}

func errorReply(err error, corrID string) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		return jsonReply(statusForCode(ucErr.Code), errorResponse{
			Error:  string(ucErr.Code),
			Reason: ucErr.Reason,
		}, corrID)
	}
	return jsonReply(http.StatusInternalServerError, errorResponse{Error: string(usecase.ErrorInternal)}, corrID)
}

func statusForCode(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func jsonReply(status int, body any, corrID string) events.APIGatewayProxyResponse {
	buf, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"X-Correlation-Id": corrID,
		},
		Body: string(buf),
	}
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "X-Correlation-Id") && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
