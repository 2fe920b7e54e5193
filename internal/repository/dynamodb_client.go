package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"campaign-agent/internal/domain"
)

const (
	skState     = "STATE"
	ttlDuration = 24 * time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client wraps a DynamoDB table holding one conversation-state item per
// session. State exists only to carry a session across invocations; items
// expire via TTL.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

func sessionPK(conversationID string) string {
	return "SESSION#" + conversationID
}

func ttlValue() int64 {
	return time.Now().Add(ttlDuration).Unix()
}

// GetSession loads the conversation state for a session. The boolean is
// false when no state exists yet.
func (c *Client) GetSession(ctx context.Context, conversationID string) (domain.ConversationState, bool, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: sessionPK(conversationID)},
			"SK": &types.AttributeValueMemberS{Value: skState},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.ConversationState{}, false, fmt.Errorf("repository: GetSession get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.ConversationState{}, false, nil
	}
	state, err := itemToState(out.Item)
	if err != nil {
		return domain.ConversationState{}, false, fmt.Errorf("repository: GetSession decode: %w", err)
	}
	return state, true, nil
}

// SaveSession writes or replaces the session's conversation state.
func (c *Client) SaveSession(ctx context.Context, state domain.ConversationState) error {
	if strings.TrimSpace(state.ConversationID) == "" {
		return errors.New("repository: SaveSession: conversation id is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      stateItem(state),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveSession: %w", err)
	}
	return nil
}

// stateItem flattens the state and its draft into one attribute map.
// Unanswered draft fields are omitted entirely.
func stateItem(state domain.ConversationState) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: sessionPK(state.ConversationID)},
		"SK":             &types.AttributeValueMemberS{Value: skState},
		"conversationId": &types.AttributeValueMemberS{Value: state.ConversationID},
		"phase":          &types.AttributeValueMemberS{Value: string(state.Phase)},
		"step":           &types.AttributeValueMemberN{Value: strconv.Itoa(state.Step)},
		"updatedAt":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		"ttl":            &types.AttributeValueMemberN{Value: strconv.FormatInt(ttlValue(), 10)},
	}
	draft := state.Draft
	if draft.Name != "" {
		item["name"] = &types.AttributeValueMemberS{Value: draft.Name}
	}
	if draft.DailyBudget != nil {
		item["budgetAmount"] = &types.AttributeValueMemberS{Value: draft.DailyBudget.Amount}
		item["budgetCurrency"] = &types.AttributeValueMemberS{Value: draft.DailyBudget.Currency}
	}
	if draft.Channel != "" {
		item["channel"] = &types.AttributeValueMemberS{Value: string(draft.Channel)}
	}
	if draft.SearchPartners != "" {
		item["searchPartners"] = &types.AttributeValueMemberS{Value: string(draft.SearchPartners)}
	}
	if draft.StartDate != nil {
		item["startDate"] = &types.AttributeValueMemberS{Value: domain.ISODate(*draft.StartDate)}
	}
	if draft.EndDate != nil {
		item["endDate"] = &types.AttributeValueMemberS{Value: domain.ISODate(*draft.EndDate)}
	}
	return item
}

func itemToState(item map[string]types.AttributeValue) (domain.ConversationState, error) {
	conversationID, err := strAttr(item, "conversationId")
	if err != nil {
		return domain.ConversationState{}, err
	}
	phase, err := strAttr(item, "phase")
	if err != nil {
		return domain.ConversationState{}, err
	}
	step, err := intAttr(item, "step")
	if err != nil {
		return domain.ConversationState{}, err
	}

	state := domain.ConversationState{
		ConversationID: conversationID,
		Phase:          domain.Phase(phase),
		Step:           step,
	}

	if name, ok := optStrAttr(item, "name"); ok {
		state.Draft.Name = name
	}
	if amount, ok := optStrAttr(item, "budgetAmount"); ok {
		currency, _ := optStrAttr(item, "budgetCurrency")
		state.Draft.DailyBudget = &domain.Money{Amount: amount, Currency: currency}
	}
	if channel, ok := optStrAttr(item, "channel"); ok {
		state.Draft.Channel = domain.Channel(channel)
	}
	if partners, ok := optStrAttr(item, "searchPartners"); ok {
		state.Draft.SearchPartners = domain.PartnerSetting(partners)
	}
	if raw, ok := optStrAttr(item, "startDate"); ok {
		d, err := domain.ParseISODate(raw)
		if err != nil {
			return domain.ConversationState{}, err
		}
		state.Draft.StartDate = &d
	}
	if raw, ok := optStrAttr(item, "endDate"); ok {
		d, err := domain.ParseISODate(raw)
		if err != nil {
			return domain.ConversationState{}, err
		}
		state.Draft.EndDate = &d
	}
	return state, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func optStrAttr(item map[string]types.AttributeValue, key string) (string, bool) {
	s, ok := item[key].(*types.AttributeValueMemberS)
	if !ok || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
