package usecase

import (
	"strings"
	"time"

	"campaign-agent/internal/domain"
)

const budgetCurrency = "INR"

// rejection is a user-facing validation failure. It is a normal reply, not
// a fault: a transition that produces one leaves state untouched.
type rejection struct {
	msg string
}

func (r *rejection) Error() string { return r.msg }

func reject(msg string) error { return &rejection{msg: msg} }

// stepDefinition binds one ordinal question to its validator and the draft
// field it fills. apply must not mutate the draft when it rejects.
type stepDefinition struct {
	order  int
	field  string
	prompt string
	apply  func(raw string, draft *domain.CampaignDraft, today time.Time) error
}

// steps is the fixed question sequence. Ordering here is the sole
// sequencing authority for the conversation.
var steps = []stepDefinition{
	{
		order:  1,
		field:  "Campaign Name",
		prompt: "What is the name of your campaign?",
		apply: func(raw string, draft *domain.CampaignDraft, _ time.Time) error {
			draft.Name = raw
			return nil
		},
	},
	{
		order:  2,
		field:  "Daily Budget",
		prompt: "What is your daily budget in INR?",
		apply: func(raw string, draft *domain.CampaignDraft, _ time.Time) error {
			if !isDecimal(raw) {
				return reject("Invalid budget. Please enter a numeric value in INR.")
			}
			draft.DailyBudget = &domain.Money{Amount: raw, Currency: budgetCurrency}
			return nil
		},
	},
	{
		order:  3,
		field:  "Advertising Type",
		prompt: "What type of advertising do you want? (Search, Display, Shopping)?",
		apply: func(raw string, draft *domain.CampaignDraft, _ time.Time) error {
			ch, ok := parseChannel(raw)
			if !ok {
				return reject("Invalid advertising type. Please enter: Search, Display, or Shopping.")
			}
			draft.Channel = ch
			return nil
		},
	},
	{
		order:  4,
		field:  "Google Search Partners",
		prompt: "Do you want to enable Google Search Partners? (yes or no)?",
		apply: func(raw string, draft *domain.CampaignDraft, _ time.Time) error {
			setting, ok := parsePartners(raw)
			if !ok {
				return reject("Invalid response. Please enter: yes or no.")
			}
			draft.SearchPartners = setting
			return nil
		},
	},
	{
		order:  5,
		field:  "Start Date",
		prompt: "What is your campaign start date? (YYYY-MM-DD)?",
		apply: func(raw string, draft *domain.CampaignDraft, today time.Time) error {
			d, err := domain.ParseISODate(raw)
			if err != nil {
				return reject("Invalid date format. Please enter Start Date in YYYY-MM-DD format.")
			}
			if d.Before(today) {
				return reject("Start Date cannot be in the past. Please enter a future date.")
			}
			draft.StartDate = &d
			return nil
		},
	},
	{
		order:  6,
		field:  "End Date",
		prompt: "What is your campaign end date? (YYYY-MM-DD)?",
		apply: func(raw string, draft *domain.CampaignDraft, today time.Time) error {
			d, err := domain.ParseISODate(raw)
			if err != nil {
				return reject("Invalid date format. Please enter End Date in YYYY-MM-DD format.")
			}
			if d.Before(today) {
				return reject("End Date cannot be in the past. Please enter a future date.")
			}
			if draft.StartDate == nil || !d.After(*draft.StartDate) {
				return reject("End Date must be after Start Date. Please enter a valid End Date.")
			}
			draft.EndDate = &d
			return nil
		},
	},
}

// isDecimal reports whether s is a non-negative decimal number with at most
// one decimal point and at least one digit.
func isDecimal(s string) bool {
	dot := false
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

func parseChannel(s string) (domain.Channel, bool) {
	switch strings.ToLower(s) {
	case "search":
		return domain.ChannelSearch, true
	case "display":
		return domain.ChannelDisplay, true
	case "shopping":
		return domain.ChannelShopping, true
	}
	return "", false
}

func parsePartners(s string) (domain.PartnerSetting, bool) {
	switch strings.ToLower(s) {
	case "yes":
		return domain.PartnersEnabled, true
	case "no":
		return domain.PartnersDisabled, true
	}
	return "", false
}
