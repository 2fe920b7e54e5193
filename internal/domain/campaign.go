package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Channel is the advertising channel selected by the user, in its canonical
// capitalized form.
type Channel string

const (
	ChannelSearch   Channel = "Search"
	ChannelDisplay  Channel = "Display"
	ChannelShopping Channel = "Shopping"
)

// PartnerSetting records the user's Google Search Partners choice.
type PartnerSetting string

const (
	PartnersEnabled  PartnerSetting = "Enabled"
	PartnersDisabled PartnerSetting = "Disabled"
)

// Money is a currency-tagged decimal amount. Amount holds the canonical
// decimal text accepted by validation, e.g. "500" or "500.50".
type Money struct {
	Amount   string
	Currency string
}

// Micros converts the amount to the platform's integer minor-unit
// representation (amount x 1,000,000) without going through floating point.
// Fractional digits beyond the sixth are truncated.
func (m Money) Micros() int64 {
	whole, frac, _ := strings.Cut(m.Amount, ".")
	var n int64
	for _, r := range whole {
		n = n*10 + int64(r-'0')
	}
	n *= 1_000_000
	scale := int64(100_000)
	for _, r := range frac {
		if scale == 0 {
			break
		}
		n += int64(r-'0') * scale
		scale /= 10
	}
	return n
}

func (m Money) String() string {
	return m.Amount + " " + m.Currency
}

// CampaignDraft accumulates validated answers one step at a time. Zero
// values mean "not answered yet"; Complete is the only way to obtain
// CampaignParameters from a draft.
type CampaignDraft struct {
	Name           string
	DailyBudget    *Money
	Channel        Channel
	SearchPartners PartnerSetting
	StartDate      *time.Time
	EndDate        *time.Time
}

// CampaignParameters is a fully collected, validated set of campaign
// answers. Only Complete constructs one, so holding a value implies every
// step's validator accepted its field.
type CampaignParameters struct {
	Name           string
	DailyBudget    Money
	Channel        Channel
	SearchPartners PartnerSetting
	StartDate      time.Time
	EndDate        time.Time
}

// Complete returns the finished parameters, or an error naming the first
// missing field.
func (d CampaignDraft) Complete() (CampaignParameters, error) {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return CampaignParameters{}, errors.New("domain: campaign name not set")
	case d.DailyBudget == nil:
		return CampaignParameters{}, errors.New("domain: daily budget not set")
	case d.Channel == "":
		return CampaignParameters{}, errors.New("domain: advertising channel not set")
	case d.SearchPartners == "":
		return CampaignParameters{}, errors.New("domain: search partners setting not set")
	case d.StartDate == nil:
		return CampaignParameters{}, errors.New("domain: start date not set")
	case d.EndDate == nil:
		return CampaignParameters{}, errors.New("domain: end date not set")
	}
	return CampaignParameters{
		Name:           d.Name,
		DailyBudget:    *d.DailyBudget,
		Channel:        d.Channel,
		SearchPartners: d.SearchPartners,
		StartDate:      *d.StartDate,
		EndDate:        *d.EndDate,
	}, nil
}

const isoDate = "2006-01-02"

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(isoDate)
}

// ParseISODate parses a YYYY-MM-DD calendar date.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDate, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("domain: parse date %q: %w", s, err)
	}
	return t, nil
}
