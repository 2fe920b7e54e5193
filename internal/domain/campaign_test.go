package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMoneyMicros(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"500", 500_000_000},
		{"500.50", 500_500_000},
		{"5", 5_000_000},
		{"0", 0},
		{".5", 500_000},
		{"0.000001", 1},
		{"0.1234567", 123_456}, // seventh fractional digit truncated
	}
	for _, tc := range cases {
		m := Money{Amount: tc.amount, Currency: "INR"}
		require.Equal(t, tc.want, m.Micros(), "amount=%q", tc.amount)
	}
}

func TestMoneyString(t *testing.T) {
	require.Equal(t, "500.50 INR", Money{Amount: "500.50", Currency: "INR"}.String())
}

func fullDraft(t *testing.T) CampaignDraft {
	t.Helper()
	start, err := ParseISODate("2025-01-10")
	require.NoError(t, err)
	end, err := ParseISODate("2025-01-11")
	require.NoError(t, err)
	return CampaignDraft{
		Name:           "Summer Sale",
		DailyBudget:    &Money{Amount: "500.50", Currency: "INR"},
		Channel:        ChannelSearch,
		SearchPartners: PartnersEnabled,
		StartDate:      &start,
		EndDate:        &end,
	}
}

func TestDraftComplete_HappyPath(t *testing.T) {
	params, err := fullDraft(t).Complete()
	require.NoError(t, err)
	require.Equal(t, "Summer Sale", params.Name)
	require.Equal(t, Money{Amount: "500.50", Currency: "INR"}, params.DailyBudget)
	require.Equal(t, ChannelSearch, params.Channel)
	require.Equal(t, PartnersEnabled, params.SearchPartners)
	require.Equal(t, "2025-01-10", ISODate(params.StartDate))
	require.Equal(t, "2025-01-11", ISODate(params.EndDate))
}

func TestDraftComplete_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CampaignDraft)
	}{
		{"name", func(d *CampaignDraft) { d.Name = " " }},
		{"budget", func(d *CampaignDraft) { d.DailyBudget = nil }},
		{"channel", func(d *CampaignDraft) { d.Channel = "" }},
		{"partners", func(d *CampaignDraft) { d.SearchPartners = "" }},
		{"start date", func(d *CampaignDraft) { d.StartDate = nil }},
		{"end date", func(d *CampaignDraft) { d.EndDate = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := fullDraft(t)
			tc.mutate(&d)
			_, err := d.Complete()
			require.Error(t, err)
		})
	}
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2025-01-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseISODate("  2025-01-10  ")
	require.NoError(t, err)
	require.Equal(t, "2025-01-10", ISODate(d))

	_, err = ParseISODate("10-01-2025")
	require.Error(t, err)
	_, err = ParseISODate("2025-13-40")
	require.Error(t, err)
	_, err = ParseISODate("not-a-date")
	require.Error(t, err)
}

func TestNewConversationState(t *testing.T) {
	state := NewConversationState("conv-1")
	require.Equal(t, "conv-1", state.ConversationID)
	require.Equal(t, PhaseStep, state.Phase)
	require.Equal(t, 1, state.Step)
	require.Equal(t, CampaignDraft{}, state.Draft)
}
