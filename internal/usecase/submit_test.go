package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"campaign-agent/internal/domain"
)

func testParams(t *testing.T) domain.CampaignParameters {
	t.Helper()
	start, err := domain.ParseISODate("2025-01-10")
	require.NoError(t, err)
	end, err := domain.ParseISODate("2025-01-11")
	require.NoError(t, err)
	params, err := domain.CampaignDraft{
		Name:           "Summer Sale",
		DailyBudget:    &domain.Money{Amount: "500.50", Currency: "INR"},
		Channel:        domain.ChannelSearch,
		SearchPartners: domain.PartnersEnabled,
		StartDate:      &start,
		EndDate:        &end,
	}.Complete()
	require.NoError(t, err)
	return params
}

func TestSubmit_BuildsBudgetRequest(t *testing.T) {
	platform := &mockPlatform{customerID: "9876543210"}
	svc := newTestService(t, &mockSessions{}, platform)

	_, err := svc.submit(context.Background(), testParams(t))
	require.NoError(t, err)
	require.Len(t, platform.budgets, 1)

	budget := platform.budgets[0]
	require.Equal(t, "9876543210", budget.CustomerID)
	require.True(t, strings.HasPrefix(budget.Name, "Budget for Summer Sale "))
	require.Greater(t, len(budget.Name), len("Budget for Summer Sale "), "budget name must carry a unique token")
	require.Equal(t, int64(500_500_000), budget.AmountMicros)
	require.False(t, budget.ExplicitlyShared)
	require.Equal(t, "STANDARD", budget.DeliveryMethod)
}

func TestSubmit_BuildsCampaignRequest(t *testing.T) {
	platform := &mockPlatform{customerID: "9876543210"}
	svc := newTestService(t, &mockSessions{}, platform)

	ref, err := svc.submit(context.Background(), testParams(t))
	require.NoError(t, err)
	require.Equal(t, "customers/9876543210/campaigns/1", ref)
	require.Len(t, platform.campaigns, 1)

	campaign := platform.campaigns[0]
	require.Equal(t, "9876543210", campaign.CustomerID)
	require.True(t, strings.HasPrefix(campaign.Name, "Summer Sale "))
	require.Equal(t, "customers/9876543210/campaignBudgets/1", campaign.BudgetResource)
	require.Equal(t, "SEARCH", campaign.ChannelType)
	require.Equal(t, "PAUSED", campaign.Status)
	require.Equal(t, "20250110", campaign.StartDate)
	require.Equal(t, "20250111", campaign.EndDate)
	require.True(t, campaign.ManualCPC)

	// Fixed network policy, independent of the collected partners answer.
	require.True(t, campaign.Network.TargetGoogleSearch)
	require.True(t, campaign.Network.TargetSearchNetwork)
	require.False(t, campaign.Network.TargetPartnerSearchNetwork)
	require.True(t, campaign.Network.TargetContentNetwork)
}

func TestSubmit_BudgetFailureAbortsBeforeCampaign(t *testing.T) {
	platform := &mockPlatform{budgetErr: errors.New("quota exceeded")}
	svc := newTestService(t, &mockSessions{}, platform)

	_, err := svc.submit(context.Background(), testParams(t))
	require.Error(t, err)
	require.ErrorContains(t, err, "create budget")
	require.Equal(t, 1, platform.budgetCalls)
	require.Zero(t, platform.campaignCalls)
}

func TestSubmit_CampaignFailureLeavesBudgetInPlace(t *testing.T) {
	platform := &mockPlatform{campaignErr: errors.New("policy violation")}
	svc := newTestService(t, &mockSessions{}, platform)

	_, err := svc.submit(context.Background(), testParams(t))
	require.Error(t, err)
	require.ErrorContains(t, err, "left in place")
	require.ErrorContains(t, err, "customers/1234567890/campaignBudgets/1")
	require.Equal(t, 1, platform.budgetCalls)
	require.Equal(t, 1, platform.campaignCalls)
}

func TestSubmit_CustomerIDComesFromConfiguration(t *testing.T) {
	platform := &mockPlatform{customerErr: errors.New("no customer id configured")}
	svc := newTestService(t, &mockSessions{}, platform)

	_, err := svc.submit(context.Background(), testParams(t))
	require.Error(t, err)
	require.ErrorContains(t, err, "resolve customer id")
	require.Zero(t, platform.budgetCalls)
}

func TestSubmit_RepeatSubmissionsAreIndependentCreations(t *testing.T) {
	platform := &mockPlatform{}
	svc := newTestService(t, &mockSessions{}, platform)
	params := testParams(t)

	first, err := svc.submit(context.Background(), params)
	require.NoError(t, err)
	second, err := svc.submit(context.Background(), params)
	require.NoError(t, err)

	// No dedup layer exists: identical parameters yield two budgets, two
	// campaigns, and distinct identifiers.
	require.NotEqual(t, first, second)
	require.Equal(t, 2, platform.budgetCalls)
	require.Equal(t, 2, platform.campaignCalls)
	require.NotEqual(t, platform.budgets[0].Name, platform.budgets[1].Name)
}
