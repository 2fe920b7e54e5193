package usecase

import (
	"context"
	"fmt"
	"time"

	"campaign-agent/internal/domain"
)

const (
	budgetDeliveryStandard = "STANDARD"
	channelTypeSearch      = "SEARCH"
	campaignStatusPaused   = "PAUSED"
)

// submit performs the two-phase budget-then-campaign creation. The calls
// are strictly sequential: the campaign is never attempted unless the
// budget call succeeded, so a campaign can never reference a budget that
// does not exist. The reverse does not hold: a campaign failure after a
// successful budget create leaves the budget in place with no compensating
// delete.
func (s *ChatService) submit(ctx context.Context, params domain.CampaignParameters) (string, error) {
	customerID, err := s.platform.CustomerID(ctx)
	if err != nil {
		return "", fmt.Errorf("usecase: resolve customer id: %w", err)
	}

	budgetRef, err := s.platform.CreateBudget(ctx, domain.BudgetCreation{
		CustomerID:       customerID,
		Name:             fmt.Sprintf("Budget for %s %s", params.Name, newUUID()),
		AmountMicros:     params.DailyBudget.Micros(),
		ExplicitlyShared: false,
		DeliveryMethod:   budgetDeliveryStandard,
	})
	if err != nil {
		return "", fmt.Errorf("usecase: create budget: %w", err)
	}

	// Network targeting is a fixed policy; the collected search-partners
	// answer is recorded and reviewed but not applied here.
	campaignRef, err := s.platform.CreateCampaign(ctx, domain.CampaignCreation{
		CustomerID:     customerID,
		Name:           fmt.Sprintf("%s %s", params.Name, newUUID()),
		BudgetResource: budgetRef,
		ChannelType:    channelTypeSearch,
		Status:         campaignStatusPaused,
		Network: domain.NetworkSettings{
			TargetGoogleSearch:         true,
			TargetSearchNetwork:        true,
			TargetPartnerSearchNetwork: false,
			TargetContentNetwork:       true,
		},
		StartDate: compactDate(params.StartDate),
		EndDate:   compactDate(params.EndDate),
		ManualCPC: true,
	})
	if err != nil {
		return "", fmt.Errorf("usecase: create campaign (budget %s left in place): %w", budgetRef, err)
	}
	return campaignRef, nil
}

// compactDate renders a date in the platform's YYYYMMDD form.
func compactDate(t time.Time) string {
	return t.Format("20060102")
}
