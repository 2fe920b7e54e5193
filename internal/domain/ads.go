package domain

// Platform-facing request shapes for the Google Ads mutate calls. The
// submission orchestrator builds them; the googleads client serializes them.

// NetworkSettings mirrors the campaign network targeting flags.
type NetworkSettings struct {
	TargetGoogleSearch         bool
	TargetSearchNetwork        bool
	TargetPartnerSearchNetwork bool
	TargetContentNetwork       bool
}

// BudgetCreation describes a campaign budget to create for an account.
type BudgetCreation struct {
	CustomerID       string
	Name             string
	AmountMicros     int64
	ExplicitlyShared bool
	DeliveryMethod   string
}

// CampaignCreation describes a campaign to create against an existing
// budget. Dates use the platform's compact YYYYMMDD form.
type CampaignCreation struct {
	CustomerID     string
	Name           string
	BudgetResource string
	ChannelType    string
	Status         string
	Network        NetworkSettings
	StartDate      string
	EndDate        string
	ManualCPC      bool
}
