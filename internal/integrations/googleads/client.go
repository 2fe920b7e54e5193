package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"campaign-agent/internal/domain"
)

const defaultBaseURL = "https://googleads.googleapis.com/v18"

// mutateRequest is the minimal request shape shared by the campaignBudgets
// and campaigns mutate endpoints.
type mutateRequest struct {
	Operations []mutateOperation `json:"operations"`
}

type mutateOperation struct {
	Create any `json:"create"`
}

// mutateResponse is the minimal response shape for both mutate endpoints.
type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
}

// budgetPayload is the REST shape of a campaign budget. Int64 fields travel
// as JSON strings on this API.
type budgetPayload struct {
	Name             string `json:"name"`
	AmountMicros     int64  `json:"amountMicros,string"`
	DeliveryMethod   string `json:"deliveryMethod"`
	ExplicitlyShared bool   `json:"explicitlyShared"`
}

type campaignPayload struct {
	Name                   string                 `json:"name"`
	AdvertisingChannelType string                 `json:"advertisingChannelType"`
	Status                 string                 `json:"status"`
	CampaignBudget         string                 `json:"campaignBudget"`
	NetworkSettings        networkSettingsPayload `json:"networkSettings"`
	StartDate              string                 `json:"startDate"`
	EndDate                string                 `json:"endDate"`
	ManualCPC              *struct{}              `json:"manualCpc,omitempty"`
}

type networkSettingsPayload struct {
	TargetGoogleSearch         bool `json:"targetGoogleSearch"`
	TargetSearchNetwork        bool `json:"targetSearchNetwork"`
	TargetPartnerSearchNetwork bool `json:"targetPartnerSearchNetwork"`
	TargetContentNetwork       bool `json:"targetContentNetwork"`
}

// tokenPayload is the expected JSON shape stored in SSM for secret tokens.
type tokenPayload struct {
	Token string `json:"token"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("googleads: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// credentials is the platform credential set read from SSM: the developer
// token, a pre-issued OAuth access token, and the login customer id.
type credentials struct {
	developerToken string
	accessToken    string
	customerID     string
}

// Client is a focused Google Ads REST client covering the two mutate
// operations this service needs.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string

	credsOnce sync.Once
	creds     credentials
	credsErr  error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client backed by the given paramstore Getter for
// credential retrieval. Credentials are fetched from SSM on the first API
// call and reused for the lifetime of the process.
func NewClient(ps Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("googleads: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("googleads: parameter prefix must not be empty")
	}
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveCredentials loads the credential set from SSM on the first call
// and returns the cached result afterwards.
func (c *Client) resolveCredentials(ctx context.Context) (credentials, error) {
	c.credsOnce.Do(func() {
		c.creds, c.credsErr = fetchCredentials(ctx, c.getter, c.paramPrefix)
	})
	return c.creds, c.credsErr
}

// CustomerID returns the configured account identifier. Configuration is
// the single source of the customer id; nothing downstream overrides it.
func (c *Client) CustomerID(ctx context.Context) (string, error) {
	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return "", err
	}
	return creds.customerID, nil
}

// CreateBudget creates a campaign budget and returns its resource name.
func (c *Client) CreateBudget(ctx context.Context, b domain.BudgetCreation) (string, error) {
	if b.CustomerID == "" {
		return "", errors.New("googleads: budget creation requires a customer id")
	}
	return c.mutate(ctx, b.CustomerID, "campaignBudgets", budgetPayload{
		Name:             b.Name,
		AmountMicros:     b.AmountMicros,
		DeliveryMethod:   b.DeliveryMethod,
		ExplicitlyShared: b.ExplicitlyShared,
	})
}

// CreateCampaign creates a campaign referencing an existing budget and
// returns its resource name.
func (c *Client) CreateCampaign(ctx context.Context, cc domain.CampaignCreation) (string, error) {
	if cc.CustomerID == "" {
		return "", errors.New("googleads: campaign creation requires a customer id")
	}
	payload := campaignPayload{
		Name:                   cc.Name,
		AdvertisingChannelType: cc.ChannelType,
		Status:                 cc.Status,
		CampaignBudget:         cc.BudgetResource,
		NetworkSettings: networkSettingsPayload{
			TargetGoogleSearch:         cc.Network.TargetGoogleSearch,
			TargetSearchNetwork:        cc.Network.TargetSearchNetwork,
			TargetPartnerSearchNetwork: cc.Network.TargetPartnerSearchNetwork,
			TargetContentNetwork:       cc.Network.TargetContentNetwork,
		},
		StartDate: cc.StartDate,
		EndDate:   cc.EndDate,
	}
	if cc.ManualCPC {
		payload.ManualCPC = &struct{}{}
	}
	return c.mutate(ctx, cc.CustomerID, "campaigns", payload)
}

// mutate posts a single create operation to the named resource collection
// and returns the created resource name.
func (c *Client) mutate(ctx context.Context, customerID, resource string, create any) (string, error) {
	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(mutateRequest{Operations: []mutateOperation{{Create: create}}})
	if err != nil {
		return "", fmt.Errorf("googleads: marshal %s request: %w", resource, err)
	}

	url := mutateURL(c.baseURL, customerID, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("googleads: create %s request: %w", resource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.accessToken)
	req.Header.Set("developer-token", creds.developerToken)
	req.Header.Set("login-customer-id", creds.customerID)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return "", fmt.Errorf("googleads: %s request failed: %w", resource, err)
	}

	var payload mutateResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return "", fmt.Errorf("googleads: decode %s response: %w", resource, decErr)
	}
	if len(payload.Results) == 0 || payload.Results[0].ResourceName == "" {
		return "", fmt.Errorf("googleads: no resource name in %s response", resource)
	}
	return payload.Results[0].ResourceName, nil
}

func mutateURL(baseURL, customerID, resource string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base + "/customers/" + customerID + "/" + resource + ":mutate"
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

// fetchCredentials reads the three platform parameters stored under the
// configured prefix. The two tokens are stored as JSON {"token":...}
// payloads; the customer id is a plain string.
func fetchCredentials(ctx context.Context, getter Getter, prefix string) (credentials, error) {
	if getter == nil {
		return credentials{}, errors.New("googleads: paramstore getter is nil")
	}

	developerToken, err := fetchToken(ctx, getter, prefix+"/google-ads/developer-token")
	if err != nil {
		return credentials{}, err
	}
	accessToken, err := fetchToken(ctx, getter, prefix+"/google-ads/access-token")
	if err != nil {
		return credentials{}, err
	}
	customerID, err := getter.GetParameter(ctx, prefix+"/google-ads/customer-id")
	if err != nil {
		return credentials{}, fmt.Errorf("googleads: fetch customer id: %w", err)
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return credentials{}, errors.New("googleads: customer id parameter is empty")
	}
	return credentials{
		developerToken: developerToken,
		accessToken:    accessToken,
		customerID:     customerID,
	}, nil
}

func fetchToken(ctx context.Context, getter Getter, name string) (string, error) {
	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("googleads: fetch %s: %w", name, err)
	}
	var tp tokenPayload
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return "", fmt.Errorf("googleads: unmarshal %s as JSON: %w", name, err)
	}
	if tp.Token == "" {
		return "", fmt.Errorf("googleads: token in %s is empty", name)
	}
	return tp.Token, nil
}
