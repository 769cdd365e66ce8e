package pricing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"landscape-quote/pkg/platform"
)

// HTTPOracleConfig configures the client for the external pricing oracle.
type HTTPOracleConfig struct {
	BaseURL  string
	TenantID string
	Timeout  time.Duration
	Retries  int
}

// DefaultHTTPOracleConfig keeps the per-call timeout in single-digit
// seconds so a dead oracle can never hold a quote request open.
func DefaultHTTPOracleConfig(baseURL, tenantID string) HTTPOracleConfig {
	return HTTPOracleConfig{
		BaseURL:  baseURL,
		TenantID: tenantID,
		Timeout:  5 * time.Second,
		Retries:  2,
	}
}

// HTTPOracle talks JSON over HTTP to the external pricing oracle. Caller
// context cancellation propagates into every outstanding call.
type HTTPOracle struct {
	cfg    HTTPOracleConfig
	client *platform.HTTPClient
}

// NewHTTPOracle builds an oracle client.
func NewHTTPOracle(cfg HTTPOracleConfig) *HTTPOracle {
	return &HTTPOracle{
		cfg:    cfg,
		client: platform.NewHTTPClient(cfg.Retries, cfg.Timeout),
	}
}

type writeQuantityRequest struct {
	LookupKey string  `json:"lookup_key"`
	Quantity  float64 `json:"quantity"`
}

func (o *HTTPOracle) WriteQuantity(ctx context.Context, lookupKey string, quantity float64) error {
	err := o.client.PostJSON(ctx, o.endpoint("quantities"), writeQuantityRequest{
		LookupKey: lookupKey,
		Quantity:  quantity,
	}, nil)
	if err != nil {
		return fmt.Errorf("write quantity %s: %w", lookupKey, err)
	}
	return nil
}

func (o *HTTPOracle) ReadResult(ctx context.Context, lookupKey string) (Result, error) {
	var res Result
	err := o.client.GetJSON(ctx, o.endpoint("results")+"/"+url.PathEscape(lookupKey), &res)
	if err != nil {
		return Result{}, fmt.Errorf("read result %s: %w", lookupKey, err)
	}
	return res, nil
}

func (o *HTTPOracle) ReadTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	if err := o.client.GetJSON(ctx, o.endpoint("totals"), &totals); err != nil {
		return Totals{}, fmt.Errorf("read totals: %w", err)
	}
	return totals, nil
}

func (o *HTTPOracle) Clear(ctx context.Context) error {
	if err := o.client.PostJSON(ctx, o.endpoint("clear"), struct{}{}, nil); err != nil {
		return fmt.Errorf("clear oracle: %w", err)
	}
	return nil
}

func (o *HTTPOracle) endpoint(op string) string {
	return fmt.Sprintf("%s/v1/oracle/%s/%s", o.cfg.BaseURL, url.PathEscape(o.cfg.TenantID), op)
}
