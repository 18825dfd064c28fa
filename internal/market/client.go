// Package market talks to Yahoo Finance for historical bars, spot
// quotes and company profiles.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/piquette/finance-go/quote"

	"stock-kite-desk/internal/logger"
	"stock-kite-desk/internal/types"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client is an HTTP client for the Yahoo Finance JSON endpoints. The
// quoteSummary endpoint requires a session cookie plus a crumb token,
// fetched lazily and reused.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string

	mu    sync.Mutex
	crumb string
}

// ClientOption configures the market client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL overrides the endpoint base, used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a market client with a cookie jar for the Yahoo
// session.
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Jar:     jar,
		},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			SummaryProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

// DailyBar fetches the single trading bar inside [date, date+1d).
// ok is false when the ticker has no usable record for that day; err is
// returned only for transport-level failure.
func (c *Client) DailyBar(ctx context.Context, ticker string, date time.Time) (bar types.Bar, ok bool, err error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(ticker), date.Unix(), date.AddDate(0, 0, 1).Unix())

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return types.Bar{}, false, err
	}
	if status == http.StatusNotFound {
		return types.Bar{}, false, nil
	}
	if status != http.StatusOK {
		return types.Bar{}, false, fmt.Errorf("chart request for %s: status %d", ticker, status)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return types.Bar{}, false, fmt.Errorf("decode chart response for %s: %w", ticker, err)
	}
	if len(parsed.Chart.Result) == 0 {
		return types.Bar{}, false, nil
	}
	result := parsed.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return types.Bar{}, false, nil
	}
	quotes := result.Indicators.Quote[0]
	if len(quotes.Close) == 0 || len(quotes.Volume) == 0 {
		return types.Bar{}, false, nil
	}

	// Null closes decode to zero; a zero close is no close at all.
	if quotes.Close[0] <= 0 || quotes.Volume[0] <= 0 {
		return types.Bar{}, false, nil
	}
	return types.Bar{Close: quotes.Close[0], Volume: quotes.Volume[0]}, true, nil
}

// AssetIndustry fetches the raw industry string of a ticker from the
// quoteSummary profile modules.
func (c *Client) AssetIndustry(ctx context.Context, ticker string) (string, error) {
	crumb := c.ensureCrumb(ctx)

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile%%2CsummaryProfile",
		c.baseURL, url.PathEscape(ticker))
	if crumb != "" {
		endpoint += "&crumb=" + url.QueryEscape(crumb)
	}

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("quoteSummary request for %s: status %d", ticker, status)
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode quoteSummary response for %s: %w", ticker, err)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return "", nil
	}
	result := parsed.QuoteSummary.Result[0]
	if result.AssetProfile.Industry != "" {
		return result.AssetProfile.Industry, nil
	}
	return result.SummaryProfile.Industry, nil
}

// SpotQuote fetches the current regular-market price. Used as a
// fallback when the chart window for the current day is still empty.
func (c *Client) SpotQuote(ticker string) (float64, error) {
	q, err := quote.Get(ticker)
	if err != nil {
		return 0, err
	}
	if q == nil {
		return 0, errors.New("empty quote")
	}
	return q.RegularMarketPrice, nil
}

// ensureCrumb primes the Yahoo session cookie and crumb token once.
// Failure is tolerated; some endpoints answer without it.
func (c *Client) ensureCrumb(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb
	}

	if _, _, err := c.get(ctx, "https://fc.yahoo.com"); err != nil {
		logger.Debug(ctx, "Yahoo session priming failed", "error", err)
	}
	body, status, err := c.get(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil || status != http.StatusOK {
		logger.Debug(ctx, "Yahoo crumb fetch failed", "status", status, "error", err)
		return ""
	}
	c.crumb = string(body)
	return c.crumb
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
