package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://www.alphavantage.co"

// Sections of the TOP_GAINERS_LOSERS payload.
const (
	SectionTopGainers = "top_gainers"
	SectionTopLosers  = "top_losers"
	SectionMostActive = "most_active"
)

var ErrNoAPIKey = errors.New("alpha vantage api key is not configured")

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpha vantage error (%d): %s", e.Status, e.Body)
}

// ThrottleError is an HTTP 200 answer that carries a notice instead of data.
type ThrottleError struct {
	Field   string
	Message string
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("alpha vantage %s: %s", strings.ToLower(e.Field), e.Message)
}

type Client struct {
	rc     *resty.Client
	apiKey string
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc, apiKey: strings.TrimSpace(apiKey)}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// TopGainersLosers returns the raw TOP_GAINERS_LOSERS document.
func (c *Client) TopGainersLosers(ctx context.Context) ([]byte, error) {
	return c.query(ctx, map[string]string{"function": "TOP_GAINERS_LOSERS"})
}

type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// GlobalQuote returns the latest price for symbol. A symbol the feed does not
// know yields found=false.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (Quote, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, false, fmt.Errorf("symbol is required")
	}
	body, err := c.query(ctx, map[string]string{"function": "GLOBAL_QUOTE", "symbol": symbol})
	if err != nil {
		return Quote{}, false, err
	}
	raw := gjson.GetBytes(body, `Global Quote.05\. price`).String()
	if raw == "" {
		return Quote{}, false, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return Quote{}, false, fmt.Errorf("parse quote price %q: %w", raw, err)
	}
	return Quote{Symbol: symbol, Price: price}, true, nil
}

// Section extracts one list from a TOP_GAINERS_LOSERS document. A missing
// section yields an empty array.
func Section(body []byte, name string) []byte {
	res := gjson.GetBytes(body, name)
	if !res.Exists() || !res.IsArray() {
		return []byte("[]")
	}
	return []byte(res.Raw)
}

func (c *Client) query(ctx context.Context, params map[string]string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apikey", c.apiKey).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body := resp.Body()
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &APIError{Status: resp.StatusCode(), Body: truncate(string(body), 512)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &APIError{Status: resp.StatusCode(), Body: "invalid json: " + truncate(string(body), 256)}
	}
	if err := throttled(body); err != nil {
		return nil, err
	}
	return body, nil
}

func throttled(body []byte) error {
	for _, field := range []string{"Note", "Information", "Error Message"} {
		if v := gjson.GetBytes(body, field); v.Exists() {
			return &ThrottleError{Field: field, Message: v.String()}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
