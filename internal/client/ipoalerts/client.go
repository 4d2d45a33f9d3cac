package ipoalerts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://api.ipoalerts.in"

var ErrNoAPIKey = errors.New("ipoalerts api key is not configured")

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ipoalerts error (%d): %s", e.Status, e.Body)
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

type ListParams struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// List returns the raw /ipos document. Empty Status or Type are omitted.
func (c *Client) List(ctx context.Context, params ListParams) ([]byte, error) {
	query := map[string]string{
		"page":  strconv.Itoa(params.Page),
		"limit": strconv.Itoa(params.Limit),
	}
	if s := strings.TrimSpace(params.Status); s != "" {
		query["status"] = s
	}
	if t := strings.TrimSpace(params.Type); t != "" {
		query["type"] = t
	}
	return c.get(ctx, "/ipos", query)
}

// Get returns the raw document for one IPO, addressed by id or slug.
func (c *Client) Get(ctx context.Context, identifier string) ([]byte, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}
	return c.get(ctx, "/ipos/"+url.PathEscape(identifier), nil)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	req := c.rc.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &APIError{Status: resp.StatusCode(), Body: message(body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &APIError{Status: resp.StatusCode(), Body: "invalid json response"}
	}
	return body, nil
}

// message prefers the upstream's own error text over the raw body.
func message(body []byte) string {
	for _, path := range []string{"message", "error", "error.message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	s := string(body)
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return s
}
