package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NabirasulA/Galaxy/internal/cache"
	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/client/grok"
	"github.com/NabirasulA/Galaxy/internal/client/ipoalerts"
	"github.com/NabirasulA/Galaxy/internal/repository/memory"
	"github.com/NabirasulA/Galaxy/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
}

type echoCompleter struct{}

func (echoCompleter) Configured() bool { return true }

func (echoCompleter) Complete(_ context.Context, messages []grok.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

type testServer struct {
	engine *gin.Engine
	repo   *memory.Store
}

func newTestServer(t *testing.T, upstream string) *testServer {
	t.Helper()
	repo := memory.New()
	flags := &service.SystemSettingsService{Repo: repo}
	require.NoError(t, flags.EnsureDefaultSwitches(context.Background()))

	portfolio := &service.PortfolioService{Repo: repo}
	summary := &service.DailySummaryService{Repo: repo, Flags: flags}
	key := ""
	if upstream != "" {
		key = "demo"
	}
	market := &service.MarketService{
		Client: alphavantage.NewClient(http.DefaultClient, upstream, key),
		Cache:  cache.NewRefresher(cache.NewMemoryStore()),
		TTL:    time.Minute,
		Flags:  flags,
	}
	ipo := &service.IPOService{Client: ipoalerts.NewClient(http.DefaultClient, upstream, key)}
	advisor := &service.AdvisorService{Client: echoCompleter{}, Repo: repo, Flags: flags}

	r := gin.New()
	r.Use(RequestID(), CORS([]string{"http://localhost:5500"}))
	(&HealthHandler{Store: repo}).Register(r)
	(&PortfolioHandler{Portfolio: portfolio, Summary: summary}).Register(r)
	(&MarketHandler{Market: market, IPO: ipo}).Register(r)
	(&AIHandler{Advisor: advisor}).Register(r)
	(&SettingsHandler{Settings: flags}).Register(r)
	return &testServer{engine: r, repo: repo}
}

func (s *testServer) do(method, target string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type positionBody struct {
	ID       uint64  `json:"id"`
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	BuyPrice float64 `json:"buyPrice"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestBuyTwiceThenSearch(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "AAPL", "quantity": 10, "buyPrice": 150})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "aapl", "quantity": 5, "buyPrice": 200})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/portfolio/stock/search?symbol=AAPL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[positionBody](t, w)
	assert.Equal(t, int64(15), got.Quantity)
	assert.Equal(t, 166.67, got.BuyPrice)

	w = s.do(http.MethodGet, "/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]positionBody](t, w), 1)
}

func TestSearchErrors(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/portfolio/stock/search?symbol=%20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(400), decode[map[string]any](t, w)["code"])

	w = s.do(http.MethodGet, "/portfolio/stock/search?symbol=ZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellAndQuantityRoutes(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "MSFT", "quantity": 10, "buyPrice": "300.10"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[positionBody](t, w).ID
	base := "/portfolio/stock/" + jsonNumber(id)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPut, base+"/sell?quantity=11", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, base+"/sell?quantity=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, base+"/sell?quantity=abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/portfolio/stock/999/sell?quantity=1", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut, base+"/sell?quantity=4", nil).Code)

	w = s.do(http.MethodPut, base+"?quantity=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(20), decode[positionBody](t, w).Quantity)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, base+"?quantity=-1", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut, base+"?quantity=0", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, base, nil).Code)
}

func TestDeleteRoute(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "AMD", "quantity": 1, "buyPrice": 100})
	id := decode[positionBody](t, w).ID
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/portfolio/stock/"+jsonNumber(id), nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/portfolio/stock/abc", nil).Code)
}

func TestInvalidBuys(t *testing.T) {
	s := newTestServer(t, "")
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "", "quantity": 1, "buyPrice": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "X", "quantity": 0, "buyPrice": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "X", "quantity": 1, "buyPrice": -1}).Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "AAPL", "quantity": 10, "buyPrice": 100}).Code)
	w := s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "AAPL", "quantity": int64(math.MaxInt64), "buyPrice": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/portfolio/stock/search?symbol=AAPL", nil)
	assert.Equal(t, int64(10), decode[positionBody](t, w).Quantity)

	req := httptest.NewRequest(http.MethodPost, "/portfolio/stock", strings.NewReader("{"))
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDailySummaryAndSnapshots(t *testing.T) {
	s := newTestServer(t, "")
	s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": "AAPL", "quantity": 15, "buyPrice": "166.67"})

	w := s.do(http.MethodGet, "/portfolio/daily-summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, 2500.05, body["totalValue"])
	assert.Equal(t, 2500.05, body["profitOrLoss"])
	assert.Equal(t, "Your portfolio gained today 📈", body["message"])

	w = s.do(http.MethodGet, "/portfolio/snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), env["meta"].(map[string]any)["total"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/portfolio/snapshots?since=yesterday", nil).Code)
}

func TestPaginationMetaReportsServedLimit(t *testing.T) {
	s := newTestServer(t, "")
	for _, sym := range []string{"AAPL", "MSFT", "NVDA"} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/portfolio/stock", map[string]any{"symbol": sym, "quantity": 1, "buyPrice": 10}).Code)
	}

	cases := []struct {
		target  string
		limit   float64
		hasNext bool
		rows    int
	}{
		{"/portfolio/positions?limit=0", 100, false, 3},
		{"/portfolio/positions?limit=-5&offset=1", 100, false, 2},
		{"/portfolio/positions?limit=2", 2, true, 2},
		{"/portfolio/positions?limit=9999", 500, false, 3},
		{"/portfolio/snapshots?limit=0", 30, false, 0},
	}
	for _, tc := range cases {
		w := s.do(http.MethodGet, tc.target, nil)
		require.Equal(t, http.StatusOK, w.Code, tc.target)
		env := decode[map[string]any](t, w)
		meta := env["meta"].(map[string]any)
		assert.Equal(t, tc.limit, meta["limit"], tc.target)
		assert.Equal(t, tc.hasNext, meta["has_next"], tc.target)
		data, _ := env["data"].([]any)
		assert.Len(t, data, tc.rows, tc.target)
	}
}

func TestMarketAndIPORoutes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/query":
			_, _ = w.Write([]byte(`{"top_gainers":[{"ticker":"UP"}],"top_losers":[],"most_active":[{"ticker":"BUSY"}]}`))
		case r.URL.Path == "/ipos":
			_, _ = w.Write([]byte(`{"ipos":[{"id":"1"}]}`))
		case r.URL.Path == "/ipos/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		default:
			_, _ = w.Write([]byte(`{"ipo":{"id":"1"}}`))
		}
	}))
	defer upstream.Close()
	s := newTestServer(t, upstream.URL)

	w := s.do(http.MethodGet, "/portfolio/stock/gainers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"ticker":"UP"}]`, w.Body.String())

	w = s.do(http.MethodGet, "/portfolio/stock/losers", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodGet, "/portfolio/stock/ipos?status=open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ipos":[{"id":"1"}]}`, w.Body.String())

	w = s.do(http.MethodGet, "/portfolio/stock/ipos/1", nil)
	assert.JSONEq(t, `{"ipo":{"id":"1"}}`, w.Body.String())

	w = s.do(http.MethodGet, "/portfolio/stock/ipos/missing", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	fail := decode[map[string]any](t, w)
	assert.Equal(t, false, fail["success"])
	assert.Contains(t, fail["error"], "not found")
}

func TestGatewaysWithoutKeys(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodGet, "/portfolio/stock/active", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["success"])
}

func TestAIRoutes(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodPost, "/api/ai/chat", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[service.ChatResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "echo: hello", resp.Response)

	w = s.do(http.MethodGet, "/api/ai/analyze-stock?symbol=nvda", nil)
	resp = decode[service.ChatResponse](t, w)
	assert.Contains(t, resp.Response, "NVDA")

	w = s.do(http.MethodGet, "/api/ai/health", nil)
	resp = decode[service.ChatResponse](t, w)
	assert.Contains(t, resp.Response, "Galaxy AI is online")

	w = s.do(http.MethodPut, "/api/settings/switches/ai_chat", map[string]any{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/ai/advice", map[string]any{"message": "buy?"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[service.ChatResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "AI chat is disabled", resp.Error)
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodGet, "/api/settings/switches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[map[string]any](t, w)
	assert.Len(t, env["data"], len(service.DefaultFeatureSwitches()))

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/settings/switches/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/settings/switches/events", map[string]any{}).Code)

	w = s.do(http.MethodGet, "/api/settings/switches/feature.events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode[map[string]any](t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["enabled"])
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t, "")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/readyz", nil).Code)

	req := httptest.NewRequest(http.MethodOptions, "/portfolio", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardWithholdsCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*", "http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func jsonNumber(id uint64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
