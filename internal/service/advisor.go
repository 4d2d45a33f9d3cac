package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/client/grok"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/metrics"
	"github.com/NabirasulA/Galaxy/internal/repository"
)

const gatewayAI = "grok"

const systemPrompt = `You are Galaxy AI, an intelligent financial advisor assistant integrated into a portfolio management application called Galaxy.

Your role is to:
1. Provide helpful, accurate financial advice and insights
2. Analyze portfolio data when provided
3. Explain investment concepts in simple terms
4. Help users understand market trends and stock performance
5. Suggest portfolio optimization strategies
6. Answer questions about stocks, ETFs, mutual funds, and other investments

Guidelines:
- Be concise but informative
- Use bullet points for clarity when listing multiple items
- Include relevant emojis to make responses engaging (📈 📉 💰 🎯 ⚠️ 💡)
- Always remind users that this is not personalized financial advice and they should consult a professional
- If you don't know something, say so honestly
- When analyzing portfolios, consider diversification, risk, and potential returns

Format your responses in a clear, readable way with proper spacing.`

const (
	analyzePortfolioPrompt = "Please analyze my current portfolio and provide insights on:\n" +
		"1. Overall portfolio health\n" +
		"2. Diversification analysis\n" +
		"3. Risk assessment\n" +
		"4. Specific recommendations for improvement\n" +
		"5. Any concerns or warnings"

	analyzeStockPrompt = "Please provide a brief analysis of %s stock including:\n" +
		"1. Company overview\n" +
		"2. Recent performance trends\n" +
		"3. Key factors to consider\n" +
		"4. Is it a good buy/hold/sell right now?\n" +
		"Note: Base your analysis on general market knowledge."

	healthPrompt = "Say 'Galaxy AI is online and ready to help! 🚀' in exactly those words."

	notConfiguredMessage = "Grok API key is not configured. Please set GALAXY_AI_API_KEY or ai.api_key in the config file"
)

// ChatResponse is the AI endpoints' body. Failures are reported in Error with
// Success false, never as a transport error.
type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

func chatOK(text string) ChatResponse { return ChatResponse{Response: text, Success: true} }
func chatFail(msg string) ChatResponse { return ChatResponse{Success: false, Error: msg} }

type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, messages []grok.Message) (string, error)
}

type AdvisorService struct {
	Client  ChatCompleter
	Repo    repository.PositionRepository
	Flags   *SystemSettingsService
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Chat sends message to the model together with the system prompt, the
// current portfolio and the caller's optional extra context.
func (s *AdvisorService) Chat(ctx context.Context, message, extraContext string) ChatResponse {
	if strings.TrimSpace(message) == "" {
		return chatFail("message is required")
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureAIChat, true) {
		return chatFail("AI chat is disabled")
	}
	if s.Client == nil || !s.Client.Configured() {
		return chatFail(notConfiguredMessage)
	}

	messages := []grok.Message{{Role: grok.RoleSystem, Content: systemPrompt}}
	if pc := s.portfolioContext(ctx); pc != "" {
		messages = append(messages, grok.Message{Role: grok.RoleSystem, Content: "Current user portfolio context:\n" + pc})
	}
	if extra := strings.TrimSpace(extraContext); extra != "" {
		messages = append(messages, grok.Message{Role: grok.RoleSystem, Content: "Additional context: " + extra})
	}
	messages = append(messages, grok.Message{Role: grok.RoleUser, Content: message})

	start := time.Now()
	text, err := s.Client.Complete(ctx, messages)
	s.Metrics.ObserveGateway(gatewayAI, start, err)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("ai chat failed", zap.Error(err))
		}
		if errors.Is(err, grok.ErrNoAPIKey) {
			return chatFail(notConfiguredMessage)
		}
		if errors.Is(err, grok.ErrNoResponse) {
			return chatFail("No response received from AI")
		}
		return chatFail("Failed to get AI response: " + err.Error())
	}
	return chatOK(text)
}

func (s *AdvisorService) AnalyzePortfolio(ctx context.Context) ChatResponse {
	return s.Chat(ctx, analyzePortfolioPrompt, "")
}

func (s *AdvisorService) AnalyzeStock(ctx context.Context, symbol string) ChatResponse {
	symbol = ledger.NormalizeSymbol(symbol)
	if symbol == "" {
		return chatFail("symbol is required")
	}
	return s.Chat(ctx, fmt.Sprintf(analyzeStockPrompt, symbol), "")
}

func (s *AdvisorService) Advice(ctx context.Context, question string) ChatResponse {
	return s.Chat(ctx, question, "")
}

func (s *AdvisorService) Health(ctx context.Context) ChatResponse {
	return s.Chat(ctx, healthPrompt, "")
}

func (s *AdvisorService) portfolioContext(ctx context.Context) string {
	if s.Repo == nil {
		return ""
	}
	holdings, err := s.Repo.ListAllPositions(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("load portfolio context failed", zap.Error(err))
		}
		return "Unable to fetch portfolio data."
	}
	if len(holdings) == 0 {
		return "User has no stocks in their portfolio yet."
	}

	var b strings.Builder
	b.WriteString("Portfolio Holdings:\n")
	total := decimal.Zero
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		invested := h.MarketValue()
		total = total.Add(invested)
		name := h.CompanyName
		if name == "" {
			name = "N/A"
		}
		fmt.Fprintf(&b, "- %s (%s): %d shares @ %s avg cost (Total: %s)\n",
			h.Symbol, name, h.Quantity, usd(h.CostBasis), usd(invested))
		symbols = append(symbols, h.Symbol)
	}
	fmt.Fprintf(&b, "\nTotal Portfolio Investment: %s\n", usd(total))
	fmt.Fprintf(&b, "Number of Holdings: %d\n", len(holdings))
	b.WriteString("Symbols held: " + strings.Join(symbols, ", "))
	return b.String()
}

// usd renders amount in dollars with cents, e.g. $1,500.00.
func usd(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
