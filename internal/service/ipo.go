package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/client/ipoalerts"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/metrics"
)

const gatewayIPO = "ipoalerts"

type IPOService struct {
	Client       *ipoalerts.Client
	DefaultPage  int
	DefaultLimit int
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

// List passes the IPO listing through. Non-positive page or limit take the
// configured defaults.
func (s *IPOService) List(ctx context.Context, params ipoalerts.ListParams) ([]byte, error) {
	if !s.Client.Configured() {
		return nil, fmt.Errorf("%w: ipo api key is missing (set GALAXY_IPO_API_KEY)", ErrNotConfigured)
	}
	if params.Page <= 0 {
		params.Page = defaultInt(s.DefaultPage, 1)
	}
	if params.Limit <= 0 {
		params.Limit = defaultInt(s.DefaultLimit, 1)
	}
	start := time.Now()
	body, err := s.Client.List(ctx, params)
	s.Metrics.ObserveGateway(gatewayIPO, start, err)
	if err != nil {
		s.warn("ipo list failed", err)
		return nil, gatewayError(gatewayIPO, err)
	}
	return body, nil
}

func (s *IPOService) Get(ctx context.Context, identifier string) ([]byte, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: ipo identifier is required", ledger.ErrInvalidInput)
	}
	if !s.Client.Configured() {
		return nil, fmt.Errorf("%w: ipo api key is missing (set GALAXY_IPO_API_KEY)", ErrNotConfigured)
	}
	start := time.Now()
	body, err := s.Client.Get(ctx, identifier)
	s.Metrics.ObserveGateway(gatewayIPO, start, err)
	if err != nil {
		s.warn("ipo detail failed", err, zap.String("identifier", identifier))
		return nil, gatewayError(gatewayIPO, err)
	}
	return body, nil
}

func (s *IPOService) warn(msg string, err error, fields ...zap.Field) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, append(fields, zap.Error(err))...)
}

func defaultInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
