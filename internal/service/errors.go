package service

import (
	"errors"
	"fmt"

	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/client/grok"
	"github.com/NabirasulA/Galaxy/internal/client/ipoalerts"
)

// ErrNotConfigured marks a gateway whose credentials are missing. It is
// raised before any outbound request.
var ErrNotConfigured = errors.New("not configured")

// GatewayError is a failed call to an external API.
type GatewayError struct {
	Gateway string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Gateway, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func gatewayError(gateway string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, alphavantage.ErrNoAPIKey) || errors.Is(err, ipoalerts.ErrNoAPIKey) || errors.Is(err, grok.ErrNoAPIKey) {
		return fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return &GatewayError{Gateway: gateway, Err: err}
}
