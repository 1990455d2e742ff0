// Package signaling posts WebRTC offers and ICE candidates to an external
// signaling endpoint. No response is expected or read.
package signaling

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/models"
)

// Sender delivers one signal message
type Sender interface {
	Send(ctx context.Context, msg models.SignalMessage) error
}

// TransportError reports that the signaling endpoint could not be reached
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("signaling endpoint %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPSender posts messages as JSON
type HTTPSender struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPSender creates a sender for endpoint. A zero timeout leaves requests
// bounded only by ctx.
func NewHTTPSender(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("signaling"),
	}
}

// Send posts msg to the endpoint.
func (s *HTTPSender) Send(ctx context.Context, msg models.SignalMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Endpoint: s.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Endpoint: s.endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Debug("Signal sent",
		zap.String("type", string(msg.Type)),
		zap.Int("status", resp.StatusCode))
	return nil
}
