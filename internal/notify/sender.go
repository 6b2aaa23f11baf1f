// Package notify turns submission events into email notifications for the
// tenant's approvers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"auditflow/pkg/platform/circuit"
)

// Message is the notification handed to a Sender.
type Message struct {
	TenantID    string `json:"tenantId"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ProgramID   string `json:"programId"`
	ProgramName string `json:"programName"`
}

// Sender delivers a notification message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrCircuitOpen is returned while the email service breaker is open.
var ErrCircuitOpen = fmt.Errorf("email service circuit open")

// HTTPSender posts messages to the external email service. Repeated delivery
// failures open a circuit breaker so a down email service does not stall
// event consumption with full request timeouts.
type HTTPSender struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
}

// NewHTTPSender creates an HTTPSender for the given email service base URL.
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuit.New("email-service", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	if s.breaker.IsOpen() {
		// Probe with a single request so the breaker can close again.
		if err := s.post(ctx, msg); err != nil {
			s.breaker.RecordFailure()
			return ErrCircuitOpen
		}
		s.breaker.RecordSuccess()
		return nil
	}

	if err := s.post(ctx, msg); err != nil {
		s.breaker.RecordFailure()
		return err
	}
	s.breaker.RecordSuccess()
	return nil
}

func (s *HTTPSender) post(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send notification: email service returned %d", resp.StatusCode)
	}
	return nil
}
