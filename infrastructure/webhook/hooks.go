// Package webhook posts provisioning notifications to external automation endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"propmgmt/logging"
)

const (
	HookAddIn      = "addin"
	HookDocumentID = "document_id"
)

// Recorder receives the outcome of each hook call.
type Recorder interface {
	RecordWebhook(hook, result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordWebhook(string, string) {}

// Config holds hook endpoints. An empty URL disables that hook.
type Config struct {
	AddInURL      string
	DocumentIDURL string
	Timeout       time.Duration
}

// Hooks implements contracts.ProvisioningHooks over HTTP. Each endpoint has its
// own circuit breaker so a failing automation does not slow every update.
type Hooks struct {
	cfg      Config
	client   *http.Client
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
	recorder Recorder
	logger   *logging.Logger
}

// New creates hooks. A nil recorder disables metrics.
func New(cfg Config, recorder Recorder) *Hooks {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hooks{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		breakers: map[string]*gobreaker.CircuitBreaker[[]byte]{
			HookAddIn:      newBreaker(HookAddIn),
			HookDocumentID: newBreaker(HookDocumentID),
		},
		recorder: recorder,
		logger:   logging.Default().WithComponent("webhook"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

type addInPayload struct {
	Reference       string `json:"reference"`
	OpportunityName string `json:"opportunityName"`
	ChannelID       string `json:"channelId"`
}

type documentIDPayload struct {
	SiteURL string `json:"siteUrl"`
}

// NotifyAddIn tells the Office add-in which team channel belongs to a reference.
func (h *Hooks) NotifyAddIn(ctx context.Context, reference, opportunityName, channelID string) error {
	return h.post(ctx, HookAddIn, h.cfg.AddInURL, addInPayload{
		Reference:       reference,
		OpportunityName: opportunityName,
		ChannelID:       channelID,
	})
}

// ActivateDocumentID asks the document ID service to enable IDs on a team site.
func (h *Hooks) ActivateDocumentID(ctx context.Context, siteURL string) error {
	return h.post(ctx, HookDocumentID, h.cfg.DocumentIDURL, documentIDPayload{SiteURL: siteURL})
}

func (h *Hooks) post(ctx context.Context, hook, url string, payload any) error {
	if url == "" {
		h.logger.Debug("Hook disabled", "hook", hook)
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", hook, err)
	}

	_, err = h.breakers[hook].Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return respBody, nil
	})
	if err != nil {
		h.recorder.RecordWebhook(hook, "error")
		return fmt.Errorf("call %s hook: %w", hook, err)
	}
	h.recorder.RecordWebhook(hook, "ok")
	h.logger.Info("Hook called", "hook", hook)
	return nil
}
