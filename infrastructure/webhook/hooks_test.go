package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	hook, result string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) RecordWebhook(hook, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{hook, result})
}

func TestNotifyAddIn_PostsPayload(t *testing.T) {
	// Arrange
	var got addInPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	rec := &fakeRecorder{}
	hooks := New(Config{AddInURL: server.URL, Timeout: time.Second}, rec)

	// Act
	err := hooks.NotifyAddIn(context.Background(), "REF-42", "AcmeCo", "19:abc@thread")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, addInPayload{Reference: "REF-42", OpportunityName: "AcmeCo", ChannelID: "19:abc@thread"}, got)
	assert.Equal(t, []recordedCall{{HookAddIn, "ok"}}, rec.calls)
}

func TestActivateDocumentID_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rec := &fakeRecorder{}
	hooks := New(Config{DocumentIDURL: server.URL}, rec)

	err := hooks.ActivateDocumentID(context.Background(), "https://contoso.sharepoint.com/sites/AcmeCo")

	assert.Error(t, err)
	assert.Equal(t, []recordedCall{{HookDocumentID, "error"}}, rec.calls)
}

func TestHooks_DisabledWhenURLEmpty(t *testing.T) {
	hooks := New(Config{}, nil)

	assert.NoError(t, hooks.NotifyAddIn(context.Background(), "REF", "Name", "channel"))
	assert.NoError(t, hooks.ActivateDocumentID(context.Background(), "https://site"))
}

func TestHooks_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	hooks := New(Config{AddInURL: server.URL}, nil)
	for i := 0; i < 5; i++ {
		require.Error(t, hooks.NotifyAddIn(context.Background(), "REF", "Name", "channel"))
	}

	err := hooks.NotifyAddIn(context.Background(), "REF", "Name", "channel")

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	mu.Lock()
	assert.Equal(t, 5, hits)
	mu.Unlock()
}
