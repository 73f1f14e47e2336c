package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSender_Send(t *testing.T) {
	var received Envelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewSender(testLogger(), server.URL, time.Second)

	envelope := &Envelope{
		Kind:    "job",
		Event:   "bid.submitted",
		Payload: json.RawMessage(`{"job_id":"job-1","amount":80}`),
	}

	require.NoError(t, sender.Send(context.Background(), envelope))

	assert.Equal(t, "job", received.Kind)
	assert.Equal(t, "bid.submitted", received.Event)
	assert.JSONEq(t, `{"job_id":"job-1","amount":80}`, string(received.Payload))
}

func TestSender_Send_WebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sender := NewSender(testLogger(), server.URL, time.Second)

	err := sender.Send(context.Background(), &Envelope{Kind: "job", Event: "job.created"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSender_Send_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	sender := NewSender(testLogger(), server.URL, time.Second)

	err := sender.Send(context.Background(), &Envelope{Kind: "job", Event: "job.created"})
	require.Error(t, err)
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid envelope",
			body: `{"kind":"job","event":"job.created","payload":{"job_id":"job-1"}}`,
		},
		{
			name: "valid without payload",
			body: `{"kind":"job","event":"bid.accepted"}`,
		},
		{
			name:    "not json",
			body:    `{{{`,
			wantErr: true,
		},
		{
			name:    "missing kind",
			body:    `{"event":"job.created"}`,
			wantErr: true,
		},
		{
			name:    "missing event",
			body:    `{"kind":"job"}`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := decodeEnvelope([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidEvent)
				assert.Nil(t, envelope)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, envelope)
			assert.NotEmpty(t, envelope.Kind)
			assert.NotEmpty(t, envelope.Event)
		})
	}
}
