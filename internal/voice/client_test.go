package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadvoice/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.VoiceConfig{
		BaseURL:            srv.URL,
		APIKey:             "test-key",
		PhoneNumberID:      "pn-1",
		DefaultAssistantID: "asst-default",
	})
}

func TestStartCall_WireFormat(t *testing.T) {
	var got map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/call" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("missing bearer auth: %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Call{ID: "prov-1", Status: "queued"})
	})

	out, err := c.StartCall(context.Background(), StartCallRequest{
		PhoneNumber:          "+15550001111",
		SystemPromptOverride: "Be brief.",
		Metadata:             map[string]any{"callId": "c-1"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ID != "prov-1" {
		t.Fatalf("expected provider id, got %+v", out)
	}

	if got["phoneNumberId"] != "pn-1" {
		t.Fatalf("phoneNumberId not sent: %v", got["phoneNumberId"])
	}
	if got["assistantId"] != "asst-default" {
		t.Fatalf("default assistant not resolved: %v", got["assistantId"])
	}
	customer, _ := got["customer"].(map[string]any)
	if customer["number"] != "+15550001111" {
		t.Fatalf("customer number missing: %v", got["customer"])
	}
	overrides, _ := got["assistantOverrides"].(map[string]any)
	model, _ := overrides["model"].(map[string]any)
	if model["systemPrompt"] != "Be brief." {
		t.Fatalf("system prompt override missing: %v", got["assistantOverrides"])
	}
	metadata, _ := got["metadata"].(map[string]any)
	if metadata["callId"] != "c-1" {
		t.Fatalf("metadata missing: %v", got["metadata"])
	}
}

func TestStartCall_ExplicitAssistantWins(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["assistantId"] != "asst-override" {
			t.Fatalf("explicit assistant must win, got %v", body["assistantId"])
		}
		_ = json.NewEncoder(w).Encode(Call{ID: "prov-2"})
	})

	if _, err := c.StartCall(context.Background(), StartCallRequest{
		PhoneNumber: "+15550001111",
		AssistantID: "asst-override",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(config.VoiceConfig{BaseURL: "http://localhost:0"})

	_, err := c.StartCall(context.Background(), StartCallRequest{PhoneNumber: "+1555"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_ProviderError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid phone"}`))
	})

	_, err := c.StartCall(context.Background(), StartCallRequest{PhoneNumber: "bad"})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status not carried: %d", provErr.StatusCode)
	}
	if provErr.Body == "" {
		t.Fatal("response body not carried")
	}
}

func TestGetCallAndList(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/call/prov-1":
			_ = json.NewEncoder(w).Encode(Call{ID: "prov-1", Status: "ended"})
		case "/call":
			if r.URL.Query().Get("limit") != "5" {
				t.Fatalf("limit not passed: %s", r.URL.RawQuery)
			}
			_ = json.NewEncoder(w).Encode([]Call{{ID: "a"}, {ID: "b"}})
		case "/assistant":
			_ = json.NewEncoder(w).Encode([]Assistant{{ID: "asst-1", Name: "closer"}})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	call, err := c.GetCall(context.Background(), "prov-1")
	if err != nil || call.Status != "ended" {
		t.Fatalf("get call: %v %+v", err, call)
	}

	list, err := c.ListCalls(context.Background(), ListCallsParams{Limit: 5})
	if err != nil || len(list) != 2 {
		t.Fatalf("list calls: %v %d", err, len(list))
	}

	assistants, err := c.ListAssistants(context.Background())
	if err != nil || len(assistants) != 1 {
		t.Fatalf("list assistants: %v %d", err, len(assistants))
	}
}
