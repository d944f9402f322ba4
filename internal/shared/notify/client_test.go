package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendSignsPayload(t *testing.T) {
	secret := "test-secret"

	var gotBody []byte
	var gotTimestamp, gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotTimestamp = r.Header.Get("X-Webhook-Timestamp")
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, secret, nil)
	event := Event{Type: "quote.accepted", OccurredAt: time.Now(), Data: map[string]string{"quote_id": "q1"}}
	if err := client.Send(context.Background(), event); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotTimestamp == "" {
		t.Fatal("missing timestamp header")
	}
	if !Verify(secret, gotTimestamp, gotBody, gotSignature) {
		t.Error("signature did not verify")
	}

	var decoded Event
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if decoded.Type != "quote.accepted" {
		t.Errorf("event type = %q, want quote.accepted", decoded.Type)
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s", nil)
	if err := client.Send(context.Background(), Event{Type: "test"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestSendDoesNotRetryRejections(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "s", nil)
	if err := client.Send(context.Background(), Event{Type: "test"}); err == nil {
		t.Fatal("expected error for rejected payload")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestSendDisabledWithoutURL(t *testing.T) {
	client := NewClient("", "s", nil)
	if client.Enabled() {
		t.Error("client without URL should be disabled")
	}
	if err := client.Send(context.Background(), Event{Type: "test"}); err != nil {
		t.Errorf("Send on disabled client: %v", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"type":"quote.sent"}`)
	sig := Sign("secret", "1700000000", body)
	if !Verify("secret", "1700000000", body, sig) {
		t.Fatal("valid signature rejected")
	}
	if Verify("secret", "1700000000", []byte(`{"type":"quote.paid"}`), sig) {
		t.Error("tampered body accepted")
	}
	if Verify("secret", "1700000001", body, sig) {
		t.Error("tampered timestamp accepted")
	}
}
