package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient(zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestClient_ValidateKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/configuration" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if key := r.URL.Query().Get("api_key"); key != "valid-key" {
			t.Errorf("unexpected api_key: %s", key)
		}
		w.Write([]byte(`{"images":{"base_url":"http://image.tmdb.org/t/p/"}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	if err := client.ValidateKey(context.Background(), "valid-key"); err != nil {
		t.Fatalf("ValidateKey() error = %v", err)
	}
}

func TestClient_ValidateKey_Missing(t *testing.T) {
	client := NewClient(zerolog.Nop())
	err := client.ValidateKey(context.Background(), "")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("ValidateKey() error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestClient_ValidateKey_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.ValidateKey(context.Background(), "bad-key")
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("ValidateKey() error = %v, want %v", err, ErrInvalidAPIKey)
	}
}

func TestClient_ValidateKey_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.ValidateKey(context.Background(), "key")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("ValidateKey() error = %v, want %v", err, ErrRateLimited)
	}
}

func TestClient_ValidateKey_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.ValidateKey(context.Background(), "key")
	if !errors.Is(err, ErrAPIError) {
		t.Errorf("ValidateKey() error = %v, want %v", err, ErrAPIError)
	}
}
