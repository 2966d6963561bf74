// ABOUTME: Tests for blog API connection validation.
// ABOUTME: Uses httptest to verify the probed endpoint and error handling.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tags":["go"]}`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL+"/api/"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestValidateConnection_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>welcome</html>`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestValidateConnection_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal error`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	if err := ValidateConnection(context.Background(), "http://localhost:1"); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tags":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ValidateConnection(ctx, server.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
