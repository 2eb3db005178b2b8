package api

import (
	"errors"
	"sync"
	"testing"
	"time"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// TestNewClient tests the NewClient function
func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
	}{
		{"valid key", "test-key", false},
		{"key with whitespace", "  test-key  ", false},
		{"empty key", "", true},
		{"blank key", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, WithHTTPClient(&mockHTTPClient{}))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !apierrors.IsAuthError(err) {
					t.Errorf("expected auth error, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.apiKey != "test-key" {
				t.Errorf("apiKey = %q, want trimmed key", client.apiKey)
			}
			if client.GetModel().Name != models.DefaultModel.Name {
				t.Errorf("default model = %s", client.GetModel().Name)
			}
			if client.timeout != DefaultTimeout {
				t.Errorf("default timeout = %v", client.timeout)
			}
		})
	}
}

// TestNewClient_RealTransport makes sure the tls-client transport can be built
func TestNewClient_RealTransport(t *testing.T) {
	client, err := NewClient("test-key", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.httpClient == nil {
		t.Fatal("expected a transport to be created")
	}
}

// TestNewClient_WithHTTPClient tests that NewClient accepts a custom HTTP client
func TestNewClient_WithHTTPClient(t *testing.T) {
	mock := &mockHTTPClient{}

	client, err := NewClient("test-key", WithHTTPClient(mock))
	if err != nil {
		t.Fatalf("NewClient with WithHTTPClient failed: %v", err)
	}
	if client.httpClient != mock {
		t.Error("Expected injected HTTP client to be used")
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient("k",
		WithHTTPClient(&mockHTTPClient{}),
		WithModel(models.Model25Pro),
		WithTimeout(30*time.Second),
		WithBaseURL("http://localhost:8080/"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if client.GetModel().Name != models.Model25Pro.Name {
		t.Errorf("model = %s", client.GetModel().Name)
	}
	if client.timeout != 30*time.Second {
		t.Errorf("timeout = %v", client.timeout)
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", client.baseURL)
	}

	// Non-positive timeouts are ignored
	client2, _ := NewClient("k", WithHTTPClient(&mockHTTPClient{}), WithTimeout(0))
	if client2.timeout != DefaultTimeout {
		t.Errorf("zero timeout should keep default, got %v", client2.timeout)
	}
}

func TestGeminiClient_Close(t *testing.T) {
	mock := &mockHTTPClient{doFunc: respondWith(200, `{}`)}
	client, _ := NewClient("k", WithHTTPClient(mock))

	if client.IsClosed() {
		t.Fatal("new client should not be closed")
	}

	client.Close()
	client.Close() // idempotent

	if !client.IsClosed() {
		t.Fatal("client should be closed")
	}

	_, err := client.GenerateContent("hello", nil)
	if !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
	if mock.calls != 0 {
		t.Error("closed client must not send requests")
	}
}

func TestGeminiClient_SetModel(t *testing.T) {
	client, _ := NewClient("k", WithHTTPClient(&mockHTTPClient{}))
	client.SetModel(models.Model20Flash)
	if client.GetModel().Name != models.Model20Flash.Name {
		t.Errorf("GetModel() = %s", client.GetModel().Name)
	}
}

func TestGeminiClient_ConcurrentAccess(t *testing.T) {
	client, _ := NewClient("k", WithHTTPClient(&mockHTTPClient{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			client.SetModel(models.Model25Pro)
		}()
		go func() {
			defer wg.Done()
			_ = client.GetModel()
			_ = client.IsClosed()
		}()
	}
	wg.Wait()
}
