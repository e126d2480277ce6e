package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
)

func TestMain(m *testing.M) {
	// Keep the client-side rate limiter out of the way.
	os.Setenv("PLATFORM_RATE_LIMIT_PER_MIN", "60000")
	os.Exit(m.Run())
}

func TestListRaw_DecodesBothListShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"data field", `{"data":[{"id":"a"},{"id":"b"}]}`, 2},
		{"items field", `{"items":[{"id":"a"}]}`, 1},
		{"empty", `{"data":[]}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/entities/Shop" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClientWith(srv.URL, "test-key")
			records, err := client.ListRaw(context.Background(), "Shop", "-created_date", 100)
			if err != nil {
				t.Fatalf("ListRaw: %v", err)
			}
			if len(records) != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, len(records))
			}
		})
	}
}

func TestDo_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClientWith(srv.URL, "secret-123")
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if gotKey != "secret-123" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
}

func TestGetRaw_NonOKBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "record not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClientWith(srv.URL, "test-key")
	_, err := client.GetRaw(context.Background(), "Shop", "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", apiErr.Status)
	}
	if IsRetryable(err) {
		t.Fatal("404 must not be retryable")
	}
}

func TestIsRetryable_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &APIError{Status: 503}, true},
		{"bad request", &APIError{Status: 422}, false},
		{"transport wrapped", errors.New("connection refused"), true},
		{"offline sentinel", utils.ErrorPlatformUnavailable, true},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCreateRaw_PostsJSONBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"srv-1","shop_name":"Spaza A"}`))
	}))
	defer srv.Close()

	client := NewClientWith(srv.URL, "test-key")
	raw, err := client.CreateRaw(context.Background(), "Shop", map[string]any{"shop_name": "Spaza A"})
	if err != nil {
		t.Fatalf("CreateRaw: %v", err)
	}
	if gotBody["shop_name"] != "Spaza A" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	var created struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil || created.Id != "srv-1" {
		t.Fatalf("unexpected response: %s err=%v", raw, err)
	}
}

func TestDo_ConnectionFailureWrapsOfflineSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening at srv.URL now

	client := NewClientWith(srv.URL, "test-key")
	err := client.Health(context.Background())
	if !errors.Is(err, utils.ErrorPlatformUnavailable) {
		t.Fatalf("expected platform-unavailable sentinel, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatal("transport failure must be retryable")
	}
}

func TestSendEmail(t *testing.T) {
	var got emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/integrations/core/send-email" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"sent":true}`))
	}))
	defer srv.Close()

	client := NewClientWith(srv.URL, "test-key")
	err := client.SendEmail(context.Background(), "admin@example.com", "Onboarding complete", "<p>Done</p>")
	if err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if got.To != "admin@example.com" || got.Subject != "Onboarding complete" {
		t.Fatalf("unexpected email request: %+v", got)
	}
}
