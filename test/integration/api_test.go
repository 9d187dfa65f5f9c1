package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/bouquets/internal/allocator"
	"github.com/eugenenazirov/bouquets/internal/api"
	"github.com/eugenenazirov/bouquets/internal/session"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zaptest.NewLogger(t)
	runner := session.NewRunner(allocator.New(allocator.StrategyAtomic), logger)
	handler := api.NewHandler(runner)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	parsePayload, _ := json.Marshal(map[string]string{"design": "AL8d10r5t30"})
	rec = performRequest(t, handler, http.MethodPost, "/api/designs/parse", parsePayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from parse, got %d", rec.Code)
	}

	flowers := strings.Fields(strings.Repeat("dL ", 8) + strings.Repeat("rL ", 10) + strings.Repeat("tL ", 12))
	order := map[string]any{
		"designs": []string{"AL8d10r5t30", "BL1"},
		"flowers": flowers,
	}
	body, _ := json.Marshal(order)
	rec = performRequest(t, handler, http.MethodPost, "/api/bouquets", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from bouquets, got %d", rec.Code)
	}

	var response struct {
		Results []struct {
			Bouquet string `json:"bouquet"`
			Error   string `json:"error"`
		} `json:"results"`
		Created int `json:"created"`
		Failed  int `json:"failed"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Results[0].Bouquet != "AL8d10r12t" {
		t.Fatalf("unexpected first bouquet %q", response.Results[0].Bouquet)
	}
	if response.Results[1].Error == "" {
		t.Fatalf("expected second design to find the stock exhausted")
	}
	if response.Created != 1 || response.Failed != 1 {
		t.Fatalf("unexpected counts created=%d failed=%d", response.Created, response.Failed)
	}

	// each request starts from its own stock
	rec = performRequest(t, handler, http.MethodPost, "/api/bouquets", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from repeated bouquets request, got %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Results[0].Bouquet != "AL8d10r12t" {
		t.Fatalf("expected identical result on repeat, got %q", response.Results[0].Bouquet)
	}
}
