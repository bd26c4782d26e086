package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlas-desktop/risk-engine/internal/api"
)

func postBatch(t *testing.T, server *api.Server, req *api.BatchRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}

	rec := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/sizing/batch", bytes.NewReader(body))
	server.Router().ServeHTTP(rec, httpReq)
	return rec
}

func TestBatchRunsAllRequests(t *testing.T) {
	server := testServer(t)

	batch := &api.BatchRequest{
		Requests: []api.SizingRequest{
			{Symbol: "BTC/USDT", Prices: pricePayload(6)},
			{Symbol: "ETH/USDT", Prices: pricePayload(8)},
			{Symbol: "SOL/USDT", Profile: "vol", Prices: pricePayload(20)},
		},
		Parallelism: 2,
	}

	rec := postBatch(t, server, batch)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.BatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Succeeded != 3 || resp.Failed != 0 {
		t.Fatalf("Expected 3 successes, got %+v", resp)
	}
	for i, res := range resp.Results {
		if res.Index != i {
			t.Errorf("Result %d: index %d out of order", i, res.Index)
		}
		if res.Response == nil {
			t.Errorf("Result %d: missing response", i)
			continue
		}
		if res.Response.Bars != len(batch.Requests[i].Prices) {
			t.Errorf("Result %d: expected %d bars, got %d",
				i, len(batch.Requests[i].Prices), res.Response.Bars)
		}
	}
	if resp.Results[0].Response.Symbol != "BTC/USDT" {
		t.Errorf("Result order does not match request order: %+v", resp.Results[0].Response)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	server := testServer(t)

	batch := &api.BatchRequest{
		Requests: []api.SizingRequest{
			{Symbol: "BTC/USDT", Prices: pricePayload(4)},
			{Symbol: "ETH/USDT", Profile: "kelly", Prices: pricePayload(4)},
			{Symbol: "SOL/USDT", Profile: "missing", Prices: pricePayload(4)},
		},
	}

	rec := postBatch(t, server, batch)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.BatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Succeeded != 1 || resp.Failed != 2 {
		t.Fatalf("Expected 1 success and 2 failures, got %+v", resp)
	}
	if resp.Results[1].Status != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for kelly without statistics, got %d", resp.Results[1].Status)
	}
	if resp.Results[2].Status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown profile, got %d", resp.Results[2].Status)
	}
}

func TestBatchRejectsEmpty(t *testing.T) {
	server := testServer(t)

	rec := postBatch(t, server, &api.BatchRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}
