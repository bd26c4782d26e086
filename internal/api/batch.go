package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// maxBatchSize bounds how many sizing runs a single batch request may carry.
const maxBatchSize = 256

// BatchRequest carries independent sizing runs to execute concurrently.
// Runs share nothing, so they fan out across a bounded set of workers.
type BatchRequest struct {
	Requests    []SizingRequest `json:"requests"`
	Parallelism int             `json:"parallelism,omitempty"`
}

// BatchResult is the outcome of one run within a batch. Exactly one of
// Response and Error is set.
type BatchResult struct {
	Index    int             `json:"index"`
	Response *SizingResponse `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
	Status   int             `json:"status"`
}

// BatchResponse reports per-run outcomes in request order.
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// handleBatchSizing runs every request in the batch, failures included, and
// always answers 200 with per-run statuses.
func (s *Server) handleBatchSizing(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Requests) == 0 {
		http.Error(w, "batch contains no requests", http.StatusBadRequest)
		return
	}
	if len(req.Requests) > maxBatchSize {
		http.Error(w, fmt.Sprintf("batch exceeds %d requests", maxBatchSize), http.StatusBadRequest)
		return
	}

	workers := req.Parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(req.Requests) {
		workers = len(req.Requests)
	}

	results := make([]BatchResult, len(req.Requests))
	jobs := make(chan int, len(req.Requests))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.runBatchItem(idx, &req.Requests[idx])
			}
		}()
	}
	for i := range req.Requests {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	resp := &BatchResponse{Results: results}
	for _, res := range results {
		if res.Error == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	s.logger.Info("Batch sizing complete",
		zap.Int("requests", len(req.Requests)),
		zap.Int("workers", workers),
		zap.Int("failed", resp.Failed),
	)

	s.writeJSON(w, http.StatusOK, resp)
}

// runBatchItem executes one run, turning a stage panic into a failed result
// so a bad request cannot take down its batch siblings.
func (s *Server) runBatchItem(idx int, req *SizingRequest) (res BatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Sizing run panicked",
				zap.Int("index", idx),
				zap.Any("panic", rec),
			)
			res = BatchResult{
				Index:  idx,
				Error:  fmt.Sprintf("internal error: %v", rec),
				Status: http.StatusInternalServerError,
			}
		}
	}()

	resp, status, err := s.runSizing(req)
	if err != nil {
		return BatchResult{Index: idx, Error: err.Error(), Status: status}
	}
	return BatchResult{Index: idx, Response: resp, Status: status}
}
