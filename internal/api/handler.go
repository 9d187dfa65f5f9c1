package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/bouquets/internal/allocator"
	"github.com/eugenenazirov/bouquets/internal/design"
	"github.com/eugenenazirov/bouquets/internal/flower"
	"github.com/eugenenazirov/bouquets/internal/inventory"
	"github.com/eugenenazirov/bouquets/internal/session"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxBodyBytes = 1 << 20

// Handler wires the session runner into HTTP handlers. Every request gets its
// own inventory, so handlers share no mutable allocation state.
type Handler struct {
	runner       *session.Runner
	clock        func() time.Time
	maxBodyBytes int64
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxBodyBytes caps the size of accepted request bodies.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(runner *session.Runner, opts ...HandlerOption) *Handler {
	h := &Handler{
		runner: runner,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleParseDesign(w http.ResponseWriter, r *http.Request) {
	var req parseDesignRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	d, err := design.Parse(req.Design)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed design", err.Error())
		return
	}

	resp := designResponse{
		Name:          string(d.Name),
		Size:          d.Size.String(),
		Required:      make([]itemResponse, 0, len(d.Required)),
		Total:         d.Total,
		RequiredTotal: d.RequiredTotal(),
	}
	for _, want := range d.Required {
		resp.Required = append(resp.Required, itemResponse{Species: want.Species.String(), Count: want.Count})
	}
	if err := d.Validate(); err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBouquets(w http.ResponseWriter, r *http.Request) {
	var req bouquetsRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Designs) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "designs must contain at least one design")
		return
	}

	start := time.Now()
	report, runErr := h.runner.Run(session.Order{Designs: req.Designs, Flowers: req.Flowers})
	elapsed := time.Since(start)

	if runErr != nil {
		switch {
		case errors.Is(runErr, allocator.ErrInconsistentDesign):
			writeError(w, http.StatusUnprocessableEntity, "Inconsistent design", runErr.Error(),
				"Raise the design total to at least the sum of its species quantities")
		default:
			writeInternalError(w, runErr)
		}
		return
	}

	resp := bouquetsResponse{
		Results:           make([]resultResponse, 0, len(report.Results)),
		RejectedFlowers:   make([]string, 0, len(report.Rejected)),
		Remaining:         stockResponse(report.Stock),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	for _, result := range report.Results {
		resp.Results = append(resp.Results, toResultResponse(result))
		if result.Err == nil {
			resp.Created++
		} else {
			resp.Failed++
		}
	}
	for _, err := range report.Rejected {
		resp.RejectedFlowers = append(resp.RejectedFlowers, err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	return json.NewDecoder(body).Decode(dst)
}

func toResultResponse(result session.Result) resultResponse {
	resp := resultResponse{Design: result.Input}
	if result.Err != nil {
		resp.Error = result.Err.Error()
		resp.Reason = failureReason(result.Err)
		return resp
	}
	resp.Bouquet = result.Bouquet.String()
	resp.Flowers = make([]itemResponse, 0, len(result.Bouquet.Items))
	for _, item := range result.Bouquet.Items {
		resp.Flowers = append(resp.Flowers, itemResponse{Species: item.Species.String(), Count: item.Count})
	}
	return resp
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, design.ErrMalformed):
		return "malformed_design"
	case errors.Is(err, allocator.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "unknown"
	}
}

func stockResponse(stock *inventory.Inventory) map[string]map[string]int {
	out := make(map[string]map[string]int, len(flower.Sizes()))
	for _, size := range flower.Sizes() {
		counts := make(map[string]int)
		for _, e := range stock.Snapshot(size) {
			counts[e.Species.String()] = e.Count
		}
		out[size.String()] = counts
	}
	return out
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type bouquetsRequest struct {
	Designs []string `json:"designs"`
	Flowers []string `json:"flowers"`
}

type parseDesignRequest struct {
	Design string `json:"design"`
}

type itemResponse struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

type designResponse struct {
	Name          string         `json:"name"`
	Size          string         `json:"size"`
	Required      []itemResponse `json:"required"`
	Total         int            `json:"total"`
	RequiredTotal int            `json:"requiredTotal"`
	Warning       string         `json:"warning,omitempty"`
}

type resultResponse struct {
	Design  string         `json:"design"`
	Bouquet string         `json:"bouquet,omitempty"`
	Flowers []itemResponse `json:"flowers,omitempty"`
	Error   string         `json:"error,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

type bouquetsResponse struct {
	Results           []resultResponse          `json:"results"`
	Created           int                       `json:"created"`
	Failed            int                       `json:"failed"`
	RejectedFlowers   []string                  `json:"rejectedFlowers"`
	Remaining         map[string]map[string]int `json:"remaining"`
	CalculationTimeMs int64                     `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
