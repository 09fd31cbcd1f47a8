package lookup_api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BearBump/TrackPage/internal/services/lookup"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

type lookupService interface {
	Lookup(ctx context.Context, shopDomain, orderNumber, contact string) (*lookup.Result, error)
}

// RateLimiter совместим с rediscache.RateLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type LookupAPI struct {
	svc     lookupService
	limiter RateLimiter
	limit   int64
}

func New(svc lookupService, limiter RateLimiter, limitPerMinute int64) *LookupAPI {
	return &LookupAPI{svc: svc, limiter: limiter, limit: limitPerMinute}
}

func (a *LookupAPI) Routes(r chi.Router) {
	r.With(a.rateLimit).Get("/api/v1/track", a.handleTrack)
	r.Get("/healthz", handleHealthz)
}

func (a *LookupAPI) handleTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := a.svc.Lookup(r.Context(), q.Get("shop"), q.Get("order_number"), q.Get("contact"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{
		Success: true,
		Order:   toOrderJSON(res),
	})
}

func writeError(w http.ResponseWriter, err error) {
	var verr lookup.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, trackResponse{Success: false, Error: verr.Error()})
		return
	}

	var nf *lookup.NotFoundError
	if errors.As(err, &nf) {
		msg := nf.Message
		if msg == "" {
			msg = "Order not found. Please check your order number and contact information."
		}
		writeJSON(w, http.StatusNotFound, trackResponse{Success: false, Error: msg})
		return
	}

	if errors.Is(err, lookup.ErrTrackingDisabled) {
		writeJSON(w, http.StatusNotFound, trackResponse{Success: false, Error: "Order tracking is not available for this store."})
		return
	}

	// Детали уже в логе сервиса; покупателю общий ответ.
	writeJSON(w, http.StatusServiceUnavailable, trackResponse{Success: false, Error: "Something went wrong. Please try again later."})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
