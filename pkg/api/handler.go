package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hazyhaar/addrnorm/pkg/kit"
)

const (
	maxParseBody = 64 * 1024        // 64 KiB
	maxBatchBody = 32 * 1024 * 1024 // 32 MiB
)

// NewRouter returns an http.Handler with all API routes. mcp, when non-nil,
// is mounted at /mcp.
func NewRouter(svc *Service, mcp http.Handler) http.Handler {
	mux := http.NewServeMux()
	h := &handler{svc: svc}

	mux.HandleFunc("GET /api/{$}", h.handleMeta)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/labels", h.handleLabels)
	mux.HandleFunc("POST /api/address/parse/", h.handleParse)
	mux.HandleFunc("POST /api/address/batch/", h.handleBatch)
	if mcp != nil {
		mux.Handle("/mcp", mcp)
	}

	var next http.Handler = mux
	if svc.cfg.RateLimit > 0 {
		next = rateLimit(rate.NewLimiter(rate.Limit(svc.cfg.RateLimit), max(svc.cfg.RateBurst, 1)), next)
	}
	return requestID(cors(svc.cfg.Origins, next))
}

type handler struct {
	svc *Service
}

// --- meta ---

func (h *handler) handleMeta(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Meta())
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleLabels(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.vocabulary(r.Context(), nil)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- parse single address ---

func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxParseBody)
	var in AddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := h.svc.parse(r.Context(), &in)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: resp, Meta: h.svc.Meta()})
}

// --- parse batch ---

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBody)
	var items []AddressInput
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := h.svc.batch(r.Context(), &batchReq{Items: items, Source: "http"})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: resp, Meta: h.svc.Meta()})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeEndpointError(w http.ResponseWriter, err error) {
	var br *badRequest
	if errors.As(err, &br) {
		writeError(w, http.StatusBadRequest, br.msg)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// requestID tags every request with an X-Request-ID, reusing the caller's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimit rejects requests beyond the token bucket with 429.
func rateLimit(lim *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lim.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cors allows the configured origins; "*" or an empty list allows any.
func cors(origins []string, next http.Handler) http.Handler {
	all := len(origins) == 0 || slices.Contains(origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case all:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
