package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// Error codes in error responses.
const (
	CodeNotFound     = "not_found"
	CodeUnknownType  = "unknown_type"
	CodeInvalidUsage = "invalid_usage"
	CodeInternal     = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TypeInfo describes one registered type.
type TypeInfo struct {
	Name       string `json:"name"`
	Parent     string `json:"parent,omitempty"`
	PrimaryKey string `json:"primary_key"`
	Count      int    `json:"count"`
}

// RecordsResponse is returned by the records route.
type RecordsResponse struct {
	Type    string         `json:"type"`
	Count   int            `json:"count"`
	Records []model.Record `json:"records"`
}

// RecordResponse is returned by the single-record routes.
type RecordResponse struct {
	Type   string       `json:"type"`
	Record model.Record `json:"record"`
}

// PluckResponse is returned by the pluck route.
type PluckResponse struct {
	Type      string        `json:"type"`
	Attribute string        `json:"attribute"`
	Values    []value.Value `json:"values"`
}

type handler struct {
	reg *model.Registry
}

// NewRouter returns the API routes over reg. Stores are read on every
// request, so reloads are visible immediately.
func NewRouter(reg *model.Registry) http.Handler {
	h := &handler{reg: reg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", h.handleHealth)
	r.Route("/types", func(r chi.Router) {
		r.Get("/", h.handleTypes)
		r.Route("/{type}", func(r chi.Router) {
			r.Get("/records", h.handleRecords)
			r.Get("/records/{key}", h.handleRecord)
			r.Get("/first", h.handleFirst)
			r.Get("/pluck/{attr}", h.handlePluck)
		})
	})
	return r
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleTypes(w http.ResponseWriter, r *http.Request) {
	var base *model.Type
	if name := r.URL.Query().Get("extends"); name != "" {
		t, ok := h.reg.Lookup(name)
		if !ok {
			writeError(w, http.StatusNotFound, CodeUnknownType, "type "+name+" is not defined")
			return
		}
		base = t
	}

	out := []TypeInfo{}
	for _, t := range h.reg.Types() {
		if base != nil && !t.IsA(base) {
			continue
		}
		info := TypeInfo{Name: t.Name(), PrimaryKey: t.PrimaryKey(), Count: t.Store().Len()}
		if p := t.Parent(); p != nil {
			info.Parent = p.Name()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	records, err := t.Store().Where(conditionsFromQuery(r.URL.Query()))
	if err != nil {
		writeFinderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordsResponse{Type: t.Name(), Count: len(records), Records: records})
}

func (h *handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	rec, err := t.Store().Find(urlParam(r, "key"))
	if err != nil {
		writeFinderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordResponse{Type: t.Name(), Record: rec})
}

func (h *handler) handleFirst(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	rec, err := t.Store().FindByStrict(conditionsFromQuery(r.URL.Query()))
	if err != nil {
		writeFinderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordResponse{Type: t.Name(), Record: rec})
}

func (h *handler) handlePluck(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	attr := urlParam(r, "attr")
	writeJSON(w, http.StatusOK, PluckResponse{Type: t.Name(), Attribute: attr, Values: t.Store().Pluck(attr)})
}

func (h *handler) lookupType(w http.ResponseWriter, r *http.Request) (*model.Type, bool) {
	name := urlParam(r, "type")
	t, ok := h.reg.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, CodeUnknownType, "type "+name+" is not defined")
	}
	return t, ok
}

// conditionsFromQuery turns query parameters into conditions. Values are
// strings; the loose match rule lets "2" find an integer attribute.
func conditionsFromQuery(q url.Values) model.Conditions {
	conds := make(model.Conditions, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			conds[k] = vs[0]
		} else {
			conds[k] = vs
		}
	}
	return conds
}

// urlParam returns a route parameter. chi matches on the raw path when the
// request path has escapes that do not round-trip, so those are undone here.
func urlParam(r *http.Request, name string) string {
	p := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return p
	}
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

func writeFinderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidUsage):
		writeError(w, http.StatusBadRequest, CodeInvalidUsage, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}
