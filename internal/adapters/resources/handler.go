// Package resources exposes the employer, employee and client collections over
// HTTP. One generic handler serves every entity; the entity schema drives
// payload decoding, required-field checks and response shape.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"staffing/internal/entitymodel"
	"staffing/pkg/domain"
)

var errTrailingData = errors.New("trailing data after JSON payload")

// Collection binds one entity's operations. A nil Update disables PUT.
type Collection[T domain.Record] struct {
	Schema *entitymodel.Schema
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, rec T) (T, error)
	Get    func(ctx context.Context, id int64) (T, error)
	Update func(ctx context.Context, id int64, mutator func(*T) error) (T, error)
}

// Handler serves /<collection> and /<collection>/{id}.
type Handler[T domain.Record, P domain.RecordPtr[T]] struct {
	c      Collection[T]
	base   string
	logger Logger
}

// NewHandler constructs the HTTP handler for c.
func NewHandler[T domain.Record, P domain.RecordPtr[T]](c Collection[T], logger Logger) *Handler[T, P] {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Handler[T, P]{c: c, base: "/" + c.Schema.Collection, logger: logger}
}

// Pattern returns the mux prefix the handler expects to be mounted under.
func (h *Handler[T, P]) Pattern() string { return h.base }

func (h *Handler[T, P]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == h.base:
		h.serveCollection(w, r)
	case strings.HasPrefix(path, h.base+"/"):
		rest := strings.TrimPrefix(path, h.base+"/")
		if rest == "" || strings.Contains(rest, "/") {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		h.serveItem(w, r, rest)
	default:
		writeError(w, http.StatusNotFound, "resource not found")
	}
}

func (h *Handler[T, P]) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler[T, P]) serveItem(w http.ResponseWriter, r *http.Request, rawID string) {
	allowed := []string{http.MethodGet}
	if h.c.Update != nil {
		allowed = append(allowed, http.MethodPut)
	}
	if r.Method != http.MethodGet && (r.Method != http.MethodPut || h.c.Update == nil) {
		methodNotAllowed(w, allowed...)
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+h.c.Schema.IDField()+" "+strconv.Quote(rawID))
		return
	}
	if r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	h.handleUpdate(w, r, id)
}

func (h *Handler[T, P]) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.c.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entitymodel.Documents(h.c.Schema, recs))
}

func (h *Handler[T, P]) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := h.c.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.c.Schema.Document(rec))
}

func (h *Handler[T, P]) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeBody(w, r)
	if !ok {
		return
	}
	values, err := h.c.Schema.Decode(payload)
	if err == nil {
		err = h.c.Schema.Validate(values)
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	var rec T
	values.Apply(P(&rec))
	created, err := h.c.Create(r.Context(), rec)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.c.Schema.Document(created))
}

// handleUpdate validates inside the mutator so an unknown id reports 404
// before any payload problem reports 400.
func (h *Handler[T, P]) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	payload, ok := h.decodeBody(w, r)
	if !ok {
		return
	}
	updated, err := h.c.Update(r.Context(), id, func(rec *T) error {
		values, err := h.c.Schema.Decode(payload)
		if err != nil {
			return err
		}
		if err := h.c.Schema.Validate(values); err != nil {
			return err
		}
		values.Apply(P(rec))
		return nil
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.c.Schema.Document(updated))
}

func (h *Handler[T, P]) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]any
	err := dec.Decode(&payload)
	if err == nil {
		// exactly one JSON value per body
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = extra
			if err == nil {
				err = errTrailingData
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, errTrailingData):
			writeError(w, http.StatusBadRequest, "unexpected data after JSON payload")
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
		}
		return nil, false
	}
	if payload == nil {
		writeError(w, http.StatusBadRequest, "JSON object required")
		return nil, false
	}
	return payload, true
}

func (h *Handler[T, P]) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeError(w, status, message)
}
