package resources

import (
	"errors"
	"expvar"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffing/internal/blob"
	"staffing/internal/core"
	"staffing/internal/entitymodel"
	"staffing/pkg/domain"
)

// Options configures the router.
type Options struct {
	Logger Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Expvar mounts /debug/vars.
	Expvar bool
	// MaxBodyBytes defaults to MaxBodyBytes.
	MaxBodyBytes int64
}

// NewRouter mounts every resource collection, the export endpoint and the
// operational endpoints on a single handler.
func NewRouter(svc *core.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = MaxBodyBytes
	}

	mux := http.NewServeMux()
	mount(mux, NewHandler[domain.Employer, *domain.Employer](Collection[domain.Employer]{
		Schema: entitymodel.Employer,
		List:   svc.ListEmployers,
		Create: svc.CreateEmployer,
		Get:    svc.GetEmployer,
	}, logger))
	mount(mux, NewHandler[domain.Employee, *domain.Employee](Collection[domain.Employee]{
		Schema: entitymodel.Employee,
		List:   svc.ListEmployees,
		Create: svc.CreateEmployee,
		Get:    svc.GetEmployee,
	}, logger))
	mount(mux, NewHandler[domain.Client, *domain.Client](Collection[domain.Client]{
		Schema: entitymodel.Client,
		List:   svc.ListClients,
		Create: svc.CreateClient,
		Get:    svc.GetClient,
		Update: svc.UpdateClient,
	}, logger))

	mux.Handle("/exports/", exportHandler(svc, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"storage":       string(svc.Stores().Driver()),
			"schemaVersion": entitymodel.Version(),
		})
	})
	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Expvar {
		mux.Handle("/debug/vars", expvar.Handler())
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})

	return Chain(mux, RequestID, AccessLog(logger), Recover(logger), LimitBody(limit))
}

type mountable interface {
	http.Handler
	Pattern() string
}

func mount(mux *http.ServeMux, h mountable) {
	mux.Handle(h.Pattern(), h)
	mux.Handle(h.Pattern()+"/", h)
}

func exportHandler(svc *core.Service, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entity := strings.Trim(strings.TrimPrefix(r.URL.Path, "/exports/"), "/")
		if entity == "" || strings.Contains(entity, "/") {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		if _, ok := entitymodel.Lookup(entity); !ok {
			writeError(w, http.StatusNotFound, "unknown entity "+entity)
			return
		}
		info, err := svc.Export(r.Context(), entity)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]any{"export": info})
		case errors.Is(err, core.ErrExportUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, blob.ErrExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			logger.Error("export failed",
				"entity", entity,
				"request_id", RequestIDFromContext(r.Context()),
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	})
}
