package core

import (
	"context"
	"errors"
	"strconv"
	"time"

	"staffing/internal/blob"
	"staffing/pkg/domain"
)

// Operation names reported to loggers, tracers, metrics and audit.
const (
	OpListEmployers   = "list_employers"
	OpCreateEmployer  = "create_employer"
	OpGetEmployer     = "get_employer"
	OpListEmployees   = "list_employees"
	OpCreateEmployee  = "create_employee"
	OpGetEmployee     = "get_employee"
	OpListClients     = "list_clients"
	OpCreateClient    = "create_client"
	OpGetClient       = "get_client"
	OpUpdateClient    = "update_client"
	OpExportEmployers = "export_employers"
	OpExportEmployees = "export_employees"
	OpExportClients   = "export_clients"
)

type operationMeta struct {
	entity domain.EntityType
	action Action
}

var operations = map[string]operationMeta{
	OpListEmployers:   {domain.EntityEmployer, ActionList},
	OpCreateEmployer:  {domain.EntityEmployer, ActionCreate},
	OpGetEmployer:     {domain.EntityEmployer, ActionRead},
	OpListEmployees:   {domain.EntityEmployee, ActionList},
	OpCreateEmployee:  {domain.EntityEmployee, ActionCreate},
	OpGetEmployee:     {domain.EntityEmployee, ActionRead},
	OpListClients:     {domain.EntityClient, ActionList},
	OpCreateClient:    {domain.EntityClient, ActionCreate},
	OpGetClient:       {domain.EntityClient, ActionRead},
	OpUpdateClient:    {domain.EntityClient, ActionUpdate},
	OpExportEmployers: {domain.EntityEmployer, ActionExport},
	OpExportEmployees: {domain.EntityEmployee, ActionExport},
	OpExportClients:   {domain.EntityClient, ActionExport},
}

// Service exposes the instrumented CRUD operations over the three
// collections. It owns no state beyond the stores it was built with.
type Service struct {
	stores  *Stores
	blobs   blob.Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   Clock
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger routes service logs to logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit recorder.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithClock overrides the time source used for durations and audit stamps.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithBlobStore sets the destination for collection exports.
func WithBlobStore(store blob.Store) ServiceOption {
	return func(s *Service) {
		s.blobs = store
	}
}

// NewService constructs a service backed by the supplied stores.
func NewService(stores *Stores, opts ...ServiceOption) *Service {
	svc := &Service{
		stores:  stores,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a service over fresh memory stores.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(NewMemoryStores(), opts...)
}

// Stores returns the underlying collections.
func (s *Service) Stores() *Stores { return s.stores }

// Close releases the underlying stores.
func (s *Service) Close() error { return s.stores.Close() }

// ListEmployers returns every employer in creation order.
func (s *Service) ListEmployers(ctx context.Context) ([]domain.Employer, error) {
	return run(ctx, s, OpListEmployers, "", func(ctx context.Context) ([]domain.Employer, error) {
		return s.stores.Employers.List(ctx)
	})
}

// CreateEmployer persists a new employer and returns it with its id.
func (s *Service) CreateEmployer(ctx context.Context, employer domain.Employer) (domain.Employer, error) {
	return runRecord(ctx, s, OpCreateEmployer, "", func(ctx context.Context) (domain.Employer, error) {
		return s.stores.Employers.Create(ctx, employer)
	})
}

// GetEmployer looks up a single employer.
func (s *Service) GetEmployer(ctx context.Context, id int64) (domain.Employer, error) {
	return runRecord(ctx, s, OpGetEmployer, formatID(id), func(ctx context.Context) (domain.Employer, error) {
		return s.stores.Employers.Get(ctx, id)
	})
}

// ListEmployees returns every employee in creation order.
func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return run(ctx, s, OpListEmployees, "", func(ctx context.Context) ([]domain.Employee, error) {
		return s.stores.Employees.List(ctx)
	})
}

// CreateEmployee persists a new employee. The employer reference is not
// checked.
func (s *Service) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	return runRecord(ctx, s, OpCreateEmployee, "", func(ctx context.Context) (domain.Employee, error) {
		return s.stores.Employees.Create(ctx, employee)
	})
}

// GetEmployee looks up a single employee.
func (s *Service) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	return runRecord(ctx, s, OpGetEmployee, formatID(id), func(ctx context.Context) (domain.Employee, error) {
		return s.stores.Employees.Get(ctx, id)
	})
}

// ListClients returns every client in creation order.
func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return run(ctx, s, OpListClients, "", func(ctx context.Context) ([]domain.Client, error) {
		return s.stores.Clients.List(ctx)
	})
}

// CreateClient persists a new client. The employee reference is not checked.
func (s *Service) CreateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	return runRecord(ctx, s, OpCreateClient, "", func(ctx context.Context) (domain.Client, error) {
		return s.stores.Clients.Create(ctx, client)
	})
}

// GetClient looks up a single client.
func (s *Service) GetClient(ctx context.Context, id int64) (domain.Client, error) {
	return runRecord(ctx, s, OpGetClient, formatID(id), func(ctx context.Context) (domain.Client, error) {
		return s.stores.Clients.Get(ctx, id)
	})
}

// UpdateClient mutates a client using the provided mutator.
func (s *Service) UpdateClient(ctx context.Context, id int64, mutator func(*domain.Client) error) (domain.Client, error) {
	return runRecord(ctx, s, OpUpdateClient, formatID(id), func(ctx context.Context) (domain.Client, error) {
		return s.stores.Clients.Update(ctx, id, mutator)
	})
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// runRecord is run for single-record operations; the audited id is taken from
// the result when the caller did not know it up front.
func runRecord[T domain.Record](ctx context.Context, s *Service, op, entityID string, fn func(context.Context) (T, error)) (T, error) {
	return instrument(ctx, s, op, func(ctx context.Context) (T, string, error) {
		rec, err := fn(ctx)
		id := entityID
		if err == nil && id == "" {
			id = formatID(rec.RecordID())
		}
		return rec, id, err
	})
}

func run[T any](ctx context.Context, s *Service, op, entityID string, fn func(context.Context) (T, error)) (T, error) {
	return instrument(ctx, s, op, func(ctx context.Context) (T, string, error) {
		v, err := fn(ctx)
		return v, entityID, err
	})
}

func instrument[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, string, error)) (T, error) {
	started := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	v, entityID, err := fn(ctx)
	duration := s.clock.Now().Sub(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logFailure(op, entityID, err)
		s.recordAuditFailure(ctx, op, entityID, duration, err)
		return v, err
	}
	s.logger.Debug("operation completed", "operation", op, "entity_id", entityID, "duration", duration)
	s.recordAuditSuccess(ctx, op, entityID, duration)
	return v, nil
}

func (s *Service) logFailure(op, entityID string, err error) {
	switch {
	case domain.IsNotFound(err), errors.Is(err, domain.ErrValidation):
		s.logger.Info("operation rejected", "operation", op, "entity_id", entityID, "error", err)
	default:
		s.logger.Error("operation failed", "operation", op, "entity_id", entityID, "error", err)
	}
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, duration, nil)
}

func (s *Service) recordAuditFailure(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, duration, err)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	meta, ok := operations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}
