package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"staffing/internal/blob"
	"staffing/internal/entitymodel"
	"staffing/pkg/domain"
)

// ErrExportUnavailable is returned when no blob store is configured.
var ErrExportUnavailable = errors.New("export: no blob store configured")

const exportPrefix = "exports"

// Export serializes the named collection and writes it as a JSON array to the
// blob store under exports/<collection>/<timestamp>-<uuid>.json. The entity
// may be given by type or collection name.
func (s *Service) Export(ctx context.Context, entity string) (blob.Info, error) {
	schema, ok := entitymodel.Lookup(entity)
	if !ok {
		return blob.Info{}, fmt.Errorf("%w: unknown entity %q", domain.ErrValidation, entity)
	}
	if s.blobs == nil {
		return blob.Info{}, ErrExportUnavailable
	}
	op := "export_" + schema.Collection
	return instrument(ctx, s, op, func(ctx context.Context) (blob.Info, string, error) {
		docs, err := s.collectDocuments(ctx, schema)
		if err != nil {
			return blob.Info{}, "", err
		}
		payload, err := json.Marshal(docs)
		if err != nil {
			return blob.Info{}, "", fmt.Errorf("encode %s: %w", schema.Collection, err)
		}
		key := path.Join(exportPrefix, schema.Collection,
			fmt.Sprintf("%s-%s.json", s.clock.Now().UTC().Format("20060102T150405Z"), uuid.NewString()))
		info, err := s.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata: map[string]string{
				"entity":  string(schema.Entity),
				"records": fmt.Sprint(len(docs)),
			},
		})
		if err != nil {
			return blob.Info{}, "", fmt.Errorf("write export: %w", err)
		}
		return info, key, nil
	})
}

// collectDocuments reads the underlying store directly; Export is audited as a
// single operation.
func (s *Service) collectDocuments(ctx context.Context, schema *entitymodel.Schema) ([]entitymodel.Document, error) {
	switch schema.Entity {
	case domain.EntityEmployer:
		recs, err := s.stores.Employers.List(ctx)
		if err != nil {
			return nil, err
		}
		return entitymodel.Documents(schema, recs), nil
	case domain.EntityEmployee:
		recs, err := s.stores.Employees.List(ctx)
		if err != nil {
			return nil, err
		}
		return entitymodel.Documents(schema, recs), nil
	case domain.EntityClient:
		recs, err := s.stores.Clients.List(ctx)
		if err != nil {
			return nil, err
		}
		return entitymodel.Documents(schema, recs), nil
	default:
		return nil, fmt.Errorf("export %s: unsupported entity", schema.Entity)
	}
}
