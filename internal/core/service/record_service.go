package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

// RecordService implements CRUD for one collection of the reference API.
type RecordService[T any] struct {
	repo       ports.RecordRepository[T]
	collection string
	prepare    func(*T)
	logger     zerolog.Logger
}

// NewRecordService returns a service for collection. prepare, when non-nil,
// fills server-assigned fields before insertion.
func NewRecordService[T any](repo ports.RecordRepository[T], collection string, prepare func(*T), logger zerolog.Logger) *RecordService[T] {
	return &RecordService[T]{
		repo:       repo,
		collection: collection,
		prepare:    prepare,
		logger:     logger.With().Str("collection", collection).Logger(),
	}
}

func (s *RecordService[T]) List(ctx context.Context) ([]T, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.collection, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (s *RecordService[T]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", s.collection, id, err)
	}
	return rec, nil
}

func (s *RecordService[T]) Create(ctx context.Context, rec T) (*T, error) {
	if s.prepare != nil {
		s.prepare(&rec)
	}
	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create record")
		return nil, fmt.Errorf("create %s: %w", s.collection, err)
	}
	metrics.RecordMutationsTotal.WithLabelValues(s.collection, "create").Inc()
	s.logger.Info().Msg("record created")
	return created, nil
}

func (s *RecordService[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", s.collection, id, err)
	}
	metrics.RecordMutationsTotal.WithLabelValues(s.collection, "update").Inc()
	s.logger.Info().Str("id", id).Int("fields", len(fields)).Msg("record updated")
	return updated, nil
}

// Delete removes a record. A missing record is an application-level failure
// reported in the result, not an error.
func (s *RecordService[T]) Delete(ctx context.Context, id string) (domain.Result, error) {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.Result{Success: false, Error: fmt.Sprintf("%s %s not found", s.collection, id)}, nil
	case err != nil:
		return domain.Result{}, fmt.Errorf("delete %s/%s: %w", s.collection, id, err)
	}
	metrics.RecordMutationsTotal.WithLabelValues(s.collection, "delete").Inc()
	s.logger.Info().Str("id", id).Msg("record deleted")
	return domain.Result{Success: true}, nil
}

// PreparePatient assigns a clinic number to patients created without one.
func PreparePatient(p *domain.Patient) {
	if p.PatientID == "" {
		p.PatientID = generateClinicNumber()
	}
	if p.Progress == nil {
		zero := 0
		p.Progress = &zero
	}
}

// PrepareNotification stamps notifications created without a date.
func PrepareNotification(n *domain.Notification) {
	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}
}

// generateClinicNumber returns a patient number in the format PXXXXXX.
func generateClinicNumber() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("P%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("P%X", b)
}
