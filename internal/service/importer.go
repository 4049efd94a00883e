package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/beetagged/contacts-api/internal/entity"
	"github.com/beetagged/contacts-api/internal/parser"
	"github.com/beetagged/contacts-api/internal/repository"
)

const (
	defaultBatchSize     = 500
	defaultImportWorkers = 4
	maxErrorSample       = 10
	maxUploadBytes       = 32 << 20
)

// ImportValidationError indicates the uploaded payload is invalid and the
// import produced no results.
type ImportValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ImportValidationError) Error() string {
	return e.Message
}

// ImportReport is the only externally visible result of an import.
type ImportReport struct {
	Format    string   `json:"format"`
	Processed int      `json:"processed"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// ImportService runs the CSV import pipeline: parse, resolve duplicates,
// merge, persist in bounded sub-batches.
type ImportService struct {
	repo        repository.ContactsRepository
	batchSize   int
	workers     int
	phoneRegion string
}

// ImportOption configures optional pipeline settings.
type ImportOption func(*ImportService)

// WithBatchSize overrides the persistence sub-batch size.
func WithBatchSize(size int) ImportOption {
	return func(s *ImportService) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithWorkers bounds the number of concurrently dispatched sub-batches.
func WithWorkers(n int) ImportOption {
	return func(s *ImportService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPhoneRegion sets the default region for phone canonicalization.
func WithPhoneRegion(region string) ImportOption {
	return func(s *ImportService) {
		if region != "" {
			s.phoneRegion = region
		}
	}
}

// NewImportService builds an import pipeline backed by the given store.
func NewImportService(repo repository.ContactsRepository, opts ...ImportOption) *ImportService {
	s := &ImportService{
		repo:        repo,
		batchSize:   defaultBatchSize,
		workers:     defaultImportWorkers,
		phoneRegion: "US",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportContacts ingests one uploaded CSV for the given owner. Malformed
// CSV structure and an unreachable store are true failures with no report;
// everything else is recovered per row or per record and counted.
func (s *ImportService) ImportContacts(ctx context.Context, r io.Reader, ownerID *uuid.UUID) (ImportReport, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return ImportReport{}, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxUploadBytes {
		return ImportReport{}, ImportValidationError{Message: "csv file exceeds the maximum upload size"}
	}

	parsed, err := parser.Parse(raw, s.phoneRegion)
	if err != nil {
		if errors.Is(err, parser.ErrMalformedRow) || errors.Is(err, parser.ErrEmptyFile) {
			return ImportReport{}, ImportValidationError{Message: err.Error()}
		}
		return ImportReport{}, err
	}

	for i := range parsed.Contacts {
		parsed.Contacts[i].OwnerID = ownerID
	}

	resolved, err := s.resolveDuplicates(ctx, ownerID, parsed.Contacts)
	if err != nil {
		return ImportReport{}, err
	}

	updates := make([]repository.ContactUpdate, 0, len(resolved.EmailDuplicates)+len(resolved.PhoneDuplicates))
	for _, match := range resolved.EmailDuplicates {
		updates = append(updates, repository.ContactUpdate{
			ID:      match.Existing.ID,
			Contact: MergeContacts(match.Existing, match.Incoming),
		})
	}
	for _, match := range resolved.PhoneDuplicates {
		updates = append(updates, repository.ContactUpdate{
			ID:      match.Existing.ID,
			Contact: MergeContacts(match.Existing, match.Incoming),
		})
	}

	report := ImportReport{
		Format:    string(parsed.Format),
		Processed: parsed.Processed,
		Skipped:   parsed.Skipped,
	}
	if err := s.persist(ctx, resolved.NewContacts, updates, &report); err != nil {
		return ImportReport{}, err
	}

	return report, nil
}

// persist applies inserts and updates in fixed-size sub-batches dispatched
// with bounded concurrency. Per-item failures are counted and sampled; they
// never abort sibling records. Correctness does not depend on sub-batch
// ordering since duplicate resolution already ran against pre-import state.
func (s *ImportService) persist(ctx context.Context, inserts []entity.Contact, updates []repository.ContactUpdate, report *ImportReport) error {
	var mu sync.Mutex
	record := func(written int, itemErrors []repository.ItemError, inserted bool) {
		mu.Lock()
		defer mu.Unlock()
		if inserted {
			report.Inserted += written
		} else {
			report.Updated += written
		}
		report.Failed += len(itemErrors)
		for _, itemErr := range itemErrors {
			if len(report.Errors) >= maxErrorSample {
				break
			}
			report.Errors = append(report.Errors, itemErr.Message)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for start := 0; start < len(inserts); start += s.batchSize {
		end := min(start+s.batchSize, len(inserts))
		batch := inserts[start:end]
		g.Go(func() error {
			result, err := s.repo.BulkInsert(gctx, batch)
			record(result.Written, result.Errors, true)
			if err != nil {
				return fmt.Errorf("persist insert sub-batch: %w", err)
			}
			return nil
		})
	}

	for start := 0; start < len(updates); start += s.batchSize {
		end := min(start+s.batchSize, len(updates))
		batch := updates[start:end]
		g.Go(func() error {
			result, err := s.repo.BulkUpdate(gctx, batch)
			record(result.Written, result.Errors, false)
			if err != nil {
				return fmt.Errorf("persist update sub-batch: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
