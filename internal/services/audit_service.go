package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
)

type AuditService struct {
	repo repository.AuditRepository
	now  func() time.Time
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Log appends an audit entry with a fresh id and the current UTC time. It goes
// through the same write path as every other mutation.
func (s *AuditService) Log(ctx context.Context, action, objectType, objectID, actor, details string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		User:       actor,
		Timestamp:  s.now().UTC(),
		Details:    details,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// List retrieves audit entries newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	total := len(entries)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return entries[offset:end], total, nil
}

// describe renders a created row for the audit details column
func describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// detailsReserve leaves room for suffixes appended to the rendered row
const detailsReserve = 128

// checkFits rejects a row before it is written when the workbook would
// truncate one of its cells or the audit entry describing it
func checkFits(actor string, row models.Row) error {
	for _, cell := range append(row.ToRow(), actor) {
		if !workbook.CellFits(cell) {
			return fmt.Errorf("%w: text longer than %d characters", ErrValidation, workbook.MaxCellChars)
		}
	}
	if workbook.CellLen(describe(row)) > workbook.MaxCellChars-detailsReserve {
		return fmt.Errorf("%w: record too large for the audit log", ErrValidation)
	}
	return nil
}
