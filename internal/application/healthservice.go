package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// checkStatement is the statement the health check sends through the Query
// Executor. The first check against a missing file creates and seeds it.
const checkStatement = "select 1"

// HealthService reports whether the database answers queries. It depends
// only on the Executor port.
type HealthService struct {
	exec driven.Executor
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(exec driven.Executor) *HealthService {
	return &HealthService{exec: exec}
}

// Check runs the check statement and fails unless it returns exactly one row.
func (s *HealthService) Check(ctx context.Context) error {
	rows, err := s.exec.Query(ctx, checkStatement)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("health check: expected 1 row, got %d", len(rows))
	}
	return nil
}
