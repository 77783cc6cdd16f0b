package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

type CreateTableRequest struct {
	Number   string `json:"table_number"`
	Capacity int    `json:"seating_capacity"`
}

type TableServiceInterface interface {
	Create(ctx context.Context, req CreateTableRequest) (domain.Table, error)
	Get(ctx context.Context, id int) (domain.Table, error)
	List(ctx context.Context, status string) ([]domain.Table, error)
	Update(ctx context.Context, id int, req CreateTableRequest) (domain.Table, error)
	Close(ctx context.Context, id int) (domain.Table, error)
	Reopen(ctx context.Context, id int) (domain.Table, error)
	Delete(ctx context.Context, id int) error
}

type TableService struct {
	repo TableRepositoryInterface
	lg   *logger.Logger
}

func NewTableService(repo TableRepositoryInterface, lg *logger.Logger) TableServiceInterface {
	return &TableService{repo: repo, lg: lg}
}

func validateTableRequest(req CreateTableRequest) error {
	if strings.TrimSpace(req.Number) == "" {
		return errors.New("table number is required")
	}
	if len(req.Number) > 10 {
		return errors.New("table number must be at most 10 characters")
	}
	if req.Capacity <= 0 {
		return errors.New("seating capacity must be positive")
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, req CreateTableRequest) (domain.Table, error) {
	if err := validateTableRequest(req); err != nil {
		return domain.Table{}, err
	}
	t, err := s.repo.Create(ctx, domain.Table{Number: strings.TrimSpace(req.Number), Capacity: req.Capacity})
	if err != nil {
		return domain.Table{}, fmt.Errorf("create table: %w", err)
	}
	s.lg.Info("table_created", map[string]any{"table_id": t.ID, "table_number": t.Number})
	return t, nil
}

func (s *TableService) Get(ctx context.Context, id int) (domain.Table, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TableService) List(ctx context.Context, status string) ([]domain.Table, error) {
	if status != "" && !domain.TableStatus(status).Valid() {
		return nil, fmt.Errorf("unknown table status %q", status)
	}
	return s.repo.List(ctx, status)
}

func (s *TableService) Update(ctx context.Context, id int, req CreateTableRequest) (domain.Table, error) {
	if err := validateTableRequest(req); err != nil {
		return domain.Table{}, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	t.Number = strings.TrimSpace(req.Number)
	t.Capacity = req.Capacity
	if err := s.repo.Update(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *TableService) Close(ctx context.Context, id int) (domain.Table, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	if err := t.Close(); err != nil {
		return domain.Table{}, err
	}
	if err := s.repo.SetStatus(ctx, t.ID, t.Status); err != nil {
		return domain.Table{}, err
	}
	s.lg.Info("table_closed", map[string]any{"table_id": t.ID})
	return t, nil
}

func (s *TableService) Reopen(ctx context.Context, id int) (domain.Table, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	if err := t.Reopen(); err != nil {
		return domain.Table{}, err
	}
	if err := s.repo.SetStatus(ctx, t.ID, t.Status); err != nil {
		return domain.Table{}, err
	}
	s.lg.Info("table_reopened", map[string]any{"table_id": t.ID})
	return t, nil
}

// Delete removes a table from the floor plan. Seated tables cannot be
// deleted; close or settle them first.
func (s *TableService) Delete(ctx context.Context, id int) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == domain.TableOccupied || t.Status == domain.TableBillRequested {
		return domain.ErrTableInUse
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.lg.Info("table_deleted", map[string]any{"table_id": t.ID, "table_number": t.Number})
	return nil
}
