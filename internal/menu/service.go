package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

type MenuItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	Available   *bool  `json:"available"`
}

type MenuServiceInterface interface {
	Create(ctx context.Context, req MenuItemRequest) (domain.MenuItem, error)
	Get(ctx context.Context, id int) (domain.MenuItem, error)
	List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error)
	Update(ctx context.Context, id int, req MenuItemRequest) (domain.MenuItem, error)
	ToggleAvailability(ctx context.Context, id int) (domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
}

type MenuService struct {
	repo MenuRepositoryInterface
	lg   *logger.Logger
}

func NewMenuService(repo MenuRepositoryInterface, lg *logger.Logger) MenuServiceInterface {
	return &MenuService{repo: repo, lg: lg}
}

func (s *MenuService) fromRequest(req MenuItemRequest) (domain.MenuItem, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.MenuItem{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("invalid price %q", req.Price)
	}
	m := domain.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    category,
		Price:       price.Round(2),
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Available:   true,
	}
	if req.Available != nil {
		m.Available = *req.Available
	}
	if err := m.Validate(); err != nil {
		return domain.MenuItem{}, err
	}
	return m, nil
}

func (s *MenuService) Create(ctx context.Context, req MenuItemRequest) (domain.MenuItem, error) {
	m, err := s.fromRequest(req)
	if err != nil {
		return domain.MenuItem{}, err
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.lg.Info("menu_item_created", map[string]any{"menu_item_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *MenuService) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MenuService) List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error) {
	if f.Category != "" {
		category, err := domain.ParseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		f.Category = string(category)
	}
	return s.repo.List(ctx, f)
}

func (s *MenuService) Update(ctx context.Context, id int, req MenuItemRequest) (domain.MenuItem, error) {
	m, err := s.fromRequest(req)
	if err != nil {
		return domain.MenuItem{}, err
	}
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return domain.MenuItem{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *MenuService) ToggleAvailability(ctx context.Context, id int) (domain.MenuItem, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.repo.SetAvailability(ctx, id, !m.Available); err != nil {
		return domain.MenuItem{}, err
	}
	m.Available = !m.Available
	return m, nil
}

func (s *MenuService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("menu_item_deleted", map[string]any{"menu_item_id": id})
	return nil
}
