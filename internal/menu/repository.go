package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

var ErrNotFound = errors.New("menu item not found")

type MenuRepositoryInterface interface {
	Create(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error)
	GetByID(ctx context.Context, id int) (domain.MenuItem, error)
	List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error)
	Update(ctx context.Context, m domain.MenuItem) error
	SetAvailability(ctx context.Context, id int, available bool) error
	Delete(ctx context.Context, id int) error
}

type ListFilter struct {
	Category      string
	OnlyAvailable bool
}

type MenuRepository struct {
	db *db.Conn
}

func NewMenuRepository(conn *db.Conn) MenuRepositoryInterface {
	return &MenuRepository{db: conn}
}

const menuColumns = `id, name, category, price, description, image_path, is_available, created_at, updated_at`

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var m domain.MenuItem
	var category string
	err := row.Scan(&m.ID, &m.Name, &category, &m.Price, &m.Description, &m.ImagePath, &m.Available, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, ErrNotFound
	}
	if err != nil {
		return domain.MenuItem{}, err
	}
	m.Category = domain.Category(category)
	return m, nil
}

func (r *MenuRepository) Create(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO menu_items (name, category, price, description, image_path, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+menuColumns,
		m.Name, string(m.Category), m.Price, m.Description, m.ImagePath, m.Available)
	created, err := scanMenuItem(row)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}
	return created, nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id int) (domain.MenuItem, error) {
	return scanMenuItem(r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
}

func (r *MenuRepository) List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE 1=1`
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.OnlyAvailable {
		query += ` AND is_available`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MenuRepository) Update(ctx context.Context, m domain.MenuItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, category = $3, price = $4, description = $5, image_path = $6, updated_at = NOW()
		WHERE id = $1`,
		m.ID, m.Name, string(m.Category), m.Price, m.Description, m.ImagePath)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MenuRepository) SetAvailability(ctx context.Context, id int, available bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items SET is_available = $2, updated_at = NOW() WHERE id = $1`,
		id, available)
	if err != nil {
		return fmt.Errorf("set menu item availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
