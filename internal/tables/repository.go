package tables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

var ErrNotFound = errors.New("table not found")

type TableRepositoryInterface interface {
	Create(ctx context.Context, t domain.Table) (domain.Table, error)
	GetByID(ctx context.Context, id int) (domain.Table, error)
	List(ctx context.Context, status string) ([]domain.Table, error)
	Update(ctx context.Context, t domain.Table) error
	SetStatus(ctx context.Context, id int, status domain.TableStatus) error
	Delete(ctx context.Context, id int) error
	CloseStale(ctx context.Context, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.TableStatus]int, error)
}

type TableRepository struct {
	db *db.Conn
}

func NewTableRepository(conn *db.Conn) TableRepositoryInterface {
	return &TableRepository{db: conn}
}

const tableColumns = `id, table_number, seating_capacity, status, last_activity, created_at`

func scanTable(row pgx.Row) (domain.Table, error) {
	var t domain.Table
	var status string
	err := row.Scan(&t.ID, &t.Number, &t.Capacity, &status, &t.LastActivity, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	}
	if err != nil {
		return domain.Table{}, err
	}
	t.Status = domain.TableStatus(status)
	return t, nil
}

func (r *TableRepository) Create(ctx context.Context, t domain.Table) (domain.Table, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tables (table_number, seating_capacity, status)
		VALUES ($1, $2, $3)
		RETURNING `+tableColumns,
		t.Number, t.Capacity, string(domain.TableAvailable))
	created, err := scanTable(row)
	if err != nil {
		return domain.Table{}, fmt.Errorf("insert table: %w", err)
	}
	return created, nil
}

func (r *TableRepository) GetByID(ctx context.Context, id int) (domain.Table, error) {
	return scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1`, id))
}

func (r *TableRepository) List(ctx context.Context, status string) ([]domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY table_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TableRepository) Update(ctx context.Context, t domain.Table) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tables SET table_number = $2, seating_capacity = $3
		WHERE id = $1`,
		t.ID, t.Number, t.Capacity)
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TableRepository) SetStatus(ctx context.Context, id int, status domain.TableStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tables SET status = $2, last_activity = NOW()
		WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("set table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a table outright. A table with order history keeps its
// foreign keys, which Postgres reports as 23503; that surfaces as the same
// conflict as any other in-use table.
func (r *TableRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrTableInUse
		}
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseStale is the abandoned-table sweep write: one idempotent statement,
// safe to re-run and safe under overlapping sweeps.
func (r *TableRepository) CloseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tables SET status = $1
		WHERE status IN ($2, $3) AND last_activity < $4`,
		string(domain.TableClosed), string(domain.TableOccupied), string(domain.TableBillRequested), cutoff)
	if err != nil {
		return 0, fmt.Errorf("close stale tables: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TableRepository) CountByStatus(ctx context.Context) (map[domain.TableStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM tables GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}
	defer rows.Close()

	counts := map[domain.TableStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TableStatus(status)] = n
	}
	return counts, rows.Err()
}
