package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

var ErrNotFound = errors.New("staff member not found")

type StaffRepositoryInterface interface {
	Create(ctx context.Context, st domain.Staff) (domain.Staff, error)
	GetByID(ctx context.Context, id int) (domain.Staff, error)
	GetByUsername(ctx context.Context, username string) (domain.Staff, error)
	NameByID(ctx context.Context, id int) (string, error)
}

type StaffRepository struct {
	db *db.Conn
}

func NewStaffRepository(conn *db.Conn) StaffRepositoryInterface {
	return &StaffRepository{db: conn}
}

const staffColumns = `id, username, full_name, role, COALESCE(employee_id, ''), phone, password_hash, created_at`

func scanStaff(row pgx.Row) (domain.Staff, error) {
	var st domain.Staff
	var role string
	err := row.Scan(&st.ID, &st.Username, &st.FullName, &role, &st.EmployeeID,
		&st.Phone, &st.PasswordHash, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, ErrNotFound
	}
	if err != nil {
		return domain.Staff{}, err
	}
	st.Role = domain.Role(role)
	return st, nil
}

func (r *StaffRepository) Create(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO staff (username, full_name, role, employee_id, phone, password_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		ON CONFLICT (username) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			phone = EXCLUDED.phone
		RETURNING `+staffColumns,
		st.Username, st.FullName, string(st.Role), st.EmployeeID, st.Phone, st.PasswordHash)
	created, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("insert staff: %w", err)
	}
	return created, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id int) (domain.Staff, error) {
	return scanStaff(r.db.QueryRow(ctx, `
		SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (r *StaffRepository) GetByUsername(ctx context.Context, username string) (domain.Staff, error) {
	return scanStaff(r.db.QueryRow(ctx, `
		SELECT `+staffColumns+` FROM staff WHERE username = $1`, username))
}

func (r *StaffRepository) NameByID(ctx context.Context, id int) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT full_name FROM staff WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}
