package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

var (
	ErrNotFound         = errors.New("bill not found")
	ErrOrderNotBillable = errors.New("order not found or already has a bill")
)

type BillRepositoryInterface interface {
	GenerateTx(ctx context.Context, b domain.Bill) (domain.Bill, error)
	PayTx(ctx context.Context, billID, cashierID int, now time.Time) (domain.Bill, bool, error)
	GetByID(ctx context.Context, id int) (domain.Bill, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Bill, error)
	UpdateTotals(ctx context.Context, b domain.Bill) error
	ListPendingSince(ctx context.Context, cutoff time.Time) ([]domain.Bill, error)
	CountPending(ctx context.Context) (int, error)
}

type BillRepository struct {
	db *db.Conn
}

func NewBillRepository(conn *db.Conn) BillRepositoryInterface {
	return &BillRepository{db: conn}
}

// GenerateTx inserts the bill and flips the table to BILL_REQUESTED in one
// transaction. The insert only matches a SERVED, unbilled order; the unique
// constraint on order_id backs the same rule under races. Either both
// writes land or neither does.
func (r *BillRepository) GenerateTx(ctx context.Context, b domain.Bill) (domain.Bill, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO bills (table_id, order_id, cashier_id, subtotal, tax_percentage, tax_amount, total_amount, status)
		SELECT o.table_id, o.id, $2, $3, $4, $5, $6, $7
		FROM orders o
		WHERE o.id = $1
		  AND o.status = $8
		  AND NOT EXISTS (SELECT 1 FROM bills WHERE order_id = o.id)
		RETURNING id, table_id, generated_at`,
		b.OrderID, b.CashierID, b.Subtotal, b.TaxPercentage, b.TaxAmount, b.Total,
		string(domain.BillPendingPayment), string(domain.OrderServed)).
		Scan(&b.ID, &b.TableID, &b.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrOrderNotBillable
		return domain.Bill{}, err
	}
	if err != nil {
		return domain.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	b.Status = domain.BillPendingPayment

	if _, err = tx.Exec(ctx, `
		UPDATE tables SET status = $2, last_activity = NOW() WHERE id = $1`,
		b.TableID, string(domain.TableBillRequested)); err != nil {
		return domain.Bill{}, fmt.Errorf("request bill on table: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Bill{}, fmt.Errorf("commit transaction: %w", err)
	}
	return b, nil
}

// PayTx settles the bill and releases the table atomically. The guarded
// update makes a repeat payment a no-op that is reported, not an error.
func (r *BillRepository) PayTx(ctx context.Context, billID, cashierID int, now time.Time) (domain.Bill, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Bill{}, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var tableID int
	err = tx.QueryRow(ctx, `
		UPDATE bills SET status = $2, paid_at = $3, cashier_id = $4
		WHERE id = $1 AND status <> $2
		RETURNING table_id`,
		billID, string(domain.BillPaid), now, cashierID).Scan(&tableID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = tx.Rollback(ctx)
		// either the bill does not exist or it is already paid
		b, getErr := r.GetByID(ctx, billID)
		if getErr != nil {
			return domain.Bill{}, false, getErr
		}
		return b, true, nil
	}
	if err != nil {
		return domain.Bill{}, false, fmt.Errorf("pay bill: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE tables SET status = $2, last_activity = NOW() WHERE id = $1`,
		tableID, string(domain.TableAvailable)); err != nil {
		return domain.Bill{}, false, fmt.Errorf("release table: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Bill{}, false, fmt.Errorf("commit transaction: %w", err)
	}

	b, err := r.GetByID(ctx, billID)
	return b, false, err
}

const billColumns = `b.id, b.table_id, t.table_number, b.order_id, b.cashier_id, b.subtotal,
	b.tax_percentage, b.tax_amount, b.total_amount, b.status, b.generated_at, b.paid_at`

func scanBill(row pgx.Row) (domain.Bill, error) {
	var b domain.Bill
	var status string
	err := row.Scan(&b.ID, &b.TableID, &b.TableNumber, &b.OrderID, &b.CashierID, &b.Subtotal,
		&b.TaxPercentage, &b.TaxAmount, &b.Total, &status, &b.GeneratedAt, &b.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bill{}, ErrNotFound
	}
	if err != nil {
		return domain.Bill{}, err
	}
	b.Status = domain.BillStatus(status)
	return b, nil
}

func (r *BillRepository) GetByID(ctx context.Context, id int) (domain.Bill, error) {
	return scanBill(r.db.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills b JOIN tables t ON t.id = b.table_id
		WHERE b.id = $1`, id))
}

func (r *BillRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills b JOIN tables t ON t.id = b.table_id`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE b.status = $1`
	}
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY b.generated_at DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var out []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BillRepository) UpdateTotals(ctx context.Context, b domain.Bill) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bills SET subtotal = $2, tax_amount = $3, total_amount = $4 WHERE id = $1`,
		b.ID, b.Subtotal, b.TaxAmount, b.Total)
	if err != nil {
		return fmt.Errorf("update bill totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BillRepository) ListPendingSince(ctx context.Context, cutoff time.Time) ([]domain.Bill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+billColumns+`
		FROM bills b JOIN tables t ON t.id = b.table_id
		WHERE b.status = $1 AND b.generated_at < $2
		ORDER BY b.generated_at`,
		string(domain.BillPendingPayment), cutoff)
	if err != nil {
		return nil, fmt.Errorf("list pending bills: %w", err)
	}
	defer rows.Close()

	var out []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BillRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bills WHERE status = $1`,
		string(domain.BillPendingPayment)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending bills: %w", err)
	}
	return n, nil
}
