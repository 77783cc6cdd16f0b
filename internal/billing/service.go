package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/orders"
)

// StaffDirectory resolves staff display names for bill rendering.
type StaffDirectory interface {
	NameByID(ctx context.Context, id int) (string, error)
}

// PayResult reports a settlement attempt. AlreadyPaid means the bill was
// settled before this call and nothing changed.
type PayResult struct {
	Bill        domain.Bill
	AlreadyPaid bool
}

type BillServiceInterface interface {
	Generate(ctx context.Context, orderID, cashierID int) (domain.Bill, error)
	Pay(ctx context.Context, billID, cashierID int) (PayResult, error)
	Get(ctx context.Context, id int) (domain.Bill, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Bill, error)
	Recalculate(ctx context.Context, billID int) (domain.Bill, error)
	ExportPDF(ctx context.Context, billID int) ([]byte, string, error)
}

type BillService struct {
	repo   BillRepositoryInterface
	orders orders.OrderRepositoryInterface
	staff  StaffDirectory
	taxPct decimal.Decimal
	lg     *logger.Logger
	now    func() time.Time
}

func NewBillService(repo BillRepositoryInterface, orderRepo orders.OrderRepositoryInterface, staff StaffDirectory, taxPct decimal.Decimal, lg *logger.Logger) *BillService {
	return &BillService{
		repo:   repo,
		orders: orderRepo,
		staff:  staff,
		taxPct: taxPct,
		lg:     lg,
		now:    time.Now,
	}
}

// Generate creates the bill for a served order, snapshotting the tax rate in
// force at generation time. The repository transaction re-checks the order
// state, so a concurrent generate loses cleanly.
func (s *BillService) Generate(ctx context.Context, orderID, cashierID int) (domain.Bill, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Bill{}, ErrOrderNotBillable
	}
	if o.Status != domain.OrderServed {
		return domain.Bill{}, ErrOrderNotBillable
	}

	subtotal := o.Total()
	tax, total, err := domain.ComputeBillTotals(subtotal, s.taxPct)
	if err != nil {
		return domain.Bill{}, err
	}

	b, err := s.repo.GenerateTx(ctx, domain.Bill{
		TableID:       o.TableID,
		OrderID:       o.ID,
		CashierID:     &cashierID,
		Subtotal:      subtotal,
		TaxPercentage: s.taxPct,
		TaxAmount:     tax,
		Total:         total,
	})
	if err != nil {
		return domain.Bill{}, err
	}

	s.lg.Info("bill_generated", map[string]any{
		"bill_id":  b.ID,
		"order_id": o.ID,
		"table_id": o.TableID,
		"total":    b.Total.StringFixed(2),
	})
	return b, nil
}

func (s *BillService) Pay(ctx context.Context, billID, cashierID int) (PayResult, error) {
	b, already, err := s.repo.PayTx(ctx, billID, cashierID, s.now().UTC())
	if err != nil {
		return PayResult{}, err
	}
	if already {
		s.lg.Info("bill_pay_repeated", map[string]any{"bill_id": billID})
	} else {
		s.lg.Info("bill_paid", map[string]any{
			"bill_id":    b.ID,
			"cashier_id": cashierID,
			"total":      b.Total.StringFixed(2),
		})
	}
	return PayResult{Bill: b, AlreadyPaid: already}, nil
}

func (s *BillService) Get(ctx context.Context, id int) (domain.Bill, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BillService) List(ctx context.Context, status string, limit, offset int) ([]domain.Bill, error) {
	return s.repo.List(ctx, status, limit, offset)
}

// Recalculate rebuilds the totals from the order's current items, keeping
// the tax rate snapshotted on the bill.
func (s *BillService) Recalculate(ctx context.Context, billID int) (domain.Bill, error) {
	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	o, err := s.orders.GetByID(ctx, b.OrderID)
	if err != nil {
		return domain.Bill{}, err
	}

	b.Subtotal = o.Total()
	b.TaxAmount, b.Total, err = domain.ComputeBillTotals(b.Subtotal, b.TaxPercentage)
	if err != nil {
		return domain.Bill{}, err
	}
	if err := s.repo.UpdateTotals(ctx, b); err != nil {
		return domain.Bill{}, err
	}

	s.lg.Info("bill_recalculated", map[string]any{
		"bill_id": b.ID,
		"total":   b.Total.StringFixed(2),
	})
	return b, nil
}

// ExportPDF renders the bill and returns the document plus the download
// filename, bill_<id>_<table>.pdf.
func (s *BillService) ExportPDF(ctx context.Context, billID int) ([]byte, string, error) {
	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, "", err
	}
	o, err := s.orders.GetByID(ctx, b.OrderID)
	if err != nil {
		return nil, "", err
	}

	waiter := fmt.Sprintf("#%d", o.WaiterID)
	if s.staff != nil {
		if name, err := s.staff.NameByID(ctx, o.WaiterID); err == nil && name != "" {
			waiter = name
		}
	}

	doc, err := renderBillPDF(b, o, waiter)
	if err != nil {
		return nil, "", fmt.Errorf("render bill pdf: %w", err)
	}
	return doc, fmt.Sprintf("bill_%d_%s.pdf", b.ID, b.TableNumber), nil
}
