package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tableside/internal/common/config"
	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

type fakeTableRepo struct {
	cutoff time.Time
	closed int64
	err    error
}

func (r *fakeTableRepo) CloseStale(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.closed, r.err
}

type fakeBillRepo struct {
	bills []domain.Bill
	err   error
}

func (r *fakeBillRepo) ListPendingSince(_ context.Context, cutoff time.Time) ([]domain.Bill, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Bill
	for _, b := range r.bills {
		if b.GeneratedAt.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, _, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, subject+"\n"+body)
	return nil
}

func testSweeper(tables *fakeTableRepo, bills *fakeBillRepo, notifier *fakeNotifier, now time.Time) *Sweeper {
	cfg := config.App{}
	cfg.Sweeper.AbandonedAfterMin = 180
	cfg.Sweeper.BillAlertAfterMin = 30
	cfg.Notifications.ManagerEmail = "manager@restaurant.local"
	s := New(tables, bills, notifier, cfg, logger.New("test"))
	s.now = func() time.Time { return now }
	return s
}

func TestCloseAbandonedTables(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	tables := &fakeTableRepo{closed: 3}
	s := testSweeper(tables, &fakeBillRepo{}, &fakeNotifier{}, now)

	res := s.CloseAbandonedTables(context.Background())

	assert.Equal(t, "Closed 3 abandoned tables", res)
	assert.Equal(t, now.Add(-3*time.Hour), tables.cutoff)
}

func TestCloseAbandonedTablesFailure(t *testing.T) {
	tables := &fakeTableRepo{err: errors.New("connection refused")}
	s := testSweeper(tables, &fakeBillRepo{}, &fakeNotifier{}, time.Now())

	res := s.CloseAbandonedTables(context.Background())
	assert.Contains(t, res, "Table sweep failed")
}

func TestAlertPendingBills(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	bills := &fakeBillRepo{bills: []domain.Bill{
		{ID: 1, TableNumber: "T1", Total: decimal.RequireFromString("33.56"),
			Status: domain.BillPendingPayment, GeneratedAt: now.Add(-45 * time.Minute)},
		{ID: 2, TableNumber: "T2", Total: decimal.RequireFromString("10.00"),
			Status: domain.BillPendingPayment, GeneratedAt: now.Add(-10 * time.Minute)},
	}}
	notifier := &fakeNotifier{}
	s := testSweeper(&fakeTableRepo{}, bills, notifier, now)

	res := s.AlertPendingBills(context.Background())

	assert.Equal(t, "Alerted manager about 1 overdue bills", res)
	assert.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "Bill #1")
	assert.NotContains(t, notifier.sent[0], "Bill #2")
}

func TestAlertPendingBillsNone(t *testing.T) {
	notifier := &fakeNotifier{}
	s := testSweeper(&fakeTableRepo{}, &fakeBillRepo{}, notifier, time.Now())

	res := s.AlertPendingBills(context.Background())
	assert.Equal(t, "No overdue pending bills", res)
	assert.Empty(t, notifier.sent)
}

func TestAlertPendingBillsNotifierFailure(t *testing.T) {
	now := time.Now().UTC()
	bills := &fakeBillRepo{bills: []domain.Bill{
		{ID: 1, TableNumber: "T1", Total: decimal.RequireFromString("33.56"),
			Status: domain.BillPendingPayment, GeneratedAt: now.Add(-2 * time.Hour)},
	}}
	s := testSweeper(&fakeTableRepo{}, bills, &fakeNotifier{err: errors.New("smtp timeout")}, now)

	res := s.AlertPendingBills(context.Background())
	assert.Contains(t, res, "alert failed")
	assert.Contains(t, res, "smtp timeout")
}
