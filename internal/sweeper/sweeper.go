// Package sweeper runs the scheduled housekeeping jobs: closing tables that
// went quiet and nudging the manager about bills left unpaid.
package sweeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"tableside/internal/common/config"
	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/notify"
)

// TableSweepRepo is the slice of the tables repository the sweeper needs.
type TableSweepRepo interface {
	CloseStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// BillSweepRepo is the slice of the bills repository the sweeper needs.
type BillSweepRepo interface {
	ListPendingSince(ctx context.Context, cutoff time.Time) ([]domain.Bill, error)
}

type Sweeper struct {
	tables   TableSweepRepo
	bills    BillSweepRepo
	notifier notify.Notifier
	cfg      config.App
	lg       *logger.Logger
	now      func() time.Time
}

func New(tables TableSweepRepo, bills BillSweepRepo, notifier notify.Notifier, cfg config.App, lg *logger.Logger) *Sweeper {
	return &Sweeper{
		tables:   tables,
		bills:    bills,
		notifier: notifier,
		cfg:      cfg,
		lg:       lg,
		now:      time.Now,
	}
}

// CloseAbandonedTables closes every seated table whose last activity is
// older than the configured threshold. The result string is what lands in
// the job log and nothing more; a failed run is reported the same way.
func (s *Sweeper) CloseAbandonedTables(ctx context.Context) string {
	cutoff := s.now().UTC().Add(-s.cfg.AbandonedAfter())
	n, err := s.tables.CloseStale(ctx, cutoff)
	if err != nil {
		s.lg.Error("table_sweep_failed", err, nil)
		return fmt.Sprintf("Table sweep failed: %v", err)
	}
	if n > 0 {
		s.lg.Info("abandoned_tables_closed", map[string]any{"count": n})
	}
	return fmt.Sprintf("Closed %d abandoned tables", n)
}

// AlertPendingBills emails the manager a single digest of every bill that
// has been awaiting payment longer than the threshold. Notification
// failures are folded into the result string, never raised.
func (s *Sweeper) AlertPendingBills(ctx context.Context) string {
	cutoff := s.now().UTC().Add(-s.cfg.BillAlertAfter())
	bills, err := s.bills.ListPendingSince(ctx, cutoff)
	if err != nil {
		s.lg.Error("bill_alert_failed", err, nil)
		return fmt.Sprintf("Bill alert sweep failed: %v", err)
	}
	if len(bills) == 0 {
		return "No overdue pending bills"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "The following bills have been pending for over %d minutes:\n\n",
		s.cfg.Sweeper.BillAlertAfterMin)
	for _, b := range bills {
		fmt.Fprintf(&body, "- Bill #%d, table %s, total %s, generated %s\n",
			b.ID, b.TableNumber, b.Total.StringFixed(2), b.GeneratedAt.Format("15:04"))
	}

	subject := fmt.Sprintf("%d bills awaiting payment", len(bills))
	if err := s.notifier.Notify(ctx, s.cfg.Notifications.ManagerEmail, subject, body.String()); err != nil {
		s.lg.Error("bill_alert_notify_failed", err, map[string]any{"count": len(bills)})
		return fmt.Sprintf("Found %d overdue bills, alert failed: %v", len(bills), err)
	}

	s.lg.Info("pending_bill_alert_sent", map[string]any{"count": len(bills)})
	return fmt.Sprintf("Alerted manager about %d overdue bills", len(bills))
}

// Run schedules both sweeps and blocks until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(s.cfg.Sweeper.TableSweepSpec, func() {
		s.lg.Info("table_sweep_result", map[string]any{"result": s.CloseAbandonedTables(ctx)})
	}); err != nil {
		return fmt.Errorf("schedule table sweep: %w", err)
	}
	if _, err := c.AddFunc(s.cfg.Sweeper.BillAlertSpec, func() {
		s.lg.Info("bill_alert_result", map[string]any{"result": s.AlertPendingBills(ctx)})
	}); err != nil {
		return fmt.Errorf("schedule bill alert: %w", err)
	}

	c.Start()
	s.lg.Info("sweeper_started", map[string]any{
		"table_sweep_spec": s.cfg.Sweeper.TableSweepSpec,
		"bill_alert_spec":  s.cfg.Sweeper.BillAlertSpec,
	})

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	s.lg.Info("sweeper_stopped", nil)
	return nil
}
