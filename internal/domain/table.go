package domain

import (
	"errors"
	"time"
)

type TableStatus string

const (
	TableAvailable     TableStatus = "AVAILABLE"
	TableOccupied      TableStatus = "OCCUPIED"
	TableBillRequested TableStatus = "BILL_REQUESTED"
	TableClosed        TableStatus = "CLOSED"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableBillRequested, TableClosed:
		return true
	}
	return false
}

type Table struct {
	ID           int         `json:"id"`
	Number       string      `json:"table_number"`
	Capacity     int         `json:"seating_capacity"`
	Status       TableStatus `json:"status"`
	LastActivity time.Time   `json:"last_activity"`
	CreatedAt    time.Time   `json:"created_at"`
}

var (
	ErrTableInUse     = errors.New("table has activity in progress")
	ErrTableNotClosed = errors.New("table is not closed")
)

// The status transitions below are the only way table state moves. The
// orchestrating services call them and persist the result; nothing changes
// status as a hidden side effect of a save.

// OccupyForOrder seats a new order. Only an AVAILABLE table changes state;
// any other status is left untouched and the caller proceeds without a
// table write.
func (t *Table) OccupyForOrder() bool {
	if t.Status != TableAvailable {
		return false
	}
	t.Status = TableOccupied
	return true
}

// RequestBill moves the table to BILL_REQUESTED when its bill is generated.
func (t *Table) RequestBill() bool {
	if t.Status == TableBillRequested {
		return false
	}
	t.Status = TableBillRequested
	return true
}

// Release returns the table to AVAILABLE after its bill is paid.
func (t *Table) Release() bool {
	if t.Status == TableAvailable {
		return false
	}
	t.Status = TableAvailable
	return true
}

// CloseIfStale is the sweep transition: an OCCUPIED or BILL_REQUESTED table
// whose last activity is older than the threshold becomes CLOSED.
func (t *Table) CloseIfStale(now time.Time, threshold time.Duration) bool {
	if t.Status != TableOccupied && t.Status != TableBillRequested {
		return false
	}
	if now.Sub(t.LastActivity) <= threshold {
		return false
	}
	t.Status = TableClosed
	return true
}

// Close takes an AVAILABLE table out of service manually.
func (t *Table) Close() error {
	if t.Status != TableAvailable {
		return ErrTableInUse
	}
	t.Status = TableClosed
	return nil
}

// Reopen brings a CLOSED table back into service.
func (t *Table) Reopen() error {
	if t.Status != TableClosed {
		return ErrTableNotClosed
	}
	t.Status = TableAvailable
	return nil
}
