package tables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

type fakeTableRepo struct {
	tables map[int]domain.Table
	nextID int
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: map[int]domain.Table{}, nextID: 1}
}

func (r *fakeTableRepo) Create(_ context.Context, t domain.Table) (domain.Table, error) {
	t.ID = r.nextID
	r.nextID++
	t.Status = domain.TableAvailable
	r.tables[t.ID] = t
	return t, nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id int) (domain.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return domain.Table{}, ErrNotFound
	}
	return t, nil
}

func (r *fakeTableRepo) List(_ context.Context, status string) ([]domain.Table, error) {
	var out []domain.Table
	for _, t := range r.tables {
		if status == "" || string(t.Status) == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) Update(_ context.Context, t domain.Table) error {
	if _, ok := r.tables[t.ID]; !ok {
		return ErrNotFound
	}
	r.tables[t.ID] = t
	return nil
}

func (r *fakeTableRepo) SetStatus(_ context.Context, id int, status domain.TableStatus) error {
	t, ok := r.tables[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	r.tables[id] = t
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tables[id]; !ok {
		return ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

func (r *fakeTableRepo) CloseStale(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, t := range r.tables {
		if t.CloseIfStale(cutoff, 0) {
			r.tables[id] = t
			n++
		}
	}
	return n, nil
}

func (r *fakeTableRepo) CountByStatus(_ context.Context) (map[domain.TableStatus]int, error) {
	out := map[domain.TableStatus]int{}
	for _, t := range r.tables {
		out[t.Status]++
	}
	return out, nil
}

func TestCreateTableValidation(t *testing.T) {
	s := NewTableService(newFakeTableRepo(), logger.New("test"))

	tests := []struct {
		name string
		req  CreateTableRequest
		ok   bool
	}{
		{"valid", CreateTableRequest{Number: "T1", Capacity: 4}, true},
		{"blank number", CreateTableRequest{Number: "  ", Capacity: 4}, false},
		{"number too long", CreateTableRequest{Number: "TABLE-00001", Capacity: 4}, false},
		{"zero capacity", CreateTableRequest{Number: "T2", Capacity: 0}, false},
		{"negative capacity", CreateTableRequest{Number: "T3", Capacity: -2}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			created, err := s.Create(context.Background(), tc.req)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, domain.TableAvailable, created.Status)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCloseOnlyAvailableTables(t *testing.T) {
	repo := newFakeTableRepo()
	s := NewTableService(repo, logger.New("test"))

	created, err := s.Create(context.Background(), CreateTableRequest{Number: "T1", Capacity: 4})
	require.NoError(t, err)

	closed, err := s.Close(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableClosed, closed.Status)

	// a seated table cannot be closed by hand
	require.NoError(t, repo.SetStatus(context.Background(), created.ID, domain.TableOccupied))
	_, err = s.Close(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrTableInUse)
}

func TestReopenRequiresClosed(t *testing.T) {
	repo := newFakeTableRepo()
	s := NewTableService(repo, logger.New("test"))

	created, err := s.Create(context.Background(), CreateTableRequest{Number: "T1", Capacity: 4})
	require.NoError(t, err)

	_, err = s.Reopen(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrTableNotClosed)

	_, err = s.Close(context.Background(), created.ID)
	require.NoError(t, err)

	reopened, err := s.Reopen(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, reopened.Status)
}

func TestDeleteRefusesSeatedTables(t *testing.T) {
	repo := newFakeTableRepo()
	s := NewTableService(repo, logger.New("test"))

	created, err := s.Create(context.Background(), CreateTableRequest{Number: "T1", Capacity: 4})
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(context.Background(), created.ID, domain.TableOccupied))
	assert.ErrorIs(t, s.Delete(context.Background(), created.ID), domain.ErrTableInUse)

	require.NoError(t, repo.SetStatus(context.Background(), created.ID, domain.TableBillRequested))
	assert.ErrorIs(t, s.Delete(context.Background(), created.ID), domain.ErrTableInUse)

	require.NoError(t, repo.SetStatus(context.Background(), created.ID, domain.TableAvailable))
	require.NoError(t, s.Delete(context.Background(), created.ID))

	_, err = s.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	s := NewTableService(newFakeTableRepo(), logger.New("test"))

	_, err := s.List(context.Background(), "SLEEPING")
	assert.Error(t, err)

	_, err = s.List(context.Background(), "")
	assert.NoError(t, err)
}
