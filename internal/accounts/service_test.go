package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tableside/internal/auth"
	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

type fakeStaffRepo struct {
	byUsername map[string]domain.Staff
	nextID     int
}

func (r *fakeStaffRepo) Create(_ context.Context, st domain.Staff) (domain.Staff, error) {
	r.nextID++
	st.ID = r.nextID
	r.byUsername[st.Username] = st
	return st, nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id int) (domain.Staff, error) {
	for _, st := range r.byUsername {
		if st.ID == id {
			return st, nil
		}
	}
	return domain.Staff{}, ErrNotFound
}

func (r *fakeStaffRepo) GetByUsername(_ context.Context, username string) (domain.Staff, error) {
	st, ok := r.byUsername[username]
	if !ok {
		return domain.Staff{}, ErrNotFound
	}
	return st, nil
}

func (r *fakeStaffRepo) NameByID(ctx context.Context, id int) (string, error) {
	st, err := r.GetByID(ctx, id)
	return st.FullName, err
}

func newTestService(t *testing.T) (*AccountService, *fakeStaffRepo, *auth.Manager) {
	t.Helper()
	repo := &fakeStaffRepo{byUsername: map[string]domain.Staff{}}
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewAccountService(repo, tokens, logger.New("test")), repo, tokens
}

func seedStaff(t *testing.T, repo *fakeStaffRepo, username, password string, role domain.Role) domain.Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	st, err := repo.Create(context.Background(), domain.Staff{
		Username:     username,
		FullName:     "Test " + username,
		Role:         role,
		PasswordHash: string(hash),
	})
	require.NoError(t, err)
	return st
}

func TestLogin(t *testing.T) {
	s, repo, tokens := newTestService(t)
	st := seedStaff(t, repo, "waiter1", "password123", domain.RoleWaiter)

	res, err := s.Login(context.Background(), "waiter1", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, st.ID, res.Staff.ID)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, st.ID, claims.StaffID())
	assert.Equal(t, string(domain.RoleWaiter), claims.Role)
}

func TestLoginRejections(t *testing.T) {
	s, repo, _ := newTestService(t)
	seedStaff(t, repo, "waiter1", "password123", domain.RoleWaiter)

	_, err := s.Login(context.Background(), "waiter1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "ghost", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterHashesPassword(t *testing.T) {
	s, _, _ := newTestService(t)

	st, err := s.Register(context.Background(), domain.Staff{
		Username: "cashier1",
		FullName: "Cash Ier",
		Role:     domain.RoleCashier,
	}, "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", st.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte("s3cret")))

	_, err = s.Register(context.Background(), domain.Staff{Username: "x", Role: "CHEF"}, "pw")
	assert.Error(t, err)
}
