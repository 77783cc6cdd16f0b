package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(domain.Staff{ID: 42, Username: "waiter1", Role: domain.RoleWaiter})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.StaffID())
	assert.Equal(t, "waiter1", claims.Username)
	assert.Equal(t, string(domain.RoleWaiter), claims.Role)
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue(domain.Staff{ID: 1, Username: "c", Role: domain.RoleCashier})
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := m.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		_, err := other.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewManager("test-secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		expired, err := past.Issue(domain.Staff{ID: 2, Username: "w", Role: domain.RoleWaiter})
		require.NoError(t, err)
		if _, err := m.Validate(expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
		}
	})
}
