package accounts

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"tableside/internal/auth"
	"tableside/internal/common/logger"
	"tableside/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type LoginResult struct {
	Token string       `json:"token"`
	Staff domain.Staff `json:"staff"`
}

type AccountServiceInterface interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Profile(ctx context.Context, staffID int) (domain.Staff, error)
	Register(ctx context.Context, st domain.Staff, password string) (domain.Staff, error)
}

type AccountService struct {
	repo   StaffRepositoryInterface
	tokens *auth.Manager
	lg     *logger.Logger
}

func NewAccountService(repo StaffRepositoryInterface, tokens *auth.Manager, lg *logger.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, lg: lg}
}

// Login checks the password and hands back a signed token. Unknown users
// and bad passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	st, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		s.lg.Info("login_rejected", map[string]any{"username": username})
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(st)
	if err != nil {
		return LoginResult{}, err
	}

	s.lg.Info("login_succeeded", map[string]any{
		"staff_id": st.ID,
		"username": st.Username,
		"role":     string(st.Role),
	})
	return LoginResult{Token: token, Staff: st}, nil
}

func (s *AccountService) Profile(ctx context.Context, staffID int) (domain.Staff, error) {
	return s.repo.GetByID(ctx, staffID)
}

// Register creates a staff account with a freshly hashed password. Exposed
// to managers only; the seed job uses it too.
func (s *AccountService) Register(ctx context.Context, st domain.Staff, password string) (domain.Staff, error) {
	if st.Username == "" || password == "" {
		return domain.Staff{}, errors.New("username and password are required")
	}
	if _, err := domain.ParseRole(string(st.Role)); err != nil {
		return domain.Staff{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Staff{}, err
	}
	st.PasswordHash = string(hash)

	created, err := s.repo.Create(ctx, st)
	if err != nil {
		return domain.Staff{}, err
	}
	s.lg.Info("staff_registered", map[string]any{
		"staff_id": created.ID,
		"username": created.Username,
		"role":     string(created.Role),
	})
	return created, nil
}
