package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumora/studyplan-api/internal/models"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, token := range m.tokens {
		if token.ID == id {
			token.Revoked = true
		}
	}
	return nil
}

func testAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "studyplan-test",
	})
}

func seedUser(repo *mockUserRepo, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		ID:           "u1",
		Email:        "learner@example.com",
		PasswordHash: string(hash),
		FullName:     "Learner",
		Role:         models.RoleLearner,
		Active:       true,
	}
	repo.users[user.ID] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "correct-horse")
	svc := testAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleLearner, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "correct-horse")
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(repo, "correct-horse")
	user.Active = false
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "correct-horse")
	svc := testAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The original token was revoked on use.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "old-password")
	svc := testAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "old-password"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "old-password", NewPassword: "brand-new-password"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "learner@example.com", Password: "brand-new-password"})
	require.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := testAuthService(newMockUserRepo())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
