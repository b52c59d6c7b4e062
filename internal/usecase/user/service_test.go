package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-campus-admin/internal/config"
	domainUser "fleet-campus-admin/internal/domain/user"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryUserRepo struct {
	users map[uuid.UUID]domainUser.User
}

func (r *memoryUserRepo) Create(_ context.Context, u *domainUser.User) error {
	for _, other := range r.users {
		if other.Email == u.Email {
			return &appErrors.UniqueViolationError{Field: "email"}
		}
		if other.Username == u.Username {
			return &appErrors.UniqueViolationError{Field: "username"}
		}
	}
	u.ID = uuid.New()
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) List(_ context.Context, role *domainUser.Role) ([]*domainUser.User, error) {
	var out []*domainUser.User
	for id := range r.users {
		u := r.users[id]
		if role == nil || u.Role == *role {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *memoryUserRepo) Update(_ context.Context, u *domainUser.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u := r.users[id]
	u.PasswordHashed = hash
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) TouchLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u := r.users[id]
	u.LastLoginAt = &at
	r.users[id] = u
	return nil
}

type memoryTokenRepo struct {
	tokens map[string]*domainUser.RefreshToken
}

func (r *memoryTokenRepo) Create(_ context.Context, t *domainUser.RefreshToken) error {
	t.ID = uuid.New()
	r.tokens[t.Token] = t
	return nil
}

func (r *memoryTokenRepo) GetByToken(_ context.Context, token string) (*domainUser.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domainUser.ErrRefreshTokenNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTokenRepo) Revoke(_ context.Context, id uuid.UUID) error {
	for _, t := range r.tokens {
		if t.ID == id {
			now := time.Now()
			t.Revoked = true
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memoryTokenRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (r *memoryTokenRepo) DeleteExpired(_ context.Context, olderThan time.Duration) (int64, error) {
	var removed int64
	cutoff := time.Now().Add(-olderThan)
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, k)
			removed++
		}
	}
	return removed, nil
}

const testSecret = "test-secret-for-user-service"

func newUserService() (*Service, *memoryUserRepo, *memoryTokenRepo) {
	utils.PasswordCost = bcrypt.MinCost
	users := &memoryUserRepo{users: map[uuid.UUID]domainUser.User{}}
	tokens := &memoryTokenRepo{tokens: map[string]*domainUser.RefreshToken{}}
	svc := NewService(users, tokens, config.JWTConfig{Secret: testSecret, ExpiryHours: 1, RefreshExpiryHours: 24})
	return svc, users, tokens
}

func registration() *RegisterRequest {
	return &RegisterRequest{
		Username:        "kpatel",
		Email:           "  K.Patel@Example.com ",
		Password:        "Dispatch#2025",
		ConfirmPassword: "Dispatch#2025",
		FullName:        "Kavya Patel",
	}
}

func TestRegister_CreatesDispatcher(t *testing.T) {
	svc, users, tokens := newUserService()

	resp, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	assert.Equal(t, "k.patel@example.com", resp.User.Email)
	assert.Equal(t, string(domainUser.RoleDispatcher), resp.User.Role)
	assert.Len(t, users.users, 1)
	assert.Len(t, tokens.tokens, 1)

	claims, err := utils.ValidateToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "dispatcher", claims.Role)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _, _ := newUserService()
	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	dup := registration()
	dup.Username = "someone-else"
	_, err = svc.Register(context.Background(), dup)
	assert.Equal(t, "EMAIL_EXISTS", appErrors.CodeOf(err))

	weak := registration()
	weak.Email = "weak@example.com"
	weak.Password = "password1"
	weak.ConfirmPassword = "password1"
	_, err = svc.Register(context.Background(), weak)
	assert.Equal(t, "WEAK_PASSWORD", appErrors.CodeOf(err))

	mismatch := registration()
	mismatch.Email = "mismatch@example.com"
	mismatch.ConfirmPassword = "Other#2025"
	_, err = svc.Register(context.Background(), mismatch)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestLogin(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "k.patel@example.com", Password: "Dispatch#2025"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, users.users[registered.User.ID].LastLoginAt)

	_, err = svc.Login(ctx, &LoginRequest{Email: "k.patel@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "Dispatch#2025"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	u := users.users[registered.User.ID]
	u.IsActive = false
	users.users[u.ID] = u
	_, err = svc.Login(ctx, &LoginRequest{Email: "k.patel@example.com", Password: "Dispatch#2025"})
	assert.True(t, errors.Is(err, appErrors.ErrUserInactive))
}

func TestRefreshToken_RotatesAndRejectsReuse(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)
	assert.True(t, tokens.tokens[registered.RefreshToken].Revoked)

	_, err = svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidToken))

	// An access token is not accepted in place of a refresh token.
	_, err = svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: rotated.AccessToken})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidToken))
}

func TestRefreshToken_PicksUpNewRole(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	u := users.users[registered.User.ID]
	u.Role = domainUser.RoleSafetyOfficer
	users.users[u.ID] = u

	rotated, err := svc.RefreshToken(ctx, &RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)

	claims, err := utils.ValidateToken(rotated.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, string(domainUser.RoleSafetyOfficer), claims.Role)
}

func TestEnsureAdmin_IsIdempotent(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin@Campus.example", "Adm1n#Pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@campus.example", "Adm1n#Pass"))

	require.Len(t, users.users, 1)
	for _, u := range users.users {
		assert.Equal(t, domainUser.RoleAdmin, u.Role)
		assert.Equal(t, "admin@campus.example", u.Email)
	}
}

func TestSetRoleAndDeactivate_GuardSelf(t *testing.T) {
	svc, users, tokens := newUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, registration())
	require.NoError(t, err)
	target := registered.User.ID
	admin := uuid.New()

	_, err = svc.SetRole(ctx, target, target, &SetRoleRequest{Role: "admin"})
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))

	resp, err := svc.SetRole(ctx, admin, target, &SetRoleRequest{Role: "financial_analyst"})
	require.NoError(t, err)
	assert.Equal(t, "financial_analyst", resp.Role)

	_, err = svc.SetRole(ctx, admin, target, &SetRoleRequest{Role: "janitor"})
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	require.NoError(t, svc.Deactivate(ctx, admin, target))
	assert.False(t, users.users[target].IsActive)
	for _, tok := range tokens.tokens {
		assert.True(t, tok.Revoked)
	}
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, registration())
	require.NoError(t, err)
	id := registered.User.ID

	err = svc.ChangePassword(ctx, id, &ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "Fresh#Pass9", ConfirmPassword: "Fresh#Pass9",
	})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	err = svc.ChangePassword(ctx, id, &ChangePasswordRequest{
		OldPassword: "Dispatch#2025", NewPassword: "Fresh#Pass9", ConfirmPassword: "Fresh#Pass9",
	})
	require.NoError(t, err)
	assert.True(t, tokens.tokens[registered.RefreshToken].Revoked)

	_, err = svc.Login(ctx, &LoginRequest{Email: "k.patel@example.com", Password: "Fresh#Pass9"})
	assert.NoError(t, err)
}

func TestCleanupExpiredTokens(t *testing.T) {
	svc, _, tokens := newUserService()
	tokens.tokens["stale"] = &domainUser.RefreshToken{ID: uuid.New(), Token: "stale", ExpiresAt: time.Now().Add(-48 * time.Hour)}
	tokens.tokens["recent"] = &domainUser.RefreshToken{ID: uuid.New(), Token: "recent", ExpiresAt: time.Now().Add(-time.Hour)}

	removed, err := svc.CleanupExpiredTokens(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed)
	assert.Contains(t, tokens.tokens, "recent")
}
