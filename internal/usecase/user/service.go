package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/config"
	domainUser "fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements account use cases
type Service struct {
	userRepo         domainUser.Repository
	refreshTokenRepo domainUser.RefreshTokenRepository
	jwt              config.JWTConfig
	now              func() time.Time
}

func NewService(
	userRepo domainUser.Repository,
	refreshTokenRepo domainUser.RefreshTokenRepository,
	jwtConfig config.JWTConfig,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwt:              jwtConfig,
		now:              time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeString(req.Username)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	u, err := s.createUser(ctx, req.Username, req.Email, req.Password, utils.SanitizeString(req.FullName), req.PhoneNumber, domainUser.RoleDispatcher)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)),
		zap.String("event", "user_registered"),
	)

	return s.issueTokens(ctx, u)
}

// EnsureAdmin creates the bootstrap administrator unless an account with
// that email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = utils.SanitizeEmail(email)
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainUser.ErrUserNotFound) {
		return err
	}

	u, err := s.createUser(ctx, "admin", email, password, "Administrator", nil, domainUser.RoleAdmin)
	if err != nil {
		return err
	}

	logger.Info("Bootstrap administrator created",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "admin_bootstrapped"),
	)
	return nil
}

func (s *Service) createUser(ctx context.Context, username, email, password, fullName string, phone *string, role domainUser.Role) (*domainUser.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domainUser.User{
		Username:       username,
		Email:          email,
		PasswordHashed: hashed,
		FullName:       fullName,
		PhoneNumber:    utils.SanitizeOptional(phone),
		Role:           role,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		switch {
		case appErrors.IsUniqueViolation(err, "email"):
			logger.Warn("Registration with existing email",
				zap.String("email", email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
			return nil, appErrors.NewAppError("EMAIL_EXISTS", "Email already registered", appErrors.ErrUserAlreadyExists)
		case appErrors.IsUniqueViolation(err, "username"):
			return nil, appErrors.NewAppError("USERNAME_EXISTS", "Username already taken", appErrors.ErrUserAlreadyExists)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login with unknown email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed_unknown_email"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login with invalid password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		logger.Warn("Login for inactive user",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_inactive_user"),
		)
		return nil, appErrors.ErrUserInactive
	}

	now := s.now()
	if err := s.userRepo.TouchLogin(ctx, u.ID, now); err != nil {
		logger.Warn("Failed to record last login", zap.String("user_id", u.ID.String()), zap.Error(err))
	} else {
		u.LastLoginAt = &now
	}

	logger.Info("User logged in",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
		zap.String("event", "login_success"),
	)

	return s.issueTokens(ctx, u)
}

func (s *Service) issueTokens(ctx context.Context, u *domainUser.User) (*AuthResponse, error) {
	pair, err := utils.GenerateTokenPair(
		u.ID,
		u.Email,
		string(u.Role),
		s.jwt.Secret,
		s.jwt.ExpiryHours,
		s.jwt.RefreshExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.storeRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         ToUserResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

func (s *Service) storeRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	refreshHours := s.jwt.RefreshExpiryHours
	if refreshHours <= 0 {
		refreshHours = 24 * 7
	}
	rt := &domainUser.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(time.Duration(refreshHours) * time.Hour),
	}
	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// new pair is issued with the account's current role.
func (s *Service) RefreshToken(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	claims, err := utils.ValidateRefreshToken(req.RefreshToken, s.jwt.Secret)
	if err != nil {
		logger.Warn("Token refresh with invalid token",
			zap.String("event", "token_refresh_failed_invalid_token"),
			zap.Error(err),
		)
		return nil, appErrors.ErrInvalidToken
	}

	stored, err := s.refreshTokenRepo.GetByToken(ctx, req.RefreshToken)
	if err != nil || stored.UserID != claims.UserID || !stored.IsActive(s.now()) {
		logger.Warn("Token refresh with unknown or revoked token",
			zap.String("user_id", claims.UserID.String()),
			zap.String("event", "token_refresh_failed_token_rejected"),
		)
		return nil, appErrors.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	logger.Debug("Token refreshed",
		zap.String("user_id", u.ID.String()),
		zap.String("old_token_id", stored.ID.String()),
		zap.String("event", "token_refresh_success"),
	)

	return s.issueTokens(ctx, u)
}

func (s *Service) RevokeToken(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	stored, err := s.refreshTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil || stored.UserID != userID {
		return appErrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Info("Refresh token revoked",
		zap.String("user_id", userID.String()),
		zap.String("token_id", stored.ID.String()),
		zap.String("event", "token_revoked"),
	)
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(u.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change with invalid old password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_change_failed"),
		)
		return appErrors.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}
	// Existing sessions end with the old password.
	if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		logger.Warn("Failed to revoke sessions after password change", zap.String("user_id", userID.String()), zap.Error(err))
	}

	logger.Info("Password changed",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_change_success"),
	)
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if req.PhoneNumber != nil {
		req.PhoneNumber = utils.StringPtr(utils.SanitizePhone(*req.PhoneNumber))
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		u.FullName = utils.SanitizeString(*req.FullName)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = req.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) ListUsers(ctx context.Context, req *UserFilterRequest) ([]*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	var role *domainUser.Role
	if req.Role != nil {
		r := domainUser.Role(*req.Role)
		role = &r
	}

	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}
	return responses, nil
}

// SetRole changes another account's role. Administrators cannot demote
// themselves.
func (s *Service) SetRole(ctx context.Context, actorID, userID uuid.UUID, req *SetRoleRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if actorID == userID {
		return nil, appErrors.NewAppError(appErrors.CodeForbidden, "You cannot change your own role", appErrors.ErrInsufficientPermissions)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	from := u.Role
	u.Role = domainUser.Role(req.Role)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User role changed",
		zap.String("user_id", u.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(u.Role)),
		zap.String("changed_by", actorID.String()),
		zap.String("event", "user_role_changed"),
	)
	return ToUserResponse(u), nil
}

// Deactivate disables an account and ends all of its sessions.
func (s *Service) Deactivate(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return appErrors.NewAppError(appErrors.CodeForbidden, "You cannot deactivate your own account", appErrors.ErrInsufficientPermissions)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.IsActive = false
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	logger.Info("User deactivated",
		zap.String("user_id", userID.String()),
		zap.String("deactivated_by", actorID.String()),
		zap.String("event", "user_deactivated"),
	)
	return nil
}
