package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/config"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/jwt"
	"eventpass/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrStaffNotFound      = errors.New("staff user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffAlreadyExists = errors.New("staff user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrStaffInactive      = errors.New("staff account is inactive")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AuthService handles staff authentication business logic
type AuthService struct {
	staffRepo        repositories.StaffRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repositories.StaffRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		staffRepo:        staffRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateStaffInput represents the payload for creating a staff account
type CreateStaffInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Staff        *models.StaffResponse `json:"staff"`
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
}

// Login authenticates a staff user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find staff by username
	staff, err := s.staffRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if account is active
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, staff.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Generate tokens
	tokens, err := s.generateTokens(staff)
	if err != nil {
		return nil, err
	}

	// 5. Store refresh token
	if err := s.storeRefreshToken(ctx, staff.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Staff logged in: %s", staff.Username)

	return &AuthResponse{
		Staff:        staff.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Hash the token to find in DB
	tokenHash := password.HashToken(refreshToken)

	// 3. Find token in DB
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 4. Check if token is revoked
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}

	// 5. Check if token is expired
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 6. Get staff user
	staff, err := s.staffRepo.GetByID(ctx, claims.StaffID)
	if err != nil {
		return nil, ErrStaffNotFound
	}

	// 7. Check if account is active
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}

	// 8. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	// 9. Generate new tokens
	tokens, err := s.generateTokens(staff)
	if err != nil {
		return nil, err
	}

	// 10. Store new refresh token
	if err := s.storeRefreshToken(ctx, staff.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for staff: %s", staff.Username)

	return &AuthResponse{
		Staff:        staff.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)

	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}

	log.Printf("✅ Staff logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a staff user
func (s *AuthService) LogoutAll(ctx context.Context, staffID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByStaffID(ctx, staffID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for staff ID: %d", staffID)
	return nil
}

// CreateStaff creates a staff account (admin operation)
func (s *AuthService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*models.StaffResponse, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	role := strings.ToUpper(strings.TrimSpace(input.Role))

	if role != string(domain.RoleAdmin) && role != string(domain.RoleVolunteer) {
		return nil, domain.NewValidationError("role", "must be ADMIN or VOLUNTEER")
	}
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.staffRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStaffAlreadyExists
	}

	exists, err = s.staffRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStaffAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	staff := &models.StaffUser{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStaffAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ Staff created: %s (%s)", staff.Username, staff.Role)
	return staff.ToResponse(), nil
}

// ListStaff lists all staff accounts
func (s *AuthService) ListStaff(ctx context.Context) ([]*models.StaffResponse, error) {
	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*models.StaffResponse, 0, len(staff))
	for _, u := range staff {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetStaffByID gets a staff user by ID
func (s *AuthService) GetStaffByID(ctx context.Context, staffID uint) (*models.StaffUser, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

// PurgeExpiredTokens hard deletes refresh tokens past expiry
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) error {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(staff *models.StaffUser) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		staff.ID,
		staff.Username,
		staff.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		staff.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, staffID uint, refreshToken string) error {
	token := &models.RefreshToken{
		StaffID:   staffID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
