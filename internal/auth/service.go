package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	// GetByEmail and GetByID return internal.ErrUserNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	// Create returns internal.ErrUserExists on a duplicate e-mail.
	Create(ctx context.Context, u *user.User) error
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		now:                time.Now,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Info("login for unknown email")
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to load user for login", "error", err)
		return nil, internal.NewStorageError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Info("login with wrong password", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActiveUser() {
		return nil, internal.ErrUserInactive
	}

	tokens, err := s.issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResponse{
		AuthTokens: tokens,
		User:       LoginUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)},
	}, nil
}

// Register creates an account. Only an Admin caller may assign a role other than Employee.
func (s *Service) Register(ctx context.Context, actor internal.Identity, dto RegisterDTO) (*user.User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	role := internal.RoleEmployee
	if dto.Role != "" {
		role = internal.Role(dto.Role)
	}
	if role != internal.RoleEmployee && actor.Role != internal.RoleAdmin {
		s.logger.Warn("privileged registration denied", "actor_id", actor.ID, "requested_role", role)
		return nil, internal.ErrForbiddenRole
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         role,
		Department:   dto.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrUserExists) {
			return nil, internal.ErrUserExists
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.active(ctx, claims.Identity().ID)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(u.ID, u.Role)
}

// Resolve turns an access token into the caller's identity. The role is read
// from the user row so that role changes apply without waiting for expiry.
func (s *Service) Resolve(ctx context.Context, token string) (internal.Identity, error) {
	if token == "" {
		return internal.Identity{}, internal.ErrMissingToken
	}
	claims, err := s.tokenGenerator.ValidateAccessToken(token)
	if err != nil {
		return internal.Identity{}, err
	}
	subject := claims.Identity()
	if subject.ID == "" {
		return internal.Identity{}, internal.ErrMissingIdentity
	}

	u, err := s.active(ctx, subject.ID)
	if err != nil {
		return internal.Identity{}, err
	}
	if !u.Role.Valid() {
		s.logger.Warn("user has an unknown role", "user_id", u.ID, "role", u.Role)
		return internal.Identity{}, internal.ErrMissingIdentity
	}
	return u.Identity(), nil
}

func (s *Service) active(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrMissingIdentity
		}
		s.logger.Error("failed to load user", "user_id", userID, "error", err)
		return nil, internal.NewStorageError(err)
	}
	if !u.IsActiveUser() {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(userID string, role internal.Role) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	var expiresIn int64
	if g, ok := s.tokenGenerator.(*JWTTokenGenerator); ok {
		expiresIn = int64(g.AccessTokenTTL.Seconds())
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID string, role internal.Role) (string, error) {
	return j.sign(userID, role, TokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID string, role internal.Role) (string, error) {
	return j.sign(userID, role, TokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(userID string, role internal.Role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := j.clock()
	claims := &Claims{
		UserID:    userID,
		Role:      string(role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(j.clock))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTTokenGenerator) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

// WithClock replaces the generator's time source.
func (j *JWTTokenGenerator) WithClock(now func() time.Time) *JWTTokenGenerator {
	j.now = now
	return j
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
