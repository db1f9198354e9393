package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/password"
	"investing-backend/pkg/session"
)

const minPasswordLength = 6

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// SessionIssuer issues and verifies session tokens.
type SessionIssuer interface {
	Issue(userID uint) (string, time.Time, error)
	Verify(token string) (*session.Claims, error)
}

// AuthService orchestrates signup, login and identity checks.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	Identity(ctx context.Context, token string) (*dto.UserResponse, error)
	Authenticate(token string) (uint, error)
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, issuer SessionIssuer, logger *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		logger:   logger,
	}
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   SessionIssuer
	logger   *logger.Logger
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, plain string) error {
	if email == "" || plain == "" {
		return apperror.New(apperror.KindValidation, "Email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.New(apperror.KindValidation, "Invalid email address")
	}
	return nil
}

// Signup creates an account and issues a session for it.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.New(apperror.KindValidation, "Password must be at least 6 characters")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.KindAlreadyExists, "User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Failed to look up user by email", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Mobile:       strings.TrimSpace(req.Mobile),
		Address:      strings.TrimSpace(req.Address),
		DateOfBirth:  strings.TrimSpace(req.DateOfBirth),
		RiskProfile:  entity.RiskProfileModerate,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent signup can pass the pre-check; the unique index decides
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.New(apperror.KindAlreadyExists, "User already exists")
		}
		s.logger.ErrorContext(ctx, "Failed to create user", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	s.logger.InfoContext(ctx, "User registered", logger.Field("user_id", user.ID))
	return s.issue(ctx, user)
}

// Login verifies the credentials and issues a session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "User not found")
		}
		s.logger.ErrorContext(ctx, "Failed to look up user by email", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.ErrorContext(ctx, "Failed to compare password hash", logger.ErrorField(err), logger.Field("user_id", user.ID))
		}
		return nil, apperror.New(apperror.KindInvalidCredentials, "Invalid credentials")
	}

	return s.issue(ctx, user)
}

// Authenticate resolves a session token to a user id without touching the store.
func (s *authService) Authenticate(token string) (uint, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return 0, apperror.New(apperror.KindUnauthenticated, "Not authenticated")
	}
	return claims.UserID, nil
}

// Identity returns the profile of the user owning token.
func (s *authService) Identity(ctx context.Context, token string) (*dto.UserResponse, error) {
	userID, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to load user for session", logger.ErrorField(err), logger.Field("user_id", userID))
		}
		return nil, apperror.New(apperror.KindUnauthenticated, "Not authenticated")
	}
	view := toUserResponse(user)
	return &view, nil
}

// UpdateProfile edits the profile fields of a user.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindUnauthenticated, "Not authenticated")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		user.Mobile = strings.TrimSpace(*req.Mobile)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = strings.TrimSpace(*req.DateOfBirth)
	}
	if req.RiskProfile != nil {
		risk := entity.RiskProfile(strings.ToLower(strings.TrimSpace(*req.RiskProfile)))
		if !risk.Valid() {
			return nil, apperror.New(apperror.KindValidation, "Risk profile must be one of low, moderate, high")
		}
		user.RiskProfile = risk
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user profile", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}

	view := toUserResponse(user)
	return &view, nil
}

func (s *authService) issue(ctx context.Context, user *entity.User) (*dto.AuthResult, error) {
	token, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue session token", logger.ErrorField(err), logger.Field("user_id", user.ID))
		return nil, apperror.Wrap(apperror.KindInternal, "Server error", err)
	}
	return &dto.AuthResult{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Mobile:           user.Mobile,
		Address:          user.Address,
		DateOfBirth:      user.DateOfBirth,
		PANVerified:      user.PANVerified,
		DigilockerLinked: user.DigilockerLinked,
		KYCVerified:      user.KYCVerified,
		RiskProfile:      string(user.RiskProfile),
		CreatedAt:        user.CreatedAt,
	}
}
