package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	sender   mailer.Sender
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	sender mailer.Sender,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sender:   sender,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

// Signup registers a new account, or re-issues a code when the same
// username and email pair signs up again.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	byName, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	byEmail, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}

	var user *entity.User
	switch {
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		user = byName
	case byName != nil:
		return nil, newValidationError("username", "A user with this username is already registered with another email")
	case byEmail != nil:
		return nil, newValidationError("email", "This email is already used by another user")
	default:
		user = &entity.User{
			Base:     entity.NewBase(),
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if isDuplicate(err) {
				field := duplicateField(err, "username")
				return nil, newValidationError(field, "Already taken")
			}
			s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.log.Info("User signed up", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	}

	if err := s.issueCode(ctx, user); err != nil {
		return nil, err
	}

	return &response.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// issueCode replaces any previous code; only its hash is stored.
func (s *authService) issueCode(ctx context.Context, user *entity.User) error {
	code, err := utils.GenerateConfirmationCode(s.config.Code.Length)
	if err != nil {
		return fmt.Errorf("generate confirmation code: %w", err)
	}

	hash, err := utils.HashCode(code)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}

	expiresAt := s.now().Add(time.Duration(s.config.Code.TTLHours) * time.Hour)
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}

	if err := s.sender.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		return fmt.Errorf("deliver confirmation code: %w", err)
	}

	return nil
}

func (s *authService) ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user %s", req.Username)
	}

	if !s.codeMatches(user, req.ConfirmationCode) {
		s.log.Warn("Invalid confirmation code", zap.String("username", req.Username))
		return nil, newValidationError("confirmation_code", "Invalid confirmation code")
	}

	ttl := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Username, s.config.JWT.Secret, ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// Codes are single use.
	if err := s.userRepo.ClearConfirmationCode(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("consume confirmation code: %w", err)
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
	return &response.TokenResponse{Token: token}, nil
}

func (s *authService) codeMatches(user *entity.User, code string) bool {
	if user.ConfirmationCode == nil || *user.ConfirmationCode == "" {
		return false
	}
	if user.CodeExpiresAt != nil && s.now().After(*user.CodeExpiresAt) {
		return false
	}
	return utils.CheckCodeHash(code, *user.ConfirmationCode)
}
