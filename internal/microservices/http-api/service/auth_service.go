package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"reviewhub/internal/microservices/http-api/auth"
	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
)

const tokenTypeBearer = "bearer"

// TokenService is the part of auth.TokenService the authenticator needs.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	// Authenticate checks a username/password pair. Unknown users and wrong
	// passwords fail the same way.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*dto.TokenResponse, error)
	// Resolve turns a bearer token into the current state of its user.
	Resolve(ctx context.Context, token string) (*authz.Principal, error)
	UpdateProfile(ctx context.Context, p *authz.Principal, req dto.UpdateUserRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, p *authz.Principal) error
	// EnsureAdmin creates the admin account if missing, or promotes an existing user.
	EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

type authService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	hasher    auth.PasswordHasher
	tokens    TokenService
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	hasher auth.PasswordHasher,
	tokens TokenService,
	log zerolog.Logger,
) (AuthService, error) {
	// compared against on unknown usernames so both failure paths cost one hash
	dummy, err := hasher.Hash("reviewhub-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &authService{
		users:     users,
		roles:     roles,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		log:       log.With().Str("component", "auth").Logger(),
	}, nil
}

// Register: registers a new user with the default role.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		RoleID:         models.RoleUserID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserConflict(err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login: authenticates a user and returns a bearer token for them.
func (s *authService) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(user.Username, s.tokens.TTL())
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*authz.Principal, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	// re-read so renamed or deleted users lose access immediately
	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("resolve role %d: %w", user.RoleID, err)
	}
	return &authz.Principal{User: user, RoleName: role.Name}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, p *authz.Principal, req dto.UpdateUserRequest) (*models.User, error) {
	if err := authz.Authenticated(p); err != nil {
		return nil, err
	}
	if req.Username.Set {
		if err := notNull("username", req.Username.Null); err != nil {
			return nil, err
		}
		if err := validateUsername(req.Username.Value); err != nil {
			return nil, err
		}
	}
	if req.Email.Set {
		if err := notNull("email", req.Email.Null); err != nil {
			return nil, err
		}
		if err := validateEmail(req.Email.Value); err != nil {
			return nil, err
		}
	}

	// hash outside the transaction, it is the slow part
	var hashed string
	if req.Password.Set {
		if err := notNull("password", req.Password.Null); err != nil {
			return nil, err
		}
		if err := validatePassword(req.Password.Value); err != nil {
			return nil, err
		}
		h, err := s.hasher.Hash(req.Password.Value)
		if err != nil {
			return nil, err
		}
		hashed = h
	}

	user, err := s.users.Update(ctx, p.UserID(), func(u *models.User) error {
		if req.Username.Set {
			u.Username = req.Username.Value
		}
		if req.Email.Set {
			u.Email = req.Email.Value
		}
		if hashed != "" {
			u.HashedPassword = hashed
		}
		return nil
	})
	if err != nil {
		return nil, mapUserConflict(mapNotFound(err, "user not found"))
	}
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, p *authz.Principal) error {
	if err := authz.Authenticated(p); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, p.UserID()); err != nil {
		return mapNotFound(err, "user not found")
	}
	s.log.Info().Int64("user_id", p.UserID()).Msg("user deleted")
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.RoleID == models.RoleAdminID {
			return existing, nil
		}
		promoted, err := s.users.Update(ctx, existing.ID, func(u *models.User) error {
			u.RoleID = models.RoleAdminID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		s.log.Info().Str("username", username).Msg("existing user promoted to admin")
		return promoted, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		RoleID:         models.RoleAdminID,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, mapUserConflict(err)
	}
	s.log.Info().Str("username", username).Msg("admin account created")
	return admin, nil
}
