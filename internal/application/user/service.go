package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/infrastructure/google"
	"github.com/townhub-api/internal/pkg/id"
	"github.com/townhub-api/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	// GoogleLogin verifies an externally issued Google ID token and signs
	// the matching local user in, creating the account on first contact.
	GoogleLogin(ctx context.Context, req domain.GoogleLoginRequest) (*domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, role string) (string, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	repo   userStore
	tokens tokenSigner
	google googleVerifier
	townID string
}

type ServiceDeps struct {
	Repo   userStore
	Tokens tokenSigner
	Google googleVerifier
	TownID string
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, tokens: deps.Tokens, google: deps.Google, townID: deps.TownID}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		AuthProvider: "local",
		TownID:       s.townID,
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}
	if u.Enable == 0 {
		return nil, "", domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.tokens.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) GoogleLogin(ctx context.Context, req domain.GoogleLoginRequest) (*domain.User, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	payload, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.GetByGoogleSub(ctx, payload.Sub)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.createFromGoogle(ctx, payload)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}
	if u.Enable == 0 {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.tokens.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) createFromGoogle(ctx context.Context, payload *google.Payload) (*domain.User, error) {
	// A local account with the same verified email is linked rather than
	// duplicated.
	if payload.EmailVerified {
		if existing, err := s.repo.GetByEmail(ctx, payload.Email); err == nil {
			existing.GoogleSub = payload.Sub
			if err := s.repo.Put(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        payload.Email,
		DisplayName:  payload.Name,
		Role:         domain.RoleUser,
		AuthProvider: "google",
		GoogleSub:    payload.Sub,
		TownID:       s.townID,
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
