package device

import (
	"context"
	"fmt"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/id"
	"github.com/townhub-api/internal/pkg/validate"
)

type Service interface {
	// Register exchanges a raw push token for a platform endpoint and
	// stores the device under the user. Re-registering the same token
	// refreshes the existing row instead of adding a second one.
	Register(ctx context.Context, userID string, req domain.RegisterDeviceRequest) (*domain.Device, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
	Remove(ctx context.Context, deviceID, actorID string) error
}

type deviceStore interface {
	Put(ctx context.Context, d *domain.Device) error
	Get(ctx context.Context, deviceID string) (*domain.Device, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
	Delete(ctx context.Context, deviceID string) error
}

type endpointRegistrar interface {
	RegisterEndpoint(ctx context.Context, token string) (string, error)
}

type service struct {
	repo deviceStore
	push endpointRegistrar
}

type ServiceDeps struct {
	Repo deviceStore
	Push endpointRegistrar
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, push: deps.Push}
}

func (s *service) Register(ctx context.Context, userID string, req domain.RegisterDeviceRequest) (*domain.Device, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Token == req.Token {
			existing[i].Enable = true
			existing[i].UpdatedAt = time.Now().UTC()
			if err := s.repo.Put(ctx, &existing[i]); err != nil {
				return nil, err
			}
			return &existing[i], nil
		}
	}

	arn, err := s.push.RegisterEndpoint(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Device{
		DeviceID:    id.New(),
		UserID:      userID,
		Token:       req.Token,
		EndpointARN: arn,
		Platform:    req.Platform,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Device, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Remove(ctx context.Context, deviceID, actorID string) error {
	d, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		return err
	}
	if d.UserID != actorID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, deviceID)
}
