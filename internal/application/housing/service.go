package housing

import (
	"context"
	"fmt"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/id"
	"github.com/townhub-api/internal/pkg/validate"
)

// DefaultDurationDays is how long a listing stays active when the
// submission does not choose a duration.
const DefaultDurationDays = 30

type Service interface {
	Create(ctx context.Context, ownerID string, input domain.HousingInput) (*domain.HousingListing, error)
	ListActive(ctx context.Context) ([]domain.HousingListing, error)
	Get(ctx context.Context, listingID string) (*domain.HousingListing, error)
	Update(ctx context.Context, listingID, actorID, actorRole string, input domain.HousingInput) (*domain.HousingListing, error)
	Deactivate(ctx context.Context, listingID, actorID, actorRole string) error
}

type listingStore interface {
	Put(ctx context.Context, l *domain.HousingListing) error
	Get(ctx context.Context, listingID string) (*domain.HousingListing, error)
	ListActive(ctx context.Context) ([]domain.HousingListing, error)
	Update(ctx context.Context, listingID string, updates map[string]interface{}) error
	Deactivate(ctx context.Context, listingID string) error
}

type service struct {
	repo   listingStore
	townID string
	now    func() time.Time
}

type ServiceDeps struct {
	Repo   listingStore
	TownID string
	Now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.Repo, townID: deps.TownID, now: now}
}

func (s *service) Create(ctx context.Context, ownerID string, input domain.HousingInput) (*domain.HousingListing, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	days := input.DurationDays
	if days == 0 {
		days = DefaultDurationDays
	}

	now := s.now().UTC()
	l := &domain.HousingListing{
		ListingID:     id.New(),
		Title:         input.Title,
		Description:   input.Description,
		Price:         input.Price,
		Address:       input.Address,
		ContactInfo:   input.ContactInfo,
		ImageKey:      input.ImageKey,
		OwnerID:       ownerID,
		TownID:        s.townID,
		IsActive:      true,
		PaymentStatus: domain.PaymentStatusPaid,
		ExpiresAt:     now.AddDate(0, 0, days),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ListActive(ctx context.Context) ([]domain.HousingListing, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Get(ctx context.Context, listingID string) (*domain.HousingListing, error) {
	return s.repo.Get(ctx, listingID)
}

func (s *service) Update(ctx context.Context, listingID, actorID, actorRole string, input domain.HousingInput) (*domain.HousingListing, error) {
	l, err := s.authorize(ctx, listingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	updates := map[string]interface{}{
		"title":        input.Title,
		"description":  input.Description,
		"price":        input.Price,
		"address":      input.Address,
		"contact_info": input.ContactInfo,
	}
	if input.ImageKey != "" {
		updates["image_key"] = input.ImageKey
	}
	if err := s.repo.Update(ctx, listingID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, l.ListingID)
}

func (s *service) Deactivate(ctx context.Context, listingID, actorID, actorRole string) error {
	if _, err := s.authorize(ctx, listingID, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, listingID)
}

// authorize loads the listing and checks the actor owns it or is an admin.
func (s *service) authorize(ctx context.Context, listingID, actorID, actorRole string) (*domain.HousingListing, error) {
	l, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actorID && actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return l, nil
}
