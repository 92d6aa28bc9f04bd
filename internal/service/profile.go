package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
	"github.com/google/uuid"
)

// ProfileStore is the profile persistence the profile service needs.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
}

// AccountStore removes a user together with everything they own.
type AccountStore interface {
	DeleteAccount(ctx context.Context, userID string) error
}

// ProfileService handles profile business logic.
type ProfileService struct {
	profiles ProfileStore
	accounts AccountStore
	now      func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore, accounts AccountStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		accounts: accounts,
		now:      time.Now,
	}
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (*model.Profile, error) {
	return s.get(ctx, userID)
}

// ByUser returns the profile of any user. Ids that are not UUIDs cannot exist and report not found.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (*model.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrProfileNotFound
	}
	return s.get(ctx, userID)
}

// List returns all profiles.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	return s.profiles.List(ctx)
}

// Upsert creates the caller's profile or updates it, keeping experience and education intact.
func (s *ProfileService) Upsert(ctx context.Context, userID string, req model.ProfileRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	p, err := s.get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		p = &model.Profile{
			ID:         uuid.NewString(),
			UserID:     userID,
			Experience: []model.Experience{},
			Education:  []model.Education{},
		}
	}

	req.ApplyTo(p)

	if err := s.profiles.Upsert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Re-read so the owner's name/avatar and stored timestamps are filled in.
	return s.get(ctx, userID)
}

// DeleteAccount removes the caller's profile and user account.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.accounts.DeleteAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// AddExperience prepends a job entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, req model.ExperienceRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	exp, err := req.ToExperience(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("parsing experience dates: %w", err)
	}

	return s.update(ctx, userID, func(p *model.Profile) error {
		p.Experience = append([]model.Experience{exp}, p.Experience...)
		return nil
	})
}

// DeleteExperience removes the job entry expID from the caller's profile.
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, expID string) (*model.Profile, error) {
	return s.update(ctx, userID, func(p *model.Profile) error {
		for i, e := range p.Experience {
			if e.ID == expID {
				p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return ErrSubRecordNotFound
	})
}

// AddEducation prepends a school entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, req model.EducationRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	edu, err := req.ToEducation(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("parsing education dates: %w", err)
	}

	return s.update(ctx, userID, func(p *model.Profile) error {
		p.Education = append([]model.Education{edu}, p.Education...)
		return nil
	})
}

// DeleteEducation removes the school entry eduID from the caller's profile.
func (s *ProfileService) DeleteEducation(ctx context.Context, userID, eduID string) (*model.Profile, error) {
	return s.update(ctx, userID, func(p *model.Profile) error {
		for i, e := range p.Education {
			if e.ID == eduID {
				p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
				return nil
			}
		}
		return ErrSubRecordNotFound
	})
}

func (s *ProfileService) get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// update loads the caller's profile, applies mutate and stores the result.
func (s *ProfileService) update(ctx context.Context, userID string, mutate func(p *model.Profile) error) (*model.Profile, error) {
	p, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := mutate(p); err != nil {
		return nil, err
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	p.UpdatedAt = s.now().UTC()

	return p, nil
}
