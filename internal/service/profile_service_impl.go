package service

import (
	"context"

	"github.com/ebrandel/tempo/internal/domain"
	"github.com/ebrandel/tempo/internal/repository"
)

type profileService struct {
	profiles repository.UserProfileRepo
}

func NewProfileService(profiles repository.UserProfileRepo) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx)
}

func (s *profileService) Update(ctx context.Context, p *domain.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.profiles.Upsert(ctx, p)
}
