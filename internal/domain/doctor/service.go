package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docbook/docbook/internal/platform/validation"
)

// SpecializationCache holds the public specialization list between doctor
// writes. Implementations must treat a miss as (nil, false, nil).
type SpecializationCache interface {
	GetSpecializations(ctx context.Context) ([]string, bool, error)
	SetSpecializations(ctx context.Context, specs []string) error
	InvalidateSpecializations(ctx context.Context) error
}

type nopCache struct{}

func (nopCache) GetSpecializations(context.Context) ([]string, bool, error) { return nil, false, nil }
func (nopCache) SetSpecializations(context.Context, []string) error         { return nil }
func (nopCache) InvalidateSpecializations(context.Context) error            { return nil }

type Service struct {
	repo   Repository
	cache  SpecializationCache
	logger zerolog.Logger
}

// NewService builds the doctor registry. A nil cache disables caching.
func NewService(repo Repository, cache SpecializationCache, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// -- Public reads --

func (s *Service) ListActive(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	active := true
	return s.repo.List(ctx, ListFilter{Active: &active, Specialization: specialization}, limit, offset)
}

// GetActive returns the doctor only if it is active; inactive doctors are
// reported as ErrNotFound.
func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	if specs, ok, err := s.cache.GetSpecializations(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("specialization cache read failed")
	} else if ok {
		return specs, nil
	}

	specs, err := s.repo.Specializations(ctx)
	if err != nil {
		return nil, err
	}
	if specs == nil {
		specs = []string{}
	}
	if err := s.cache.SetSpecializations(ctx, specs); err != nil {
		s.logger.Warn().Err(err).Msg("specialization cache write failed")
	}
	return specs, nil
}

// -- Admin --

// Get returns the doctor regardless of its active flag.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	d := &Doctor{
		Name:              in.Name,
		Specialization:    in.Specialization,
		Bio:               in.Bio,
		YearsOfExperience: in.YearsOfExperience,
		ConsultationModes: append([]string(nil), in.ConsultationModes...),
		IsActive:          true,
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info().Str("doctor_id", d.ID.String()).Msg("doctor created")
	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Doctor, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(d)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	s.invalidate(ctx)
	return d, nil
}

// Deactivate soft-deletes the doctor. Existing appointments are left as they are.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return d, nil
	}
	d.IsActive = false
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("deactivate doctor: %w", err)
	}
	s.invalidate(ctx)
	s.logger.Info().Str("doctor_id", d.ID.String()).Msg("doctor deactivated")
	return d, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateSpecializations(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("specialization cache invalidation failed")
	}
}
