package usecase

import (
	"context"
	"errors"

	"github.com/arazdetector/mdbaku/internal/domain"
)

// Guard authorizes admin operations against the profiles table.
type Guard struct {
	Profiles domain.ProfileRepo
}

// Require returns the caller's profile when it may edit content.
func (g *Guard) Require(ctx context.Context) (*domain.Profile, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	var (
		prof *domain.Profile
		err  error
	)
	if p.UserID != "" && p.Provider != domain.ProviderGoogle {
		prof, err = g.Profiles.FindByID(ctx, p.UserID)
	} else {
		prof, err = g.Profiles.FindByEmail(ctx, p.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !prof.Role.CanEdit() {
		return nil, domain.ErrForbidden
	}
	return prof, nil
}
