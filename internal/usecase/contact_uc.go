package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arazdetector/mdbaku/internal/domain"
)

var ErrNoNotifier = errors.New("contact delivery is not configured")

// ContactUC forwards contact-form requests: Primary first, Fallback when it fails.
type ContactUC struct {
	Primary  domain.Notifier
	Fallback domain.Notifier
}

func (uc *ContactUC) Submit(ctx context.Context, req domain.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if err := check(req); err != nil {
		return err
	}
	if uc.Primary == nil && uc.Fallback == nil {
		return ErrNoNotifier
	}
	var err error
	if uc.Primary != nil {
		if err = uc.Primary.NotifyContact(ctx, req); err == nil {
			return nil
		}
		log.Warn().Err(err).Msg("contact notify failed")
	}
	if uc.Fallback != nil {
		if ferr := uc.Fallback.NotifyContact(ctx, req); ferr != nil {
			log.Error().Err(ferr).Msg("contact fallback notify failed")
			return errors.Join(err, ferr)
		}
		return nil
	}
	return err
}
