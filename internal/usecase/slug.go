package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const maxSlugAttempts = 1000

type slugChecker func(ctx context.Context, slug string, excludeID uint) (bool, error)

// uniqueSlug appends -1, -2, ... to base until no other row owns it.
func uniqueSlug(ctx context.Context, exists slugChecker, base string, excludeID uint) (string, error) {
	slug := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: slug %q", domain.ErrConflict, base)
}

// timestampSlug appends the current unix millis when base is taken.
func timestampSlug(ctx context.Context, exists slugChecker, base string, excludeID uint, now time.Time) (string, error) {
	taken, err := exists(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10), nil
}
