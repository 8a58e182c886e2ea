package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arazdetector/mdbaku/internal/domain"
)

func TestGuardRequire(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"no principal", context.Background(), domain.ErrUnauthorized},
		{"viewer role", domain.WithPrincipal(context.Background(), domain.Principal{UserID: "viewer-1"}), domain.ErrForbidden},
		{"unknown user", domain.WithPrincipal(context.Background(), domain.Principal{UserID: "ghost"}), domain.ErrForbidden},
		{"admin by id", adminCtx(), nil},
		{"google admin by email", domain.WithPrincipal(context.Background(), domain.Principal{UserID: "g-123", Email: "ADMIN@mdbaku.az", Provider: domain.ProviderGoogle}), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.guard.Require(tc.ctx)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAdminOperationsRequireGuard(t *testing.T) {
	e := newEnv(t)
	uc := e.productUC()
	if _, err := uc.Create(context.Background(), domain.ProductInput{TitleRU: "X"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("create without principal: %v", err)
	}
	n, _ := e.products.Count(context.Background())
	if n != 0 {
		t.Fatalf("product written without auth")
	}
}
