package domain

import "context"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// CanEdit reports whether the role may use the admin panel.
func (r Role) CanEdit() bool { return r == RoleAdmin || r == RoleEditor }

type Profile struct {
	ID    string `gorm:"primaryKey;size:64"`
	Email string `gorm:"size:140;index"`
	Role  Role   `gorm:"size:20;not null"`
}

func (Profile) TableName() string { return "profiles" }

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Principal is the authenticated identity attached to an admin request.
type Principal struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && (p.UserID != "" || p.Email != "")
}

type ContactRequest struct {
	Name    string `schema:"name" validate:"required,max=120"`
	Phone   string `schema:"phone" validate:"required,max=40"`
	Message string `schema:"message" validate:"required,max=4000"`
}
