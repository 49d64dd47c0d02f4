package handlers

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

type principalKey struct{}

// WithPrincipal кладет аутентифицированного пользователя в контекст
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext достает пользователя, положенного middleware аутентификации
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
