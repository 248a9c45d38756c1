// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// UserContext contains the acting user's identity and capabilities.
type UserContext struct {
	Username    string
	Role        string
	Permissions []string
	IsAdmin     bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// Actor returns the acting username from context or "system" when absent.
// Ledger entries and letter records require a non-empty actor.
func Actor(ctx context.Context) string {
	if u := GetUser(ctx); u != nil && u.Username != "" {
		return u.Username
	}
	return "system"
}

// HasCapability checks a single "<feature>.<action>" capability key.
// Admins pass every check.
func HasCapability(ctx context.Context, capability string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}
