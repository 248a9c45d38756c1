package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/apperror"
)

// ActorClaims are the JWT claims carrying the acting user's identity and
// capability keys ("<feature>.<action>").
type ActorClaims struct {
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// TokenParser validates bearer tokens into a UserContext.
type TokenParser struct {
	secret []byte
}

// NewTokenParser creates a parser for HMAC-signed tokens.
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret)}
}

// Parse validates the token string and extracts the actor.
func (p *TokenParser) Parse(tokenString string) (*appctx.UserContext, error) {
	claims := &ActorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return &appctx.UserContext{
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Capabilities,
		IsAdmin:     claims.Role == "admin",
	}, nil
}

// Actor middleware validates the bearer token and populates the acting
// user context. Requests without a valid token are rejected; every
// back-office route requires a known actor.
func Actor(parser *TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := parser.Parse(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("actor", user.Username)
		c.Set("permissions", user.Permissions)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
