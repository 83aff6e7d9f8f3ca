package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skinlib-api/internal/application/ports"
	"skinlib-api/internal/domain/user"
)

const CtxActor = "actor"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(resolver ports.ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		resolveActor(c, resolver, authHeader)
	}
}

// OptionalAuthMiddleware lets anonymous visitors through but still rejects a
// malformed or invalid token.
func OptionalAuthMiddleware(resolver ports.ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		resolveActor(c, resolver, authHeader)
	}
}

func resolveActor(c *gin.Context, resolver ports.ActorResolver, authHeader string) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		c.AbortWithStatusJSON(
			http.StatusUnauthorized,
			gin.H{"error": "invalid token format"},
		)
		return
	}

	actor, err := resolver.ResolveActor(tokenStr)
	if err != nil {
		c.AbortWithStatusJSON(
			http.StatusUnauthorized,
			gin.H{"error": "invalid token"},
		)
		return
	}

	c.Set(CtxActor, actor)

	c.Next()
}

// Actor returns the caller resolved by one of the auth middlewares, or nil
// for an anonymous visitor.
func Actor(c *gin.Context) *user.Actor {
	v, ok := c.Get(CtxActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*user.Actor)
	return actor
}
