package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MartellOnell/testwork/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "actor"

// IdentityClaims is the token payload minted by the external auth service.
type IdentityClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	CanAuthor bool   `json:"can_author"`
	jwt.RegisteredClaims
}

// Identity validates the bearer token and puts the resulting Actor into the
// gin context. Token issuance and refresh live in the external auth service;
// this middleware only consumes identities.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims := &IdentityClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(actorContextKey, model.Actor{
			ID:        claims.UserID,
			Username:  claims.Username,
			CanAuthor: claims.CanAuthor,
		})
		c.Next()
	}
}

// ActorFromContext retrieves the Actor set by Identity.
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return model.Actor{}, false
	}
	actor, ok := value.(model.Actor)
	return actor, ok
}
