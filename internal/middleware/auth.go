package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ActorHeader lets scripted clients name themselves without a session token
const ActorHeader = "X-Actor"

const actorKey = "actor"

// Claims represents the session token claims issued at login
type Claims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}

// Identity resolves who is making the request from a Bearer session token or
// the X-Actor header and stores it on the gin context. Requests without
// either pass through anonymously; a bad token is rejected.
func Identity(sessionSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ""

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid authorization header format",
				})
				return
			}

			claims, err := validateToken(parts[1], sessionSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": err.Error(),
				})
				return
			}
			actor = claims.Actor
		} else {
			actor = strings.TrimSpace(c.GetHeader(ActorHeader))
		}

		if actor != "" {
			c.Set(actorKey, actor)
		}

		c.Next()
	}
}

// RequireActor rejects requests that did not identify themselves. Every
// mutation is audited under a name, so writes need one.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "sign in first: send a session token or the " + ActorHeader + " header",
			})
			return
		}
		c.Next()
	}
}

// validateToken parses and validates a session token string
func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Actor == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// GetActor extracts the actor identity from the Gin context
func GetActor(c *gin.Context) string {
	actor, exists := c.Get(actorKey)
	if !exists {
		return ""
	}
	return actor.(string)
}
