package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

const actorKey = "actor"

// actorClaims are the claims of a session token issued by the identity
// service. Subject is the user id; Name is shown next to votes and
// responses.
type actorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the "Authorization: Bearer <token>" header and
// stores the acting user in the gin context. Tokens must be HS256 signed
// with secret; issuer is checked when set.
func AuthMiddleware(secret []byte, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, apperrors.New(apperrors.CodeUnauthorized, "authorization header required"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(c, apperrors.New(apperrors.CodeUnauthorized, "authorization header format must be Bearer {token}"))
			return
		}

		var claims actorClaims
		_, err := parser.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			writeError(c, apperrors.New(apperrors.CodeUnauthorized, "invalid token"))
			return
		}
		if claims.Subject == "" {
			writeError(c, apperrors.New(apperrors.CodeUnauthorized, "invalid token subject"))
			return
		}

		c.Set(actorKey, models.Actor{UserID: claims.Subject, Name: claims.Name})
		c.Next()
	}
}

// CurrentActor returns the user set by AuthMiddleware, or the zero Actor.
func CurrentActor(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(models.Actor); ok {
			return a
		}
	}
	return models.Actor{}
}

// SignActorToken issues a token AuthMiddleware accepts. The identity
// service does this in production; tests and local tooling use it here.
func SignActorToken(secret []byte, issuer string, actor models.Actor) (string, error) {
	claims := actorClaims{
		Name: actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: actor.UserID,
			Issuer:  issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
