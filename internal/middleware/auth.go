package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"GreenCampus.dumpsterSync/internal/models"
	"GreenCampus.dumpsterSync/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// ClaimsKey holds the validated token claims in the request context.
const ClaimsKey contextKey = "claims"

// ValidateJWT validates an HMAC signed token and returns its claims.
func ValidateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireJWT rejects requests without a valid bearer token. An empty secret
// disables the check.
func RequireJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Println("JWT authentication failed: Authorization header missing")
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Authorization header missing", nil, http.StatusUnauthorized))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				log.Println("JWT authentication failed: Invalid token format")
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Invalid token format", nil, http.StatusUnauthorized))
				return
			}

			claims, err := ValidateJWT(tokenString, []byte(secret))
			if err != nil {
				log.Println("JWT authentication failed:", err)
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Invalid token", nil, http.StatusUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
