package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"safri360/internal/dispatch-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap verifies the bearer token and restricts the route to the given roles.
// The verified uid is handed downstream through the X-UserId header.
func (am *AuthMiddleware) Wrap(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("empty bearer token"))
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(am.accessSecret), nil
		})
		if err != nil || !token.Valid {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid bearer token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid claims"))
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("user id not found in token"))
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("role not found in token"))
			return
		}

		if len(roles) > 0 && !contains(roles, role) {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("role %s is not allowed on this route", role))
			return
		}

		r.Header.Set(handle.UserIDHeader, userID)
		r.Header.Set("X-Role", role)

		next.ServeHTTP(w, r)
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
