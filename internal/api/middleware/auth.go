package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "token"

// Session rejects requests without a valid session cookie signed with secret
// and exposes the user id and username through the request context.
func Session(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr, err := r.Cookie(SessionCookie)
			if err != nil {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token, err := jwt.Parse(tokenStr.Value, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, ok := claims["userId"].(string)
			if !ok || userID == "" {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			username, _ := claims["username"].(string)

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the identity stored by Session.
func UserFromContext(ctx context.Context) (id, username string, ok bool) {
	id, ok = ctx.Value(UserIDKey).(string)
	username, _ = ctx.Value(UsernameKey).(string)
	return id, username, ok && id != ""
}
