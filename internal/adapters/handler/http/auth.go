package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const accessTokenCookie = "access_token"

// Authenticate reads an optional HS256 token from the access_token cookie or
// the Authorization header. A valid token puts its subject in the request
// context under UserIDKey; requests without a token pass through untouched.
func Authenticate(secret []byte, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				writeErrorMessage(w, log, http.StatusUnauthorized, err.Error())
				return
			}
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseSubject(tokenStr, secret)
			if err != nil {
				log.WithError(err).Debug("rejected access token")
				writeErrorMessage(w, log, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}

func parseSubject(tokenStr string, secret []byte) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

// requestUser returns the authenticated user id when there is one, else
// fallback.
func requestUser(r *http.Request, fallback uuid.UUID) uuid.UUID {
	if id, ok := r.Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return fallback
}

// optionalUser resolves the requesting user from the token or the user_id
// query parameter. A nil result means no user is known.
func optionalUser(r *http.Request) (*uuid.UUID, error) {
	if id, ok := r.Context().Value(UserIDKey).(uuid.UUID); ok {
		return &id, nil
	}
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
