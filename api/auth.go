package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

type contextKey int

const voterIDKey contextKey = iota

// SignVoterToken builds a bearer token for the given voter identifier. The
// token is the base64url voter ID followed by a base64url HMAC-SHA256 tag
// over the raw identifier, joined by a dot. It is issued out of band by the
// identity layer and verified here on every voter request.
func SignVoterToken(secret, voterID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(voterID))
	return base64.RawURLEncoding.EncodeToString([]byte(voterID)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verifyVoterToken checks the token signature and returns the voter ID.
func verifyVoterToken(secret, token string) (string, bool) {
	idPart, tagPart, found := strings.Cut(token, ".")
	if !found {
		return "", false
	}
	id, err := base64.RawURLEncoding.DecodeString(idPart)
	if err != nil || len(id) == 0 {
		return "", false
	}
	tag, err := base64.RawURLEncoding.DecodeString(tagPart)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(id)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return "", false
	}
	return string(id), true
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(auth, "Bearer "); found {
		return token
	}
	return ""
}

// voterAuth authenticates voter requests and injects the voter ID into the
// request context.
func (a *API) voterAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		voterID, ok := verifyVoterToken(a.tokenSecret, bearerToken(r))
		if !ok {
			ErrUnauthorized.Write(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), voterIDKey, voterID)))
	})
}

// adminAuth authenticates administrator requests against the static token.
func (a *API) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			ErrUnauthorized.With("administrator token required").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestVoterID returns the authenticated voter identifier stored by
// voterAuth.
func requestVoterID(r *http.Request) string {
	id, _ := r.Context().Value(voterIDKey).(string)
	return id
}
