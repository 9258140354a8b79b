package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"backoffice-gateway/internal/model"
	"backoffice-gateway/internal/session"
)

const (
	clientTokenIssuer = "backoffice-gateway"
	clientKeyInfo     = "backoffice-gateway client cookie v1"
)

type namespaceKey struct{}

// ClientIdentity issues and verifies the signed cookie that names a
// browser's state namespace.
type ClientIdentity struct {
	cookieName string
	ttl        time.Duration
	secure     bool
	key        []byte
	sessions   *session.Manager
	now        func() time.Time
}

func NewClientIdentity(secret string, cookieName string, ttl time.Duration, secure bool, sessions *session.Manager) (*ClientIdentity, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 characters")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(clientKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive client cookie key: %w", err)
	}

	return &ClientIdentity{
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		key:        key,
		sessions:   sessions,
		now:        time.Now,
	}, nil
}

// Issue signs a token for namespace.
func (c *ClientIdentity) Issue(namespace string) (string, time.Time, error) {
	now := c.now()
	expires := now.Add(c.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    clientTokenIssuer,
		Subject:   namespace,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign client token: %w", err)
	}
	return signed, expires, nil
}

// Verify returns the namespace and expiry carried by a valid token.
func (c *ClientIdentity) Verify(raw string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", model.ErrInvalidClientToken, err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: subject is not a uuid", model.ErrInvalidClientToken)
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}

// Handler resolves the namespace for every request and binds the client's
// session service to the request context. A missing, forged or expired
// cookie starts a fresh namespace. The cookie is renewed once half its
// lifetime has passed.
func (c *ClientIdentity) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		namespace, renew := c.resolve(r)

		if renew {
			if err := c.setCookie(w, namespace); err != nil {
				slog.Error("failed to issue client cookie", "request_id", RequestIDFromContext(r.Context()), "error", err)
				writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
				return
			}
		}

		ctx := context.WithValue(r.Context(), namespaceKey{}, namespace)
		ctx = session.WithService(ctx, c.sessions.For(namespace))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *ClientIdentity) resolve(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return uuid.NewString(), true
	}

	namespace, expires, err := c.Verify(cookie.Value)
	if err != nil {
		slog.Debug("client cookie rejected", "error", err)
		return uuid.NewString(), true
	}

	return namespace, expires.Sub(c.now()) < c.ttl/2
}

func (c *ClientIdentity) setCookie(w http.ResponseWriter, namespace string) error {
	token, expires, err := c.Issue(namespace)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(c.ttl.Seconds()),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func NamespaceFromContext(ctx context.Context) (string, bool) {
	namespace, ok := ctx.Value(namespaceKey{}).(string)
	return namespace, ok
}
