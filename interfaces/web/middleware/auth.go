package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"propmgmt/domain/access"
	"propmgmt/logging"
)

// Claims are the bearer token claims the API understands.
type Claims struct {
	jwt.RegisteredClaims
	UPN               string   `json:"upn,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Name              string   `json:"name,omitempty"`
	Groups            []string `json:"groups,omitempty"`
	Permissions       []string `json:"permissions,omitempty"`
}

// Caller converts the claims into an unresolved caller.
func (c *Claims) Caller() access.Caller {
	upn := c.UPN
	if upn == "" {
		upn = c.PreferredUsername
	}
	if upn == "" {
		upn = c.Subject
	}
	return access.Caller{
		UserPrincipalName: upn,
		DisplayName:       c.Name,
		Groups:            c.Groups,
		Permissions:       c.Permissions,
	}
}

// CallerResolver expands a caller's claims into effective permissions.
type CallerResolver interface {
	Resolve(ctx context.Context, caller access.Caller) (access.Caller, error)
}

type callerKey struct{}

// WithCaller stores caller on ctx.
func WithCaller(ctx context.Context, caller access.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller set by Authenticator.
func CallerFromContext(ctx context.Context) (access.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(access.Caller)
	return caller, ok
}

// Authenticator validates HS256 bearer tokens.
type Authenticator struct {
	secret   []byte
	issuer   string
	resolver CallerResolver
	logger   *logging.Logger
}

// NewAuthenticator creates an authenticator. resolver may be nil, in which case
// only the permissions carried by the token apply.
func NewAuthenticator(secret, issuer string, resolver CallerResolver) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		issuer:   issuer,
		resolver: resolver,
		logger:   logging.Default().WithComponent("auth"),
	}
}

// Parse validates token and returns its claims.
func (a *Authenticator) Parse(token string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("no signing secret configured")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved caller on the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.WithContext(r.Context())

		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := a.Parse(raw)
		if err != nil {
			logger.Security("Rejected bearer token", "error", err.Error(), "path", r.URL.Path)
			unauthorized(w, "invalid bearer token")
			return
		}

		caller := claims.Caller()
		if caller.UserPrincipalName == "" {
			unauthorized(w, "token carries no user")
			return
		}

		if a.resolver != nil {
			resolved, err := a.resolver.Resolve(r.Context(), caller)
			if err != nil {
				logger.Error("Failed to resolve caller permissions", "error", err.Error(), "upn", caller.UserPrincipalName)
				writeError(w, http.StatusInternalServerError, "internal", "could not resolve permissions")
				return
			}
			caller = resolved
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "unauthorized", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
