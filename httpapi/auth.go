package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/logging"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxActor ctxKey = "actor"

var (
	errMissingBearer = errors.New("missing bearer token")
	errMissingUserID = errors.New("token carries no user id")
	errNoSecret      = errors.New("token verification not configured")
)

// Claims are the bearer token claims. UserID falls back to the standard
// subject claim when absent.
type Claims struct {
	UserID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens issued by the identity provider.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator builds an authenticator. An empty issuer accepts any iss.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
	}
}

// Require rejects requests without a valid token and stores the actor on the
// request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := a.parse(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("bearer token rejected")
			writeFailure(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func (a *Authenticator) parse(r *http.Request) (types.ActorRef, error) {
	if a == nil || len(a.secret) == 0 {
		return types.ActorRef{}, errNoSecret
	}
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return types.ActorRef{}, errMissingBearer
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...); err != nil {
		return types.ActorRef{}, err
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return types.ActorRef{}, errMissingUserID
	}
	return types.ActorRef{ID: userID}, nil
}

// WithActor stores actor on ctx.
func WithActor(ctx context.Context, actor types.ActorRef) context.Context {
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the authenticated actor, or the anonymous actor.
func ActorFromContext(ctx context.Context) types.ActorRef {
	if actor, ok := ctx.Value(ctxActor).(types.ActorRef); ok {
		return actor
	}
	return types.ActorRef{}
}
