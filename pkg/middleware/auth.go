package middleware

import (
	"net/http"
	"slices"
	"strings"

	"eventify/pkg/auth"
	apperrors "eventify/pkg/errors"
	httputil "eventify/pkg/http"
	"eventify/pkg/logger"
	"eventify/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Guard wraps a single route handler.
type Guard func(next httprouter.Handle) httprouter.Handle

// Chain applies guards to h so that guards[0] runs first.
func Chain(h httprouter.Handle, guards ...Guard) httprouter.Handle {
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return h
}

// Authenticated resolves the bearer token into a principal stored in the
// request context. Missing or invalid credentials get 401.
func Authenticated(verifier *auth.Verifier, log *logger.Logger) Guard {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, err := verifier.Verify(bearerToken(r))
			if err != nil {
				log.Warn("Authentication failed",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthenticated("Authentication required"))
				return
			}

			next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)), ps)
		}
	}
}

// HasRole admits only principals whose role is in roles. It must run after Authenticated.
func HasRole(log *logger.Logger, roles ...model.Role) Guard {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				_ = httputil.WriteError(w, apperrors.Unauthenticated("Authentication required"))
				return
			}

			if !slices.Contains(roles, principal.Role) {
				log.Warn("Role not permitted",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"user_id", principal.UserID,
					"role", principal.Role,
				)
				_ = httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions"))
				return
			}

			next(w, r, ps)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Policy bundles the guards routes are composed from.
type Policy struct {
	authenticated Guard
	rateLimit     Guard
	idempotent    Guard
	log           *logger.Logger
}

// NewPolicy builds route guards. limiter and store may be nil to disable throttling and replay.
func NewPolicy(verifier *auth.Verifier, limiter *PrincipalRateLimiter, store IdempotencyStore, log *logger.Logger) *Policy {
	p := &Policy{
		authenticated: Authenticated(verifier, log),
		log:           log,
	}
	if limiter != nil {
		p.rateLimit = RateLimit(limiter)
	}
	if store != nil {
		p.idempotent = Idempotent(store, DefaultIdempotencyHeader)
	}
	return p
}

// Require authenticates the caller and, when roles are given, restricts the route to them.
func (p *Policy) Require(h httprouter.Handle, roles ...model.Role) httprouter.Handle {
	guards := []Guard{p.authenticated}
	if len(roles) > 0 {
		guards = append(guards, HasRole(p.log, roles...))
	}
	return Chain(h, guards...)
}

func (p *Policy) Admin(h httprouter.Handle) httprouter.Handle {
	return p.Require(h, model.RoleAdmin)
}

func (p *Policy) Participant(h httprouter.Handle) httprouter.Handle {
	return p.Require(h, model.RoleParticipant)
}

// ParticipantWrite guards a participant mutation with per-user throttling and idempotency keys.
func (p *Policy) ParticipantWrite(h httprouter.Handle) httprouter.Handle {
	guards := []Guard{p.authenticated, HasRole(p.log, model.RoleParticipant)}
	if p.rateLimit != nil {
		guards = append(guards, p.rateLimit)
	}
	if p.idempotent != nil {
		guards = append(guards, p.idempotent)
	}
	return Chain(h, guards...)
}
