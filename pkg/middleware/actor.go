package middleware

import (
	"context"
	"net/http"

	apperrors "studiodesk/pkg/errors"
	httputil "studiodesk/pkg/http"
	"studiodesk/pkg/model"
)

const (
	ActorIDHeader       = "X-Actor-ID"
	ActorRoleHeader     = "X-Actor-Role"
	AdminPasswordHeader = "X-Admin-Password"
)

type actorKey struct{}

// Actor reads the identity the gateway asserted for this request. Requests
// without a valid identity are rejected.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := model.Actor{
				ID:   r.Header.Get(ActorIDHeader),
				Role: model.Role(r.Header.Get(ActorRoleHeader)),
			}
			if actor.ID == "" || !actor.Role.Valid() {
				httputil.WriteError(w, apperrors.Unauthorized("missing or invalid actor identity"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(model.Actor)
	return actor, ok
}

// RequestActor returns the actor attached by Actor, or an Unauthorized error
// when the route was not wrapped.
func RequestActor(r *http.Request) (model.Actor, error) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		return model.Actor{}, apperrors.Unauthorized("missing actor identity")
	}
	return actor, nil
}
