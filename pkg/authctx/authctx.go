// Package authctx bridges go-auth middleware payloads into the
// Requester value every go-fieldlog operation consumes. Roles are
// validated here, once, at the boundary; downstream code never
// string-compares raw role input.
package authctx

import (
	"context"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

const (
	textCodeActorMissing = "ACTOR_CONTEXT_MISSING"
	textCodeActorInvalid = "ACTOR_CONTEXT_INVALID"
)

// ActorFromContext is a thin wrapper around go-auth helpers so callers
// do not need to import auth directly when they only need the actor
// payload.
func ActorFromContext(ctx context.Context) (*auth.ActorContext, bool) {
	return auth.ActorFromContext(ctx)
}

// ActorFromRouterContext extracts the actor payload from router
// contexts using go-auth helpers.
func ActorFromRouterContext(ctx router.Context) (*auth.ActorContext, bool) {
	return auth.ActorFromRouterContext(ctx)
}

// ResolveActorContext returns the actor metadata stored by go-auth
// middleware or rebuilds it from JWT claims when the ContextEnricher
// hook was not configured.
func ResolveActorContext(ctx context.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, errors.New("go-fieldlog: missing request context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorMissing)
	}

	if actor, ok := auth.ActorFromContext(ctx); ok && actor != nil {
		return actor, nil
	}

	if claims, ok := auth.GetClaims(ctx); ok && claims != nil {
		if actor := auth.ActorContextFromClaims(claims); actor != nil {
			return actor, nil
		}
	}

	return nil, errors.New("go-fieldlog: auth actor context not found on request", errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorMissing)
}

// ResolveActorContextFromRouter mirrors ResolveActorContext for router
// transports where middleware stores actor metadata directly in the
// router context.
func ResolveActorContextFromRouter(ctx router.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, errors.New("go-fieldlog: missing router context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorMissing)
	}

	if actor, ok := auth.ActorFromRouterContext(ctx); ok && actor != nil {
		return actor, nil
	}

	return ResolveActorContext(ctx.Context())
}

// ResolveRequester extracts the requester for the current request. The
// returned requester always has a parsed user ID; the role may be
// outside the closed set, which downstream scope resolution treats as
// empty visibility rather than an error.
func ResolveRequester(ctx context.Context) (types.Requester, error) {
	actor, err := ResolveActorContext(ctx)
	if err != nil {
		return types.Requester{}, err
	}
	return RequesterFromActorContext(actor)
}

// ResolveRequesterFromRouter mirrors ResolveRequester for router
// transports.
func ResolveRequesterFromRouter(ctx router.Context) (types.Requester, error) {
	actor, err := ResolveActorContextFromRouter(ctx)
	if err != nil {
		return types.Requester{}, err
	}
	return RequesterFromActorContext(actor)
}

// RequesterFromActorContext converts the auth middleware payload into
// the Requester consumed across go-fieldlog. An unrecognized role is
// carried through as-is so visibility resolution can map it to an
// empty scope; a missing or malformed user identifier is an error.
func RequesterFromActorContext(actor *auth.ActorContext) (types.Requester, error) {
	if actor == nil {
		return types.Requester{}, errors.New("go-fieldlog: actor context is nil", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	if actor.ActorID == "" {
		return types.Requester{}, errors.New("go-fieldlog: actor context missing actor_id", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}

	userID, err := uuid.Parse(actor.ActorID)
	if err != nil {
		return types.Requester{}, errors.Wrap(err, errors.CategoryAuth, "go-fieldlog: invalid actor_id on auth context").
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}

	requester := types.Requester{UserID: userID}
	if role, ok := types.ParseRole(actor.Role); ok {
		requester.Role = role
	} else if role, ok := types.ParseRole(actor.Subject); ok {
		requester.Role = role
	} else {
		requester.Role = types.Role(actor.Role)
	}
	return requester, nil
}
