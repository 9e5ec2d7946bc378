// Package actor turns the acting user id carried by every request into a loaded account.User.
package actor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dragonden/internal/app/ports"
	"dragonden/internal/domain/account"
	"dragonden/internal/errs"
)

func Resolve(ctx context.Context, users ports.UserRepository, actorID string) (account.User, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return account.User{}, fmt.Errorf("%w: no acting user", errs.ErrUnauthorized)
	}
	u, err := users.Get(ctx, actorID)
	if errors.Is(err, ports.ErrNotFound) {
		return account.User{}, fmt.Errorf("%w: unknown acting user", errs.ErrUnauthorized)
	}
	return u, err
}

func Require(ctx context.Context, users ports.UserRepository, actorID string, c account.Capability) (account.User, error) {
	u, err := Resolve(ctx, users, actorID)
	if err != nil {
		return account.User{}, err
	}
	if !u.Type.Can(c) {
		return account.User{}, fmt.Errorf("%w: %s may not perform this action", errs.ErrForbidden, u.Type)
	}
	return u, nil
}
