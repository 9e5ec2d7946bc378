package httpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"dragonden/internal/errs"
)

const actorKey = "actor_id"

var ErrMissingBearerToken = fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)

// requireActor resolves the Authorization bearer token to the acting user's id.
func (h Handler) requireActor(c context.Context, ctx *app.RequestContext) (string, error) {
	raw := strings.TrimSpace(string(ctx.GetHeader("Authorization")))
	token, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingBearerToken
	}
	user, err := h.AuthUC.Execute(c, token)
	if err != nil {
		return "", err
	}
	ctx.Set(actorKey, user.ID)
	return user.ID, nil
}
