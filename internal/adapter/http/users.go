package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"dragonden/internal/app/auth"
	"dragonden/internal/app/users"
)

func (h Handler) signup(c context.Context, ctx *app.RequestContext) {
	var body auth.SignupRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	u, err := h.SignupUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, u)
}

func (h Handler) login(c context.Context, ctx *app.RequestContext) {
	var body auth.LoginRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	resp, err := h.LoginUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listUsers(c context.Context, ctx *app.RequestContext) {
	out, err := h.UsersUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"users": out, "count": len(out)})
}

func (h Handler) getUser(c context.Context, ctx *app.RequestContext) {
	u, err := h.UsersUC.Get(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, u)
}

func (h Handler) getUserByUsername(c context.Context, ctx *app.RequestContext) {
	u, err := h.UsersUC.GetByUsername(c, ctx.Param("username"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, u)
}

func (h Handler) updateUser(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body users.UpdateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	body.ActorID, body.UserID = actorID, ctx.Param("id")
	u, err := h.UsersUC.Update(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, u)
}

func (h Handler) deleteUser(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.UsersUC.Delete(c, users.DeleteRequest{ActorID: actorID, UserID: ctx.Param("id")}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}
