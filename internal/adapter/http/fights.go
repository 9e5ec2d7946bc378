package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"dragonden/internal/app/fights"
)

func (h Handler) initiateFight(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body fights.InitiateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	body.ActorID = actorID
	f, err := h.FightsUC.Initiate(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, f)
}

func (h Handler) listFights(c context.Context, ctx *app.RequestContext) {
	page, err := h.FightsUC.List(c, fights.ListRequest{
		Status:   ctx.Query("status"),
		DragonID: ctx.Query("dragon_id"),
		Page:     queryInt(ctx, "page"),
		Limit:    queryInt(ctx, "limit"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, page)
}

func (h Handler) getFight(c context.Context, ctx *app.RequestContext) {
	f, err := h.FightsUC.Get(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, f)
}

func (h Handler) fightParticipants(c context.Context, ctx *app.RequestContext) {
	p, err := h.FightsUC.Participants(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, p)
}

func (h Handler) completeFight(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body fights.CompleteRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	body.ActorID, body.FightID = actorID, ctx.Param("id")
	resp, err := h.FightsUC.Complete(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) cancelFight(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	f, err := h.FightsUC.Cancel(c, fights.CancelRequest{ActorID: actorID, FightID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, f)
}
