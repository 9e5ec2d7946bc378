package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"dragonden/internal/app/dragons"
	"dragonden/internal/app/fights"
	"dragonden/internal/app/keeper"
	"dragonden/internal/app/riders"
)

func (h Handler) listDragons(c context.Context, ctx *app.RequestContext) {
	out, err := h.DragonsUC.List(c, dragons.ListRequest{
		RiderID:   ctx.Query("rider_id"),
		Size:      ctx.Query("size"),
		Unclaimed: queryBool(ctx, "unclaimed"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"dragons": out, "count": len(out)})
}

func (h Handler) getDragon(c context.Context, ctx *app.RequestContext) {
	d, err := h.DragonsUC.Get(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) createDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body dragons.CreateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	body.ActorID = actorID
	d, err := h.DragonsUC.Create(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, d)
}

func (h Handler) updateDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body dragons.UpdateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	body.ActorID, body.DragonID = actorID, ctx.Param("id")
	d, err := h.DragonsUC.Update(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) deleteDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.DragonsUC.Delete(c, dragons.DeleteRequest{ActorID: actorID, DragonID: ctx.Param("id")}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) acquireDragon(c context.Context, ctx *app.RequestContext) {
	h.riderAction(c, ctx, h.RidersUC.Acquire)
}

func (h Handler) releaseDragon(c context.Context, ctx *app.RequestContext) {
	h.riderAction(c, ctx, h.RidersUC.Release)
}

func (h Handler) riderAction(c context.Context, ctx *app.RequestContext, run func(context.Context, riders.Request) (riders.Response, error)) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := run(c, riders.Request{ActorID: actorID, DragonID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type amountRequest struct {
	Amount int `json:"amount"`
}

type foodRequest struct {
	Food string `json:"food"`
}

type healthPatchRequest struct {
	CurrentHealth *int    `json:"current_health"`
	HealthStatus  *string `json:"health_status"`
}

func (h Handler) healDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body amountRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	d, err := h.KeeperUC.Heal(c, keeper.HealRequest{ActorID: actorID, DragonID: ctx.Param("id"), Amount: body.Amount})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) damageDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body amountRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	d, err := h.KeeperUC.Damage(c, keeper.DamageRequest{ActorID: actorID, DragonID: ctx.Param("id"), Amount: body.Amount})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) setDragonHealth(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body healthPatchRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	d, err := h.KeeperUC.SetHealth(c, keeper.SetHealthRequest{
		ActorID:       actorID,
		DragonID:      ctx.Param("id"),
		CurrentHealth: body.CurrentHealth,
		HealthStatus:  body.HealthStatus,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) feedDragon(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body foodRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	resp, err := h.KeeperUC.Feed(c, keeper.FeedRequest{ActorID: actorID, DragonID: ctx.Param("id"), Food: body.Food})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setPreferredFood(c context.Context, ctx *app.RequestContext) {
	actorID, err := h.requireActor(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body foodRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeInvalidJSON(ctx)
		return
	}
	d, err := h.KeeperUC.SetPreferredFood(c, keeper.PreferredFoodRequest{ActorID: actorID, DragonID: ctx.Param("id"), Food: body.Food})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, d)
}

func (h Handler) dragonFights(c context.Context, ctx *app.RequestContext) {
	out, err := h.FightsUC.ListForDragon(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"fights": out, "count": len(out)})
}

func (h Handler) dragonStats(c context.Context, ctx *app.RequestContext) {
	resp, err := h.FightsUC.Stats(c, fights.StatsRequest{DragonID: ctx.Param("id"), Verify: queryBool(ctx, "verify")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}
