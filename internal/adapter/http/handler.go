package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"

	"dragonden/internal/app/auth"
	"dragonden/internal/app/dragons"
	"dragonden/internal/app/fights"
	"dragonden/internal/app/keeper"
	"dragonden/internal/app/riders"
	"dragonden/internal/app/users"
	"dragonden/internal/errs"
)

type Handler struct {
	SignupUC  auth.SignupUseCase
	LoginUC   auth.LoginUseCase
	AuthUC    auth.VerifyUseCase
	UsersUC   users.UseCase
	DragonsUC dragons.UseCase
	RidersUC  riders.UseCase
	KeeperUC  keeper.UseCase
	FightsUC  fights.UseCase
	KPI       kpiSnapshotProvider
	Log       *zap.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(recoverMiddleware(h.logger()), accessLogMiddleware(h.logger()), corsMiddleware())

	u := s.Group("/api/users")
	u.POST("", h.signup)
	u.POST("/login", h.login)
	u.GET("", h.listUsers)
	u.GET("/name/:username", h.getUserByUsername)
	u.GET("/:id", h.getUser)
	u.PUT("/:id", h.updateUser)
	u.DELETE("/:id", h.deleteUser)

	d := s.Group("/api/dragons")
	d.GET("", h.listDragons)
	d.POST("", h.createDragon)
	d.GET("/:id", h.getDragon)
	d.PUT("/:id", h.updateDragon)
	d.DELETE("/:id", h.deleteDragon)
	d.POST("/:id/acquire", h.acquireDragon)
	d.POST("/:id/release", h.releaseDragon)
	d.POST("/:id/heal", h.healDragon)
	d.POST("/:id/damage", h.damageDragon)
	d.PATCH("/:id/health", h.setDragonHealth)
	d.POST("/:id/feed", h.feedDragon)
	d.PUT("/:id/preferred-food", h.setPreferredFood)
	d.GET("/:id/fights", h.dragonFights)
	d.GET("/:id/stats", h.dragonStats)

	f := s.Group("/api/fights")
	f.POST("", h.initiateFight)
	f.GET("", h.listFights)
	f.GET("/:id", h.getFight)
	f.GET("/:id/participants", h.fightParticipants)
	f.POST("/:id/complete", h.completeFight)
	f.POST("/:id/cancel", h.cancelFight)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
}

func (h Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func queryInt(ctx *app.RequestContext, key string) int {
	n, _ := strconv.Atoi(ctx.Query(key))
	return n
}

func queryBool(ctx *app.RequestContext, key string) bool {
	b, _ := strconv.ParseBool(ctx.Query(key))
	return b
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		writeErrorBody(ctx, consts.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, errs.ErrForbidden):
		writeErrorBody(ctx, consts.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, errs.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, errs.ErrInvalidState):
		writeErrorBody(ctx, consts.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, errs.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, errs.ErrInvalidArgument):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	default:
		_ = ctx.Error(err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeInvalidJSON(ctx *app.RequestContext) {
	writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
