package httpadapter

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

// accessLogMiddleware logs request metadata only, never bodies.
func accessLogMiddleware(log *zap.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)

		status := ctx.Response.StatusCode()
		fields := []zap.Field{
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", status),
			zap.Duration("dur", time.Since(start)),
			zap.String("actor", ctx.GetString(actorKey)),
		}
		if status >= consts.StatusInternalServerError && len(ctx.Errors) > 0 {
			log.Error("http", append(fields, zap.String("error", ctx.Errors.Last().Error()))...)
			return
		}
		log.Info("http", fields...)
	}
}

func recoverMiddleware(log *zap.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", string(ctx.Path())),
				)
				writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
				ctx.Abort()
			}
		}()
		ctx.Next(c)
	}
}
