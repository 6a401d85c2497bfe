package cron

import (
	"context"
	"log/slog"
	"seatmap/catalog"
	"seatmap/common"
	"seatmap/common/constant"
	"time"

	"github.com/spf13/viper"
)

type EventRefresher interface {
	Load(ctx context.Context) (catalog.LoadResult, error)
	Refresh(ctx context.Context) (catalog.LoadResult, error)
}

type EventCron struct {
	Cfg     *viper.Viper
	Catalog EventRefresher
}

func (in EventCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.events.refresh.interval"))
	defer refreshTicker.Stop()

	in.load(ctx)

	slog.Info("events cron started")

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("events cron stopped")
			return
		}
	}
}

func (in EventCron) load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.events.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	result, err := in.Catalog.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load events", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	slog.DebugContext(ctx, "events loaded", traceIdAttr,
		slog.String("source", string(result.Source)),
		slog.Int("count", len(result.Events)),
	)
}

func (in EventCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.events.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing events", traceIdAttr)

	result, err := in.Catalog.Refresh(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to refresh events", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	slog.DebugContext(ctx, "events refreshed", traceIdAttr,
		slog.String("source", string(result.Source)),
		slog.String(constant.LogFieldToken, result.Token),
		slog.Int("count", len(result.Events)),
	)
}
