package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"seatmap/catalog"
	"seatmap/common"
	"seatmap/common/constant"
	"seatmap/common/otel"
	"seatmap/model"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
)

type EventRefresher interface {
	RefreshWithToken(ctx context.Context, token string) (catalog.LoadResult, error)
}

type RefreshEvent struct {
	Catalog  EventRefresher
	Validate *validator.Validate
	Timeout  time.Duration
}

// RefreshHandler reloads the catalog for one queued refresh request. Messages
// that can never succeed are dropped by returning nil; a failed reload is
// returned so the message is redelivered.
func (in RefreshEvent) RefreshHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.RefreshEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "refresh event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	if err := in.Validate.Struct(req); err != nil {
		slog.WarnContext(ctx, "refresh event validation error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "RefreshEvent.RefreshHandler")
	defer span.End()

	span.SetAttributes(attribute.String("token", req.Token))

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.InfoContext(ctx, "refresh event receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	result, err := in.Catalog.RefreshWithToken(ctx, req.Token)
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to refresh events", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("refresh events: %w", err)
	}

	if result.Err != nil {
		slog.WarnContext(ctx, "refresh event served fallback events", traceIdAttr,
			slog.String("source", string(result.Source)),
			slog.Any(constant.LogFieldErr, result.Err),
		)
		return nil
	}

	slog.InfoContext(ctx, "refresh event success", traceIdAttr,
		slog.String(constant.LogFieldToken, result.Token),
		slog.Int("count", len(result.Events)),
	)
	return nil
}
