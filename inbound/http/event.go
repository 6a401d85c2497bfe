package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"seatmap/common"
	"seatmap/common/constant"
	"seatmap/common/contract"
	"seatmap/common/errs"
	"seatmap/common/otel"
	"seatmap/model"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type EventCatalog interface {
	Events() []model.Event
	Configurations(ctx context.Context) []model.EventConfiguration
	Configuration(index int) (model.EventConfiguration, bool)
	GeneralAdmission() []model.Event
	Seated() []model.Event
}

type EventHttp struct {
	Catalog   EventCatalog
	Publisher contract.Publisher
	Validate  *validator.Validate

	TokenNow func() string
	TimeNow  func() time.Time
}

func RegisterEventHttp(
	mux *http.ServeMux,
	catalog EventCatalog,
	publisher contract.Publisher,
	validate *validator.Validate,
	tokenNow func() string,
) *EventHttp {
	in := &EventHttp{
		Catalog:   catalog,
		Publisher: publisher,
		Validate:  validate,
		TokenNow:  tokenNow,
		TimeNow:   time.Now,
	}

	mux.HandleFunc("GET /api/events", in.list)
	mux.HandleFunc("GET /api/events/configurations", in.configurations)
	mux.HandleFunc("GET /api/events/{index}/configuration", in.configuration)
	mux.HandleFunc("GET /api/events/general-admission", in.generalAdmission)
	mux.HandleFunc("GET /api/events/seated", in.seated)
	mux.HandleFunc("POST /api/events/refresh", in.refresh)

	return in
}

func (in *EventHttp) list(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, in.Catalog.Events())
}

func (in *EventHttp) configurations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "EventHttp.configurations")
	defer span.End()

	writeJSONResponse(w, http.StatusOK, in.Catalog.Configurations(ctx))
}

func (in *EventHttp) configuration(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid event index"})
		return
	}

	if err := in.Validate.Struct(model.EventIndexRequest{Index: index}); err != nil {
		writeErrorResponse(w, err)
		return
	}

	configuration, found := in.Catalog.Configuration(index)
	if !found {
		writeJSONResponse(w, http.StatusNotFound, configuration)
		return
	}

	writeJSONResponse(w, http.StatusOK, configuration)
}

func (in *EventHttp) generalAdmission(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, in.Catalog.GeneralAdmission())
}

func (in *EventHttp) seated(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, in.Catalog.Seated())
}

func (in *EventHttp) refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "EventHttp.refresh")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	msg := model.RefreshEventMessage{
		Token:       in.TokenNow(),
		Reason:      req.Reason,
		RequestedAt: in.TimeNow().UTC().Format(time.RFC3339),
	}

	slog.InfoContext(ctx, "refresh events receive request", slog.Any(constant.LogFieldPayload, msg), traceIdAttr)

	if err := common.PublishMessage(ctx, in.Publisher, constant.SubjectRefreshEvents, msg.Token, msg); err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "error publish message when refresh events", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusAccepted, model.RefreshResponse{Token: msg.Token})
}
