package cmd

import (
	"context"
	"log"
	"log/slog"
	"seatmap/common/constant"
	"seatmap/inbound/event"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go/jetstream"
)

func runQueueRefreshCmd(ctx context.Context) {
	cfg := newCfg("env")

	shutdownTelemetry := newTelemetry(ctx, cfg)
	defer shutdownTelemetry()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	st, err := js.Stream(ctx, constant.QueueStreamName)
	if err != nil {
		log.Fatalln("failed to get stream", err)
	}

	eventCatalog, closeCatalog := newCatalog(ctx, cfg, cacheClient)
	defer closeCatalog()

	refreshEvent := event.RefreshEvent{
		Catalog:  eventCatalog,
		Validate: validator.New(),
		Timeout:  cfg.GetDuration("queue.refresh.timeout"),
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:seatmap-refresh",
		FilterSubject: constant.SeatmapWildcard,
		MaxDeliver:    cfg.GetInt("queue.refresh.max_deliver"),
		AckWait:       cfg.GetDuration("queue.refresh.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	nakDelay := cfg.GetDuration("queue.refresh.nak_delay")
	if nakDelay <= 0 {
		nakDelay = time.Second
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil && err != jetstream.ErrMsgIteratorClosed {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				var eventErr error
				switch msg.Subject() {
				case constant.SubjectRefreshEvents:
					eventErr = refreshEvent.RefreshHandler(ctx, msg.Data())
				}

				if eventErr != nil {
					msg.NakWithDelay(nakDelay)
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, "refresh queue consumer started")

	<-ctx.Done()

	iter.Stop()

	slog.InfoContext(ctx, "refresh queue consumer stopped")
}
