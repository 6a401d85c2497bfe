package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	inboundCron "seatmap/inbound/cron"
	inboundHttp "seatmap/inbound/http"
	"seatmap/outbound/eventsource"
	"time"

	"github.com/go-playground/validator/v10"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	shutdownTelemetry := newTelemetry(ctx, cfg)
	defer shutdownTelemetry()

	validate := validator.New()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	eventCatalog, closeCatalog := newCatalog(ctx, cfg, cacheClient)
	defer closeCatalog()

	mux := http.NewServeMux()
	inboundHttp.RegisterHealthHttp(mux)

	handlerTimeout := cfg.GetDuration("server.handler_timeout")
	if handlerTimeout <= 0 {
		handlerTimeout = 20 * time.Second
	}

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(handlerTimeout)
	corsMiddleware := inboundHttp.CorsMiddleware(cfg.GetString("http.allow_origin"))

	inboundHttp.RegisterEventHttp(mux, eventCatalog, js, validate, eventsource.TimestampToken)

	if file := cfg.GetString("source.file"); file != "" {
		inboundHttp.RegisterStaticEvents(mux, file)
	}

	eventCron := &inboundCron.EventCron{
		Cfg:     cfg,
		Catalog: eventCatalog,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(corsMiddleware(mux)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// bind before the first cron load so the static events file is reachable
	ln, err := listenAndServe(srv)
	if err != nil {
		log.Fatalln("unable to listen", err)
	}

	slog.Info("http server started", slog.String("addr", ln.Addr().String()))

	go func() {
		eventCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}

// listenAndServe returns once srv.Addr is bound; serving continues in the
// background.
func listenAndServe(srv *http.Server) (net.Listener, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	return ln, nil
}
