// Package catalog keeps the current events document in memory and derives
// the seat-map views from it. It owns the refresh cycle: load through the
// event source, fall back to the last known good copy, archive, and prime
// the configurations cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"seatmap/common"
	"seatmap/common/constant"
	"seatmap/common/otel"
	"seatmap/common/vars"
	"seatmap/model"
	"seatmap/outbound/cache"
	"seatmap/outbound/eventsource"
	"seatmap/outbound/snapshot"
	"seatmap/seatmap"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

type Source string

const (
	SourceRemote  Source = "remote"
	SourceMemory  Source = "memory"
	SourceArchive Source = "archive"
)

type Loader interface {
	LoadEventsWithToken(ctx context.Context, token string) ([]model.Event, error)
}

type Archive interface {
	Save(ctx context.Context, token string, events []model.Event) (snapshot.Snapshot, error)
	Latest(ctx context.Context) (snapshot.Snapshot, error)
}

// LoadResult tells the caller where the events it now sees came from. Only
// SourceRemote means the load itself succeeded.
type LoadResult struct {
	Events []model.Event
	Token  string
	Source Source
	Err    error
}

type Catalog struct {
	Loader Loader
	Cache  cache.Store
	// Archive is optional.
	Archive Archive
	Metrics *Metrics
	// PricePolicy applies to every configuration the catalog builds. Under
	// PriceReject a document with an unreadable seat price is not accepted.
	PricePolicy seatmap.PricePolicy

	TokenNow func() string
	TimeNow  func() time.Time
}

func New(loader Loader, store cache.Store, archive Archive) *Catalog {
	metrics, err := NewMetrics(otel.Meter)
	if err != nil {
		slog.Warn("catalog metrics disabled", slog.Any(constant.LogFieldErr, err))
	}

	return &Catalog{
		Loader:   loader,
		Cache:    store,
		Archive:  archive,
		Metrics:  metrics,
		TokenNow: eventsource.TimestampToken,
		TimeNow:  time.Now,
	}
}

func (c *Catalog) Load(ctx context.Context) (LoadResult, error) {
	return c.LoadWithToken(ctx, c.TokenNow())
}

// LoadWithToken fetches the document with the given cache-busting token.
// When the fetch fails the catalog keeps serving what it already holds, or
// seeds itself from the archive on a cold start; the error is only returned
// when neither is available.
func (c *Catalog) LoadWithToken(ctx context.Context, token string) (LoadResult, error) {
	ctx, span := otel.Tracer.Start(ctx, "Catalog.Load")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	span.SetAttributes(attribute.String("token", token))

	start := time.Now()

	events, err := c.Loader.LoadEventsWithToken(ctx, token)
	if events == nil {
		events = []model.Event{}
	}

	var configurations []model.EventConfiguration
	if err == nil {
		configurations, err = seatmap.GetAllEventConfigurationsWithPolicy(events, c.PricePolicy)
		if err != nil {
			err = fmt.Errorf("price policy %s: %w", c.PricePolicy, err)
		}
	}
	if err != nil {
		common.UtilSpanError(span, err)
		slog.WarnContext(ctx, "events not loaded", traceIdAttr,
			slog.String(constant.LogFieldToken, token),
			slog.Any(constant.LogFieldErr, err),
		)

		result, err := c.fallback(ctx, err)
		c.Metrics.recordLoad(ctx, result, time.Since(start))
		return result, err
	}

	vars.SetEvents(events, token, c.TimeNow())
	c.archive(ctx, token, events)
	c.primeCache(ctx, token, configurations)

	slog.InfoContext(ctx, "events loaded", traceIdAttr,
		slog.String(constant.LogFieldToken, token),
		slog.Int("count", len(events)),
	)

	result := LoadResult{Events: events, Token: token, Source: SourceRemote}
	c.Metrics.recordLoad(ctx, result, time.Since(start))

	return result, nil
}

func (c *Catalog) fallback(ctx context.Context, loadErr error) (LoadResult, error) {
	if current := vars.GetEventSnapshot(); current != nil {
		return LoadResult{Events: current.Events, Token: current.Token, Source: SourceMemory, Err: loadErr}, nil
	}

	if c.Archive == nil {
		return LoadResult{Err: loadErr}, fmt.Errorf("load events: %w", loadErr)
	}

	latest, err := c.Archive.Latest(ctx)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNoSnapshot) {
			slog.ErrorContext(ctx, "failed to read events archive", slog.Any(constant.LogFieldErr, err))
		}
		return LoadResult{Err: loadErr}, fmt.Errorf("load events: %w", loadErr)
	}

	configurations, err := seatmap.GetAllEventConfigurationsWithPolicy(latest.Events, c.PricePolicy)
	if err != nil {
		slog.ErrorContext(ctx, "archived events rejected", slog.Any(constant.LogFieldErr, err))
		return LoadResult{Err: loadErr}, fmt.Errorf("load events: %w", loadErr)
	}

	vars.SetEvents(latest.Events, latest.Token, latest.CreatedAt)
	c.primeCache(ctx, latest.Token, configurations)

	slog.InfoContext(ctx, "events seeded from archive",
		slog.Int64("snapshot_id", latest.Id),
		slog.String(constant.LogFieldToken, latest.Token),
	)

	return LoadResult{Events: latest.Events, Token: latest.Token, Source: SourceArchive, Err: loadErr}, nil
}

func (c *Catalog) archive(ctx context.Context, token string, events []model.Event) {
	if c.Archive == nil {
		return
	}

	_, err := c.Archive.Save(ctx, token, events)
	switch {
	case errors.Is(err, snapshot.ErrSnapshotUnchanged):
		slog.DebugContext(ctx, "events unchanged since last snapshot", slog.String(constant.LogFieldToken, token))
	case err != nil:
		slog.ErrorContext(ctx, "failed to archive events", slog.Any(constant.LogFieldErr, err))
	}
}

func (c *Catalog) primeCache(ctx context.Context, token string, configurations []model.EventConfiguration) {
	entry := cache.Entry{Token: token, Configurations: configurations}
	if err := c.Cache.SetConfigurations(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to cache configurations", slog.Any(constant.LogFieldErr, err))
	}
}

// buildConfigurations returns an empty list when the policy refuses events.
func (c *Catalog) buildConfigurations(ctx context.Context, events []model.Event) []model.EventConfiguration {
	configurations, err := seatmap.GetAllEventConfigurationsWithPolicy(events, c.PricePolicy)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build configurations", slog.Any(constant.LogFieldErr, err))
		return []model.EventConfiguration{}
	}

	return configurations
}

// Refresh clears the catalog's own cache entries and reloads with a fresh
// token. Keys outside the store's prefix are left untouched.
func (c *Catalog) Refresh(ctx context.Context) (LoadResult, error) {
	return c.RefreshWithToken(ctx, c.TokenNow())
}

func (c *Catalog) RefreshWithToken(ctx context.Context, token string) (LoadResult, error) {
	ctx, span := otel.Tracer.Start(ctx, "Catalog.Refresh")
	defer span.End()

	removed, err := c.Cache.Clear(ctx)
	if err != nil {
		common.UtilSpanError(span, err)
		slog.ErrorContext(ctx, "failed to clear configurations cache", slog.Any(constant.LogFieldErr, err))
	} else {
		slog.DebugContext(ctx, "configurations cache cleared", slog.Int64("removed", removed))
	}

	return c.LoadWithToken(ctx, token)
}

// Events returns the current events, never nil.
func (c *Catalog) Events() []model.Event {
	events := vars.GetEvents()
	if events == nil {
		return []model.Event{}
	}

	return events
}

// Configurations serves from the cache when the entry was built from the
// document this process holds, and rebuilds otherwise. The cache is shared
// between processes, so an entry stamped with another token is left alone.
func (c *Catalog) Configurations(ctx context.Context) []model.EventConfiguration {
	current := vars.GetEventSnapshot()

	entry, found, err := c.Cache.GetConfigurations(ctx)
	if err != nil {
		slog.WarnContext(ctx, "configurations cache unavailable", slog.Any(constant.LogFieldErr, err))
	}
	if found && current != nil && entry.Token == current.Token {
		return entry.Configurations
	}
	if found {
		slog.DebugContext(ctx, "cached configurations belong to another document",
			slog.String("cached_token", entry.Token),
		)
	}

	configurations := c.buildConfigurations(ctx, c.Events())
	if err == nil && !found && current != nil {
		c.primeCache(ctx, current.Token, configurations)
	}

	return configurations
}

func (c *Catalog) Configuration(index int) (model.EventConfiguration, bool) {
	events := c.Events()
	if index < 0 || index >= len(events) {
		return seatmap.EmptyEventConfiguration(), false
	}

	configuration, err := seatmap.BuildEventConfigurationWithPolicy(events[index], c.PricePolicy)
	if err != nil {
		slog.Error("failed to build configuration", slog.Int("index", index), slog.Any(constant.LogFieldErr, err))
		return seatmap.EmptyEventConfiguration(), false
	}

	return configuration, true
}

func (c *Catalog) GeneralAdmission() []model.Event {
	return seatmap.GetAvailableGeneralAdmissionEvents(c.Events())
}

func (c *Catalog) Seated() []model.Event {
	return seatmap.GetEventsWithSpecificSeats(c.Events())
}
