package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"seatmap/model"
	"seatmap/outbound/eventsource"
	"seatmap/seatmap"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func runInspectCmd(ctx context.Context, cfg *viper.Viper, baseURL string, file string) error {
	var (
		events []model.Event
		err    error
	)

	if file != "" {
		events, err = readEventsFile(file)
	} else {
		if baseURL == "" {
			baseURL = cfg.GetString("source.base_url")
		}

		client := eventsource.NewClient(&http.Client{Timeout: cfg.GetDuration("source.timeout")}, baseURL, cfg.GetString("source.path"))
		events, err = client.LoadEvents(ctx)
	}
	if err != nil {
		return err
	}

	renderEvents(os.Stdout, events, newPrinter(cfg.GetString("inspect.locale")))
	return nil
}

func readEventsFile(file string) ([]model.Event, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	events, err := model.DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}

	return events, nil
}

func newPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return message.NewPrinter(tag)
}

func renderEvents(w io.Writer, events []model.Event, printer *message.Printer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Title", "Date", "Seating", "Available", "Unavailable", "Total", "X", "Y", "Min price"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
	})

	var seats, available int
	for i, configuration := range seatmap.GetAllEventConfigurations(events) {
		event := events[i]
		counts := configuration.AvailabilityCounts
		bounds := configuration.CoordinateBounds

		seating := "general admission"
		if seatmap.HasSpecificSeats(event) {
			seating = "seated"
		} else if event.Available {
			seating = "general admission (open)"
		}

		minPrice := "-"
		if price, err := seatmap.ParsePrice(event.MinPrice); err == nil {
			minPrice = printer.Sprintf("%.2f", price)
		}

		t.AppendRow(table.Row{
			i,
			event.Title,
			event.Date,
			seating,
			printer.Sprintf("%d", counts.Available),
			printer.Sprintf("%d", counts.Unavailable),
			printer.Sprintf("%d", counts.Total),
			printer.Sprintf("%d..%d", bounds.MinX, bounds.MaxX),
			printer.Sprintf("%d..%d", bounds.MinY, bounds.MaxY),
			minPrice,
		})

		seats += counts.Total
		available += counts.Available
	}

	t.AppendFooter(table.Row{"", printer.Sprintf("%d events", len(events)), "", "", printer.Sprintf("%d", available), "", printer.Sprintf("%d", seats)})
	t.Render()
}
