package seatmap

import (
	"fmt"
	"seatmap/model"
)

// EmptyEventConfiguration is what callers get for an index that does not
// point at a loaded event.
func EmptyEventConfiguration() model.EventConfiguration {
	return model.EventConfiguration{
		SeatConfig: []model.SeatDisplayRecord{},
	}
}

func BuildEventConfiguration(event model.Event) model.EventConfiguration {
	configuration, _ := BuildEventConfigurationWithPolicy(event, PriceZero)
	return configuration
}

// BuildEventConfigurationWithPolicy only fails under PriceReject.
func BuildEventConfigurationWithPolicy(event model.Event, policy PricePolicy) (model.EventConfiguration, error) {
	info := event

	if !HasSpecificSeats(event) {
		available := event.Available
		return model.EventConfiguration{
			SeatConfig: []model.SeatDisplayRecord{},
			EventInfo:  &info,
			Text:       &available,
		}, nil
	}

	seats := seatsOf(event)
	records, err := TransformSeatsWithPolicy(seats, policy)
	if err != nil {
		return EmptyEventConfiguration(), err
	}

	return model.EventConfiguration{
		SeatConfig:         records,
		AvailabilityCounts: GetSeatAvailabilityCounts(seats),
		CoordinateBounds:   GetSeatCoordinateBounds(seats),
		EventInfo:          &info,
	}, nil
}

func GetAllEventConfigurations(events []model.Event) []model.EventConfiguration {
	configurations, _ := GetAllEventConfigurationsWithPolicy(events, PriceZero)
	return configurations
}

// GetAllEventConfigurationsWithPolicy stops at the first event that fails
// under PriceReject.
func GetAllEventConfigurationsWithPolicy(events []model.Event, policy PricePolicy) ([]model.EventConfiguration, error) {
	configurations := make([]model.EventConfiguration, 0, len(events))
	for i, event := range events {
		configuration, err := BuildEventConfigurationWithPolicy(event, policy)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		configurations = append(configurations, configuration)
	}

	return configurations, nil
}

// GetEventConfiguration builds the configuration of events[index]. The
// boolean is false, and the configuration empty, when index is out of range.
func GetEventConfiguration(events []model.Event, index int) (model.EventConfiguration, bool) {
	if index < 0 || index >= len(events) {
		return EmptyEventConfiguration(), false
	}

	return BuildEventConfiguration(events[index]), true
}

// GetAvailableGeneralAdmissionEvents keeps events without a seat list that
// are currently on sale.
func GetAvailableGeneralAdmissionEvents(events []model.Event) []model.Event {
	filtered := make([]model.Event, 0, len(events))
	for _, event := range events {
		if !HasSpecificSeats(event) && event.Available {
			filtered = append(filtered, event)
		}
	}

	return filtered
}

func GetEventsWithSpecificSeats(events []model.Event) []model.Event {
	filtered := make([]model.Event, 0, len(events))
	for _, event := range events {
		if HasSpecificSeats(event) {
			filtered = append(filtered, event)
		}
	}

	return filtered
}
