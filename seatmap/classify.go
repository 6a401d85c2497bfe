// Package seatmap shapes raw event records into seat-map view models.
//
// Every function in this package is pure: it reads its arguments and returns
// new values, so callers may share the input slices between goroutines.
package seatmap

import "seatmap/model"

// HasSpecificSeats reports whether the event carries a seat list. An empty
// list still counts; only the general admission variant (or no seating at
// all) is reported as false.
func HasSpecificSeats(event model.Event) bool {
	_, ok := event.Seats.(model.SeatList)
	return ok
}

func seatsOf(event model.Event) model.SeatList {
	seats, _ := event.Seats.(model.SeatList)
	return seats
}
