package seatmap

import "seatmap/model"

func GetSeatAvailabilityCounts(seats []model.EventSeat) model.AvailabilityCounts {
	counts := model.AvailabilityCounts{Total: len(seats)}
	for _, seat := range seats {
		if seat.Available {
			counts.Available++
		} else {
			counts.Unavailable++
		}
	}

	return counts
}

// GetSeatCoordinateBounds returns the axis-aligned box around all seat
// positions, or the zero box when there are no seats.
func GetSeatCoordinateBounds(seats []model.EventSeat) model.CoordinateBounds {
	if len(seats) == 0 {
		return model.CoordinateBounds{}
	}

	bounds := model.CoordinateBounds{
		MinX: seats[0].HorizontalPosition,
		MaxX: seats[0].HorizontalPosition,
		MinY: seats[0].VerticalPosition,
		MaxY: seats[0].VerticalPosition,
	}

	for _, seat := range seats[1:] {
		bounds.MinX = min(bounds.MinX, seat.HorizontalPosition)
		bounds.MaxX = max(bounds.MaxX, seat.HorizontalPosition)
		bounds.MinY = min(bounds.MinY, seat.VerticalPosition)
		bounds.MaxY = max(bounds.MaxY, seat.VerticalPosition)
	}

	return bounds
}
