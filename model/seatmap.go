package model

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusOccupied  SeatStatus = "occupied"
)

type SeatDisplayRecord struct {
	Id     int        `json:"id"`
	Label  string     `json:"label"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Color  string     `json:"color"`
	Status SeatStatus `json:"status"`
	Price  float64    `json:"price"`
}

type AvailabilityCounts struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Total       int `json:"total"`
}

type CoordinateBounds struct {
	MinX int `json:"minX"`
	MaxX int `json:"maxX"`
	MinY int `json:"minY"`
	MaxY int `json:"maxY"`
}

// EventConfiguration is the view model for one event. Text is nil when the
// event has a seat map; otherwise it carries the event's availability.
type EventConfiguration struct {
	SeatConfig         []SeatDisplayRecord `json:"seatConfig"`
	AvailabilityCounts AvailabilityCounts  `json:"availabilityCounts"`
	CoordinateBounds   CoordinateBounds    `json:"coordinateBounds"`
	EventInfo          *Event              `json:"eventInfo"`
	Text               *bool               `json:"text"`
}
