package constant

const (
	SeatColorAvailable = "#e0e0e0"
	SeatColorOccupied  = "#ff6b6b"
)

const (
	DefaultEventsPath = "/data/events.json"
	CacheBustingParam = "v"
)
