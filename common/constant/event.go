package constant

const (
	QueueStreamName = "seatmap_queue_stream"
)

const (
	AllWildcard     = "events.>"
	SeatmapWildcard = "events.seatmap.>"

	SubjectRefreshEvents = "events.seatmap.refresh"
)
