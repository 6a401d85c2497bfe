package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidSeating    = errors.New("invalid seating")
	ErrMalformedDocument = errors.New("malformed events document")
)

type EventSeat struct {
	Price              string `json:"price"`
	RowNum             string `json:"row_num"`
	SeatNum            string `json:"seat_num"`
	HorizontalPosition int    `json:"horizontal_position"`
	VerticalPosition   int    `json:"vertical_position"`
	Available          bool   `json:"available"`
}

// Seating is either a SeatList or a GeneralAdmission marker.
type Seating interface {
	isSeating()
}

// SeatList is the seating of an event with individually addressable seats.
type SeatList []EventSeat

// GeneralAdmission is the free-text marker the scraper writes in place of a
// seat list, e.g. "General admission".
type GeneralAdmission string

func (SeatList) isSeating()         {}
func (GeneralAdmission) isSeating() {}

type Event struct {
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Location  string  `json:"location"`
	Link      string  `json:"link"`
	Available bool    `json:"available"`
	MinPrice  string  `json:"min_price"`
	Seats     Seating `json:"seats"`
}

type eventAlias Event

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		eventAlias
		Seats json.RawMessage `json:"seats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	seating, err := decodeSeating(raw.Seats)
	if err != nil {
		return fmt.Errorf("event %q: %w", raw.Title, err)
	}

	*e = Event(raw.eventAlias)
	e.Seats = seating
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	var seats any
	switch s := e.Seats.(type) {
	case SeatList:
		if s == nil {
			s = SeatList{}
		}
		seats = []EventSeat(s)
	case GeneralAdmission:
		seats = string(s)
	default:
		seats = ""
	}

	return json.Marshal(struct {
		eventAlias
		Seats any `json:"seats"`
	}{
		eventAlias: eventAlias(e),
		Seats:      seats,
	})
}

func decodeSeating(raw json.RawMessage) (Seating, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return GeneralAdmission(""), nil
	}

	switch trimmed[0] {
	case '[':
		var seats []EventSeat
		if err := json.Unmarshal(trimmed, &seats); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSeating, err)
		}
		if seats == nil {
			seats = []EventSeat{}
		}
		return SeatList(seats), nil
	case '"':
		var marker string
		if err := json.Unmarshal(trimmed, &marker); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSeating, err)
		}
		return GeneralAdmission(marker), nil
	default:
		return nil, fmt.Errorf("%w: seats must be an array or a string", ErrInvalidSeating)
	}
}

// DecodeEvents accepts either a bare array of events or an object carrying
// them under "events".
func DecodeEvents(data []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}

	switch trimmed[0] {
	case '[':
		var events []Event
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		return events, nil
	case '{':
		var doc struct {
			Events *[]Event `json:"events"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		if doc.Events == nil {
			return nil, fmt.Errorf("%w: missing events property", ErrMalformedDocument)
		}
		return *doc.Events, nil
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrMalformedDocument)
	}
}
