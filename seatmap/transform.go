package seatmap

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"seatmap/common/constant"
	"seatmap/model"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

// PricePolicy decides what happens to a seat whose price text does not parse.
type PricePolicy int

const (
	// PriceZero keeps the seat and reports a price of 0.
	PriceZero PricePolicy = iota
	// PriceReject aborts the transform with a *PriceError.
	PriceReject
)

// ParsePricePolicy reads the seatmap.price_policy setting. Empty means zero.
func ParsePricePolicy(text string) (PricePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "zero":
		return PriceZero, nil
	case "reject":
		return PriceReject, nil
	default:
		return PriceZero, fmt.Errorf("unknown price policy %q", text)
	}
}

func (p PricePolicy) String() string {
	if p == PriceReject {
		return "reject"
	}
	return "zero"
}

type PriceError struct {
	Index int
	Seat  string
	Text  string
	Err   error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("seat #%d (%s): price %q: %v", e.Index+1, e.Seat, e.Text, e.Err)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// ParsePrice parses a decimal price such as "25.50". NaN and infinities are
// rejected along with anything strconv cannot read.
func ParsePrice(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}

	return value, nil
}

// TransformSeatsToSeatData maps raw seats to display records using PriceZero.
func TransformSeatsToSeatData(seats []model.EventSeat) []model.SeatDisplayRecord {
	records, _ := TransformSeatsWithPolicy(seats, PriceZero)
	return records
}

// TransformSeatsWithPolicy maps seats in order; record i gets id i+1. An error
// is only returned under PriceReject.
func TransformSeatsWithPolicy(seats []model.EventSeat, policy PricePolicy) ([]model.SeatDisplayRecord, error) {
	records := make([]model.SeatDisplayRecord, 0, len(seats))

	for i, seat := range seats {
		price, err := ParsePrice(seat.Price)
		if err != nil {
			if policy == PriceReject {
				return nil, &PriceError{Index: i, Seat: seat.SeatNum, Text: seat.Price, Err: err}
			}

			slog.Warn("seat price is not a number, using 0",
				slog.String("seat", seat.SeatNum),
				slog.String("price", seat.Price),
			)
			price = 0
		}

		records = append(records, displayRecord(i, seat, price))
	}

	return records, nil
}

func displayRecord(i int, seat model.EventSeat, price float64) model.SeatDisplayRecord {
	record := model.SeatDisplayRecord{
		Id:     i + 1,
		Label:  seat.SeatNum,
		X:      seat.HorizontalPosition,
		Y:      seat.VerticalPosition,
		Color:  constant.SeatColorOccupied,
		Status: model.SeatStatusOccupied,
		Price:  price,
	}

	if seat.Available {
		record.Color = constant.SeatColorAvailable
		record.Status = model.SeatStatusAvailable
	}

	return record
}
