package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// CreateBooking validates the draft, applies defaults and persists it.
// Validation here plays the role the schema played in the record store: a
// draft missing a required field fails before it reaches the database.
func (s *Store) CreateBooking(ctx context.Context, create *Booking) (*Booking, error) {
	if create.CustomerName == "" {
		return nil, errors.New("booking validation failed: customerName is required")
	}
	if create.NumberOfGuests <= 0 {
		return nil, errors.New("booking validation failed: numberOfGuests must be a positive number")
	}
	if _, err := time.Parse("2006-01-02", create.BookingDate); err != nil {
		return nil, errors.Errorf("booking validation failed: bookingDate %q is not a valid date", create.BookingDate)
	}
	if create.BookingTime == "" {
		return nil, errors.New("booking validation failed: bookingTime is required")
	}

	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.WeatherInfo == nil {
		create.WeatherInfo = map[string]any{}
	}
	if create.CuisinePreference == "" {
		create.CuisinePreference = "Any"
	}
	if create.SpecialRequests == "" {
		create.SpecialRequests = "None"
	}
	switch create.SeatingPreference {
	case SeatingIndoor, SeatingOutdoor, SeatingAny:
	default:
		create.SeatingPreference = SeatingAny
	}
	switch create.Status {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
	default:
		create.Status = BookingStatusConfirmed
	}
	return s.driver.CreateBooking(ctx, create)
}

// ListBookings lists bookings matching the given filter.
func (s *Store) ListBookings(ctx context.Context, find *FindBooking) ([]*Booking, error) {
	return s.driver.ListBookings(ctx, find)
}

// GetBooking returns the first booking matching the given filter, or nil.
func (s *Store) GetBooking(ctx context.Context, find *FindBooking) (*Booking, error) {
	return s.driver.GetBooking(ctx, find)
}

// UpdateBooking updates a booking's mutable fields.
func (s *Store) UpdateBooking(ctx context.Context, update *UpdateBooking) (*Booking, error) {
	if v := update.Status; v != nil {
		switch *v {
		case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
		default:
			return nil, errors.Errorf("invalid booking status %q", *v)
		}
	}
	return s.driver.UpdateBooking(ctx, update)
}

// DeleteBooking removes a booking permanently.
func (s *Store) DeleteBooking(ctx context.Context, uid string) error {
	return s.driver.DeleteBooking(ctx, uid)
}

// FindMostRecentConfirmedByName returns the confirmed booking whose customer
// name contains pattern (case-insensitive), preferring the latest booking
// date when several match. Returns nil when no confirmed booking matches.
func (s *Store) FindMostRecentConfirmedByName(ctx context.Context, pattern string) (*Booking, error) {
	status := BookingStatusConfirmed
	return s.driver.GetBooking(ctx, &FindBooking{
		CustomerNamePattern:    &pattern,
		Status:                 &status,
		OrderByBookingDateDesc: true,
	})
}
