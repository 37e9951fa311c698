package store

import "context"

// Driver is the storage backend interface. One implementation exists per
// supported database under store/db.
type Driver interface {
	EnsureBookingTables(ctx context.Context) error

	CreateBooking(ctx context.Context, create *Booking) (*Booking, error)
	ListBookings(ctx context.Context, find *FindBooking) ([]*Booking, error)
	GetBooking(ctx context.Context, find *FindBooking) (*Booking, error)
	UpdateBooking(ctx context.Context, update *UpdateBooking) (*Booking, error)
	DeleteBooking(ctx context.Context, uid string) error

	Close() error
}

// Store wraps a Driver with application-level validation and defaults.
type Store struct {
	driver Driver
}

// New creates a Store on top of the given driver and makes sure the schema
// exists.
func New(ctx context.Context, driver Driver) (*Store, error) {
	if err := driver.EnsureBookingTables(ctx); err != nil {
		return nil, err
	}
	return &Store{driver: driver}, nil
}

// Close releases the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}
