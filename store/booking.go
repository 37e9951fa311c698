package store

// Booking status values. New bookings are Confirmed unless the caller says
// otherwise; cancellation flips Confirmed to Cancelled.
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusPending   = "Pending"
	BookingStatusCancelled = "Cancelled"
)

// Seating preference values.
const (
	SeatingIndoor  = "Indoor"
	SeatingOutdoor = "Outdoor"
	SeatingAny     = "Any"
)

// Booking is a single table reservation.
type Booking struct {
	ID                int32
	UID               string
	CustomerName      string
	NumberOfGuests    int32
	BookingDate       string // calendar date, YYYY-MM-DD
	BookingTime       string // 24-hour wall clock, HH:MM
	CuisinePreference string
	SpecialRequests   string
	SeatingPreference string
	WeatherInfo       map[string]any // forecast snapshot captured at booking time
	Status            string
	CreatedTs         int64
}

// FindBooking filters for ListBookings.
type FindBooking struct {
	ID     *int32
	UID    *string
	Status *string
	// CustomerNamePattern matches case-insensitively as a substring, the way
	// the cancellation flow looks customers up.
	CustomerNamePattern *string
	// OrderByBookingDateDesc sorts by booking date descending instead of the
	// default creation order (newest created first).
	OrderByBookingDateDesc bool
}

// UpdateBooking carries the mutable fields accepted by UpdateBooking.
type UpdateBooking struct {
	UID    string
	Status *string
}
