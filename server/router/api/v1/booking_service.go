package v1

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/tablevoice/tablevoice/store"
)

type bookingRequest struct {
	CustomerName      string         `json:"customerName"`
	NumberOfGuests    int32          `json:"numberOfGuests"`
	BookingDate       string         `json:"bookingDate"`
	BookingTime       string         `json:"bookingTime"`
	CuisinePreference string         `json:"cuisinePreference"`
	SpecialRequests   string         `json:"specialRequests"`
	SeatingPreference string         `json:"seatingPreference"`
	WeatherInfo       map[string]any `json:"weatherInfo"`
	Status            string         `json:"status"`
}

type bookingResponse struct {
	UID               string         `json:"uid"`
	CustomerName      string         `json:"customerName"`
	NumberOfGuests    int32          `json:"numberOfGuests"`
	BookingDate       string         `json:"bookingDate"`
	BookingTime       string         `json:"bookingTime"`
	CuisinePreference string         `json:"cuisinePreference"`
	SpecialRequests   string         `json:"specialRequests"`
	SeatingPreference string         `json:"seatingPreference"`
	WeatherInfo       map[string]any `json:"weatherInfo"`
	Status            string         `json:"status"`
	CreatedTs         int64          `json:"createdTs"`
}

func convertBooking(b *store.Booking) bookingResponse {
	return bookingResponse{
		UID:               b.UID,
		CustomerName:      b.CustomerName,
		NumberOfGuests:    b.NumberOfGuests,
		BookingDate:       b.BookingDate,
		BookingTime:       b.BookingTime,
		CuisinePreference: b.CuisinePreference,
		SpecialRequests:   b.SpecialRequests,
		SeatingPreference: b.SeatingPreference,
		WeatherInfo:       b.WeatherInfo,
		Status:            b.Status,
		CreatedTs:         b.CreatedTs,
	}
}

func (s *APIV1Service) registerBookingRoutes(e *echo.Echo) {
	g := e.Group("/api/bookings")
	g.POST("", s.createBooking)
	g.GET("", s.listBookings)
	g.GET("/export", s.exportBookingsCSV)
	g.GET("/:uid", s.getBooking)
	g.DELETE("/:uid", s.deleteBooking)
}

func (s *APIV1Service) createBooking(c *echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking payload")
	}
	booking, err := s.Store.CreateBooking(c.Request().Context(), &store.Booking{
		CustomerName:      req.CustomerName,
		NumberOfGuests:    req.NumberOfGuests,
		BookingDate:       req.BookingDate,
		BookingTime:       req.BookingTime,
		CuisinePreference: req.CuisinePreference,
		SpecialRequests:   req.SpecialRequests,
		SeatingPreference: req.SeatingPreference,
		WeatherInfo:       req.WeatherInfo,
		Status:            req.Status,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, convertBooking(booking))
}

func (s *APIV1Service) listBookings(c *echo.Context) error {
	bookings, err := s.Store.ListBookings(c.Request().Context(), &store.FindBooking{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, convertBooking(b))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) getBooking(c *echo.Context) error {
	uid := c.Param("uid")
	booking, err := s.Store.GetBooking(c.Request().Context(), &store.FindBooking{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
	}
	return c.JSON(http.StatusOK, convertBooking(booking))
}

func (s *APIV1Service) deleteBooking(c *echo.Context) error {
	uid := c.Param("uid")
	ctx := c.Request().Context()
	booking, err := s.Store.GetBooking(ctx, &store.FindBooking{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if booking == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
	}
	if err := s.Store.DeleteBooking(ctx, uid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Booking cancelled successfully"})
}

// exportBookingsCSV streams all bookings as a CSV attachment, the same
// columns the admin dashboard shows.
func (s *APIV1Service) exportBookingsCSV(c *echo.Context) error {
	bookings, err := s.Store.ListBookings(c.Request().Context(), &store.FindBooking{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	rw := c.Response()
	rw.Header().Set("Content-Type", "text/csv; charset=utf-8")
	rw.Header().Set("Content-Disposition", `attachment; filename="bookings_report.csv"`)
	rw.WriteHeader(http.StatusOK)

	w := csv.NewWriter(rw)
	if err := w.Write([]string{
		"uid", "customerName", "numberOfGuests", "bookingDate", "bookingTime",
		"cuisinePreference", "specialRequests", "seatingPreference", "status", "createdAt",
	}); err != nil {
		return err
	}
	for _, b := range bookings {
		record := []string{
			b.UID,
			b.CustomerName,
			strconv.Itoa(int(b.NumberOfGuests)),
			b.BookingDate,
			b.BookingTime,
			b.CuisinePreference,
			b.SpecialRequests,
			b.SeatingPreference,
			b.Status,
			time.Unix(b.CreatedTs, 0).UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
