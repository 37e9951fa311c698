package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/tablevoice/tablevoice/store"
)

type analyticsResponse struct {
	TotalBookings int            `json:"totalBookings"`
	CuisineCounts map[string]int `json:"cuisineCounts"`
	HourCounts    map[string]int `json:"hourCounts"`
}

func (s *APIV1Service) registerAnalyticsRoutes(e *echo.Echo) {
	g := e.Group("/api/admin")
	g.GET("/analytics", s.getAnalytics)
}

// getAnalytics aggregates cuisine popularity and peak hours over all
// bookings. The data set is small enough to fold in-process.
func (s *APIV1Service) getAnalytics(c *echo.Context) error {
	bookings, err := s.Store.ListBookings(c.Request().Context(), &store.FindBooking{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := analyticsResponse{
		TotalBookings: len(bookings),
		CuisineCounts: map[string]int{},
		HourCounts:    map[string]int{},
	}
	for _, b := range bookings {
		cuisine := b.CuisinePreference
		if cuisine == "" {
			cuisine = "Unknown"
		}
		resp.CuisineCounts[cuisine]++

		if hour, _, ok := strings.Cut(b.BookingTime, ":"); ok && hour != "" {
			resp.HourCounts[hour]++
		}
	}
	return c.JSON(http.StatusOK, resp)
}
