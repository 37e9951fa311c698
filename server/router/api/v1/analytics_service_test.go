package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablevoice/tablevoice/store"
)

func TestAnalytics(t *testing.T) {
	env := newTestEnv(t, nil, "")
	seedBooking(t, env.store, &store.Booking{CustomerName: "A", CuisinePreference: "Italian", BookingTime: "19:00"})
	seedBooking(t, env.store, &store.Booking{CustomerName: "B", CuisinePreference: "Italian", BookingTime: "19:30"})
	seedBooking(t, env.store, &store.Booking{CustomerName: "C", CuisinePreference: "Chinese", BookingTime: "12:00"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.TotalBookings)
	assert.Equal(t, 2, resp.CuisineCounts["Italian"])
	assert.Equal(t, 1, resp.CuisineCounts["Chinese"])
	assert.Equal(t, 2, resp.HourCounts["19"])
	assert.Equal(t, 1, resp.HourCounts["12"])
}

func TestAnalyticsEmptyStore(t *testing.T) {
	env := newTestEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalBookings)
	assert.Empty(t, resp.CuisineCounts)
}
