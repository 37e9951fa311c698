package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/tools"

	"github.com/tablevoice/tablevoice/plugin/weather"
	"github.com/tablevoice/tablevoice/store"
)

// Tool handlers never return a Go error for business failures: every outcome
// is encoded into the returned one-line JSON so the model can narrate it back
// to the user conversationally.

func marshalResult(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// ─────────────────────────────────────────────────────────────────────────────
// get_weather
// ─────────────────────────────────────────────────────────────────────────────

type getWeatherTool struct {
	client *weather.Client
}

func newGetWeatherTool(client *weather.Client) tools.Tool {
	return &getWeatherTool{client: client}
}

func (t *getWeatherTool) Name() string { return "get_weather" }
func (t *getWeatherTool) Description() string {
	return "Check the weather forecast for the restaurant's city on a given date. Input must be a JSON string with key `date` (YYYY-MM-DD)."
}
func (t *getWeatherTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Unable to fetch weather.", nil
	}
	if !t.client.Configured() {
		return "Weather data unavailable (API Key missing)", nil
	}

	forecast, err := t.client.Forecast(ctx, payload.Date)
	if err != nil {
		if errors.Is(err, weather.ErrNotInForecast) {
			return "Weather forecast not available for this date (too far ahead or past).", nil
		}
		slog.Warn("weather lookup failed", "date", payload.Date, "err", err)
		return "Unable to fetch weather.", nil
	}
	return marshalResult(map[string]any{
		"condition":   forecast.Condition,
		"temp":        forecast.Temperature,
		"description": forecast.Description,
	}), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// create_booking
// ─────────────────────────────────────────────────────────────────────────────

type createBookingTool struct {
	store *store.Store
}

func newCreateBookingTool(store *store.Store) tools.Tool {
	return &createBookingTool{store: store}
}

func (t *createBookingTool) Name() string { return "create_booking" }
func (t *createBookingTool) Description() string {
	return "Save a confirmed table reservation. Input must be a JSON string with key `data` holding the booking details."
}
func (t *createBookingTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Data struct {
			CustomerName      string         `json:"customerName"`
			NumberOfGuests    int32          `json:"numberOfGuests"`
			BookingDate       string         `json:"bookingDate"`
			BookingTime       string         `json:"bookingTime"`
			CuisinePreference string         `json:"cuisinePreference"`
			SpecialRequests   string         `json:"specialRequests"`
			SeatingPreference string         `json:"seatingPreference"`
			WeatherInfo       map[string]any `json:"weatherInfo"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return marshalResult(map[string]any{"success": false, "error": "failed to parse booking data: " + err.Error()}), nil
	}

	booking, err := t.store.CreateBooking(ctx, &store.Booking{
		CustomerName:      payload.Data.CustomerName,
		NumberOfGuests:    payload.Data.NumberOfGuests,
		BookingDate:       payload.Data.BookingDate,
		BookingTime:       payload.Data.BookingTime,
		CuisinePreference: payload.Data.CuisinePreference,
		SpecialRequests:   payload.Data.SpecialRequests,
		SeatingPreference: payload.Data.SeatingPreference,
		WeatherInfo:       payload.Data.WeatherInfo,
	})
	if err != nil {
		return marshalResult(map[string]any{"success": false, "error": err.Error()}), nil
	}
	return marshalResult(map[string]any{"success": true, "bookingId": booking.UID}), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// cancel_booking
// ─────────────────────────────────────────────────────────────────────────────

type cancelBookingTool struct {
	store *store.Store
}

func newCancelBookingTool(store *store.Store) tools.Tool {
	return &cancelBookingTool{store: store}
}

func (t *cancelBookingTool) Name() string { return "cancel_booking" }
func (t *cancelBookingTool) Description() string {
	return "Cancel the customer's most recent confirmed reservation. Input must be a JSON string with key `customerName`."
}
func (t *cancelBookingTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		CustomerName string `json:"customerName"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil || payload.CustomerName == "" {
		return marshalResult(map[string]any{"success": false, "error": "customerName is required"}), nil
	}

	// Name matching is a case-insensitive substring match, so "smith" cancels
	// John Smith's booking. Kept as-is for compatibility with the client.
	booking, err := t.store.FindMostRecentConfirmedByName(ctx, payload.CustomerName)
	if err != nil {
		return marshalResult(map[string]any{"success": false, "error": err.Error()}), nil
	}
	if booking == nil {
		return marshalResult(map[string]any{"success": false, "message": "No confirmed booking found for " + payload.CustomerName}), nil
	}

	status := store.BookingStatusCancelled
	if _, err := t.store.UpdateBooking(ctx, &store.UpdateBooking{UID: booking.UID, Status: &status}); err != nil {
		return marshalResult(map[string]any{"success": false, "error": err.Error()}), nil
	}
	slog.Info("booking cancelled", "uid", booking.UID, "customer", booking.CustomerName)
	return marshalResult(map[string]any{"success": true, "message": fmt.Sprintf("Booking cancelled for %s", payload.CustomerName)}), nil
}
