package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/tablevoice/tablevoice/plugin/genai"
	"github.com/tablevoice/tablevoice/plugin/weather"
	"github.com/tablevoice/tablevoice/server/profile"
	"github.com/tablevoice/tablevoice/store"
	"github.com/tablevoice/tablevoice/store/db/sqlite"
)

// fakeModel is a scripted generateContent endpoint. Each call pops the next
// reply and records the request body for transcript assertions.
type fakeModel struct {
	mu       sync.Mutex
	replies  []string
	statuses []int // optional per-call status override, 0 means 200
	requests []modelRequest
	server   *httptest.Server
}

type modelRequest struct {
	Contents          []genai.Turn `json:"contents"`
	SystemInstruction struct {
		Parts []genai.Part `json:"parts"`
	} `json:"systemInstruction"`
}

func newFakeModel(t *testing.T, replies ...string) *fakeModel {
	t.Helper()
	f := &fakeModel{replies: replies}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var req modelRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.requests = append(f.requests, req)

		call := len(f.requests) - 1
		if call < len(f.statuses) && f.statuses[call] != 0 {
			w.WriteHeader(f.statuses[call])
			return
		}
		reply := ""
		if call < len(f.replies) {
			reply = f.replies[call]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeModel) request(i int) modelRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

// lastUserText returns the text of the final turn of request i.
func (f *fakeModel) lastUserText(i int) string {
	req := f.request(i)
	turn := req.Contents[len(req.Contents)-1]
	return turn.Parts[0].Text
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	driver, err := sqlite.NewDB(&profile.Profile{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	st, err := store.New(context.Background(), driver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type testEnv struct {
	service *APIV1Service
	echo    *echo.Echo
	store   *store.Store
	model   *fakeModel
}

// newTestEnv builds a full API service against an in-memory store, a
// scripted model and an optional fake weather endpoint.
func newTestEnv(t *testing.T, model *fakeModel, weatherURL string) *testEnv {
	t.Helper()
	st := newTestStore(t)

	testProfile := &profile.Profile{
		Mode:         "dev",
		Driver:       "sqlite",
		DSN:          ":memory:",
		GeminiAPIKey: "test-key",
		GeminiModel:  "gemini-2.5-flash",
		WeatherCity:  "Mumbai",
	}

	var genAI *genai.Client
	if model != nil {
		genAI = genai.NewClient("test-key", "gemini-2.5-flash", genai.WithBaseURL(model.server.URL))
	} else {
		genAI = genai.NewClient("test-key", "gemini-2.5-flash")
	}

	var weatherClient *weather.Client
	if weatherURL != "" {
		testProfile.WeatherAPIKey = "weather-key"
		weatherClient = weather.NewClient("weather-key", "Mumbai", weather.WithBaseURL(weatherURL))
	} else {
		weatherClient = weather.NewClient("", "Mumbai")
	}

	service := NewAPIV1Service(testProfile, st, genAI, weatherClient)
	e := echo.New()
	service.Register(e)
	return &testEnv{service: service, echo: e, store: st, model: model}
}

// seedBooking inserts a booking through the store with sane defaults.
func seedBooking(t *testing.T, st *store.Store, b *store.Booking) *store.Booking {
	t.Helper()
	if b.NumberOfGuests == 0 {
		b.NumberOfGuests = 2
	}
	if b.BookingDate == "" {
		b.BookingDate = "2025-06-01"
	}
	if b.BookingTime == "" {
		b.BookingTime = "19:00"
	}
	created, err := st.CreateBooking(context.Background(), b)
	require.NoError(t, err)
	return created
}
