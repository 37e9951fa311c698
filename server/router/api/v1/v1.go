// Package v1 exposes the HTTP API: the conversational chat endpoint, the
// booking CRUD surface and the admin analytics endpoint.
package v1

import (
	"github.com/labstack/echo/v5"
	"github.com/tmc/langchaingo/tools"

	"github.com/tablevoice/tablevoice/plugin/genai"
	"github.com/tablevoice/tablevoice/plugin/weather"
	"github.com/tablevoice/tablevoice/server/profile"
	"github.com/tablevoice/tablevoice/store"
)

// APIV1Service bundles the collaborators the API handlers need.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	GenAI   *genai.Client
	Weather *weather.Client

	// Tools maps tool names to their handlers. Built once here and used by
	// every chat request; the handlers themselves are stateless.
	Tools map[string]tools.Tool
}

// NewAPIV1Service wires the service and its tool registry.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, genAI *genai.Client, weather *weather.Client) *APIV1Service {
	s := &APIV1Service{
		Profile: profile,
		Store:   store,
		GenAI:   genAI,
		Weather: weather,
	}
	s.Tools = map[string]tools.Tool{
		"get_weather":    newGetWeatherTool(weather),
		"create_booking": newCreateBookingTool(store),
		"cancel_booking": newCancelBookingTool(store),
	}
	return s
}

// Register attaches all v1 routes to the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	s.registerChatRoutes(e)
	s.registerBookingRoutes(e)
	s.registerAnalyticsRoutes(e)
}
