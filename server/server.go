// Package server assembles the HTTP server from its parts.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/tablevoice/tablevoice/plugin/genai"
	"github.com/tablevoice/tablevoice/plugin/weather"
	"github.com/tablevoice/tablevoice/server/profile"
	apiv1 "github.com/tablevoice/tablevoice/server/router/api/v1"
	"github.com/tablevoice/tablevoice/store"
)

// Server owns the echo instance and the underlying http.Server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	httpServer *http.Server
}

// NewServer wires plugins, API services and middleware.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Use(middleware.Recover())
	if profile.ClientOrigin != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{profile.ClientOrigin},
		}))
	}

	e.GET("/healthz", func(c *echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	genAI := genai.NewClient(profile.GeminiAPIKey, profile.GeminiModel)
	weatherClient := weather.NewClient(profile.WeatherAPIKey, profile.WeatherCity)

	apiV1Service := apiv1.NewAPIV1Service(profile, store, genAI, weatherClient)
	apiV1Service.Register(e)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", profile.Addr, profile.Port),
			Handler:      e,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start(ctx context.Context) error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.Store.Close()
}
