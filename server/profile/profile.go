// Package profile holds the runtime configuration of the server.
package profile

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// Profile is the server configuration, populated from flags and environment
// variables at startup.
type Profile struct {
	// Mode is either "prod" or "dev".
	Mode string
	// Addr is the bind address; empty means all interfaces.
	Addr string
	// Port is the HTTP listen port.
	Port int
	// Data is the directory for local state (the default SQLite database lives here).
	Data string
	// Driver is the storage backend: sqlite, mysql or postgres.
	Driver string
	// DSN is the database connection string. Defaults to a SQLite file under Data.
	DSN string
	// ClientOrigin is the allowed CORS origin of the web client.
	ClientOrigin string

	// GeminiAPIKey authenticates against the generative language API. The chat
	// endpoint is disabled without it.
	GeminiAPIKey string
	// GeminiModel is the model name sent on each generateContent call.
	GeminiModel string
	// WeatherAPIKey authenticates against OpenWeatherMap. Optional; without it
	// the weather tool reports data unavailable.
	WeatherAPIKey string
	// WeatherCity is the fixed city used for forecast lookups.
	WeatherCity string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Validate normalizes the profile and rejects unusable combinations.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.GeminiModel == "" {
		p.GeminiModel = "gemini-2.5-flash"
	}
	if p.WeatherCity == "" {
		p.WeatherCity = "Mumbai"
	}
	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			p.DSN = filepath.Join(p.Data, "tablevoice.db")
		}
	case "mysql", "postgres":
		if p.DSN == "" {
			return errors.Errorf("dsn is required for driver %q", p.Driver)
		}
	default:
		return errors.Errorf("unknown driver %q", p.Driver)
	}
	return nil
}
