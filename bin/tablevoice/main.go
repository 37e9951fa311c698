package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tablevoice/tablevoice/server"
	"github.com/tablevoice/tablevoice/server/profile"
	"github.com/tablevoice/tablevoice/store"
	"github.com/tablevoice/tablevoice/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "tablevoice",
	Short: "Conversational restaurant booking backend",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:          viper.GetString("mode"),
			Addr:          viper.GetString("addr"),
			Port:          viper.GetInt("port"),
			Data:          viper.GetString("data"),
			Driver:        viper.GetString("driver"),
			DSN:           viper.GetString("dsn"),
			ClientOrigin:  viper.GetString("client-origin"),
			GeminiAPIKey:  viper.GetString("gemini-api-key"),
			GeminiModel:   viper.GetString("gemini-model"),
			WeatherAPIKey: viper.GetString("weather-api-key"),
			WeatherCity:   viper.GetString("weather-city"),
		}
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		return run(instanceProfile)
	},
}

func init() {
	// Flags override environment; environment uses the TABLEVOICE_ prefix
	// (e.g. TABLEVOICE_GEMINI_API_KEY).
	_ = godotenv.Load()

	viper.SetEnvPrefix("tablevoice")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server: "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "address to bind, empty for all interfaces")
	rootCmd.PersistentFlags().Int("port", 5000, "port of the server")
	rootCmd.PersistentFlags().String("data", ".", "directory for local state")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver: sqlite, mysql or postgres")
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")
	rootCmd.PersistentFlags().String("client-origin", "http://localhost:5173", "allowed CORS origin of the web client")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "client-origin"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func run(instanceProfile *profile.Profile) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, err := db.NewDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}
	storeInstance, err := store.New(ctx, driver)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	slog.Info("server starting",
		"mode", instanceProfile.Mode,
		"addr", instanceProfile.Addr,
		"port", instanceProfile.Port,
		"driver", instanceProfile.Driver,
		"chat_enabled", instanceProfile.GeminiAPIKey != "",
		"weather_enabled", instanceProfile.WeatherAPIKey != "",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	slog.Info("server exited gracefully")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
