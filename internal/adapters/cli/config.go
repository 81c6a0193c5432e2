package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage CRoW configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CROW_* prefix)
2. Config file (crow.yaml)
3. Default values

User preferences (default start system, station types) are stored in ~/.crow/preferences.json

Examples:
  crow config show
  crow config set-start Sol
  crow config set-station-types Coriolis Orbis
  crow config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetStartCommand())
	cmd.AddCommand(newConfigSetStationTypesCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.DefaultConfig()
			}

			handler, err := config.NewPreferencesHandler()
			if err != nil {
				return fmt.Errorf("failed to create preferences handler: %w", err)
			}
			prefs, err := handler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load preferences: %v\n\n", err)
				prefs = &config.Preferences{}
			}

			fmt.Fprintln(out, "CRoW Configuration")
			fmt.Fprintln(out, "==================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  File:             %s\n", handler.Path())
			fmt.Fprintf(out, "  Default start:    %s\n", orNotSet(prefs.DefaultStart))
			fmt.Fprintf(out, "  Station types:    %s\n", orNotSet(strings.Join(prefs.StationTypes, ", ")))

			fmt.Fprintln(out, "\nDirectory:")
			fmt.Fprintf(out, "  Base URL:         %s\n", cfg.Directory.BaseURL)
			fmt.Fprintf(out, "  Timeout:          %s\n", cfg.Directory.Timeout)
			fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.Directory.RateLimit.Requests, cfg.Directory.RateLimit.Burst)
			fmt.Fprintf(out, "  Max Retries:      %d\n", cfg.Directory.Retry.MaxAttempts)

			fmt.Fprintln(out, "\nRouting:")
			fmt.Fprintf(out, "  Jump radius:      %.2f ly\n", cfg.Routing.JumpRadius)
			fmt.Fprintf(out, "  Max expansions:   %s\n", orUnbounded(cfg.Routing.MaxExpansions))
			fmt.Fprintf(out, "  Max attempts:     %s\n", orUnbounded(cfg.Routing.MaxAttempts))
			fmt.Fprintf(out, "  Status interval:  %s\n", cfg.Routing.StatusInterval)

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Enabled():
				fmt.Fprintf(out, "  Host:             %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
			if cfg.Logging.ToFile() {
				fmt.Fprintf(out, "  File:             %s\n", cfg.Logging.FilePath)
			}

			fmt.Fprintln(out, "\nMetrics:")
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Endpoint:         %s\n", cfg.Metrics.Endpoint())
			} else {
				fmt.Fprintln(out, "  Disabled")
			}

			return nil
		},
	}
}

// newConfigSetStartCommand creates the config set-start subcommand
func newConfigSetStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-start <system>",
		Short: "Set the default start system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := shared.NormalizeSystemName(args[0])
			if err := shared.ValidateSystemName("start", name); err != nil {
				return err
			}

			handler, err := config.NewPreferencesHandler()
			if err != nil {
				return fmt.Errorf("failed to create preferences handler: %w", err)
			}
			if err := handler.SetDefaultStart(name); err != nil {
				return fmt.Errorf("failed to set default start: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default start set to %s\n", name)
			return nil
		},
	}
}

// newConfigSetStationTypesCommand creates the config set-station-types subcommand
func newConfigSetStationTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-station-types <type> [type...]",
		Short: "Set the station types accepted as refuel targets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewPreferencesHandler()
			if err != nil {
				return fmt.Errorf("failed to create preferences handler: %w", err)
			}
			if err := handler.SetStationTypes(args); err != nil {
				return fmt.Errorf("failed to set station types: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Station types set to %s\n", strings.Join(args, ", "))
			return nil
		},
	}
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewPreferencesHandler()
			if err != nil {
				return fmt.Errorf("failed to create preferences handler: %w", err)
			}
			if err := handler.Clear(); err != nil {
				return fmt.Errorf("failed to clear preferences: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Preferences cleared")
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orUnbounded(n int) string {
	if n == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", n)
}

// maskPassword hides the password in a database URL
func maskPassword(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 {
		return url
	}
	creds := url[scheme+3 : at]
	colon := strings.Index(creds, ":")
	if colon < 0 {
		return url
	}
	return url[:scheme+3] + creds[:colon] + ":****" + url[at:]
}
