package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/seekarr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate configuration",
	Long:  "Validates the config file and environment variables without connecting to Discord.",
	Args:  cobra.NoArgs,
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return errors.New("configuration invalid")
		}
		return err
	}

	printConfigSummary(out, cfg)
	_, _ = fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		_, _ = fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			_, _ = fmt.Fprintf(w, "  - %s\n", m)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		_, _ = fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			_, _ = fmt.Fprintf(w, "  - %s\n", err)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	guild := "global"
	if cfg.Discord.GuildID != "" {
		guild = "guild " + cfg.Discord.GuildID
	}

	_, _ = fmt.Fprintln(w, "Configuration Summary:")
	_, _ = fmt.Fprintf(w, "  Commands:   %s\n", guild)
	printBackend(w, "Radarr", cfg.Radarr)
	printBackend(w, "Sonarr", cfg.Sonarr)
	_, _ = fmt.Fprintf(w, "  Poll:       every %s\n", cfg.Poll.Interval)
	_, _ = fmt.Fprintf(w, "  Gateway:    timeout %s, %.0f req/s (burst %d)\n", cfg.Gateway.Timeout, cfg.Gateway.RateLimit, cfg.Gateway.Burst)
	_, _ = fmt.Fprintf(w, "  History:    %s (keep %s)\n", cfg.History.Path, cfg.History.Retention)
	if cfg.Metrics.Addr != "" {
		_, _ = fmt.Fprintf(w, "  Metrics:    %s\n", cfg.Metrics.Addr)
	}
	_, _ = fmt.Fprintf(w, "  Log level:  %s\n", cfg.Log.Level)
}

func printBackend(w io.Writer, name string, b *config.BackendConfig) {
	if b == nil {
		_, _ = fmt.Fprintf(w, "  %-11s disabled\n", name+":")
		return
	}
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", name+":", b.URL)
	for _, c := range b.Commands {
		_, _ = fmt.Fprintf(w, "              /%s -> %s (%s)\n", c.Name, c.RootFolder, c.QualityProfile)
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
