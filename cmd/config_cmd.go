package cmd

import (
	"fmt"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/secret"
	"github.com/coderprepares/yescode-statusbar/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	key, keyErr := secret.Resolve(secret.NewFileStore(config.Dir()), cfg.API.APIKey)
	if keyErr == nil {
		fmt.Printf("    API key:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:  not configured")
	}
	if cfg.API.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	}
	fmt.Println()

	fmt.Println("  [Refresh]")
	fmt.Printf("    Interval: %s\n", time.Duration(cfg.Refresh.Interval))
	if cfg.Refresh.Schedule != "" {
		fmt.Printf("    Schedule: %s (overrides interval)\n", cfg.Refresh.Schedule)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address: %s\n", cfg.Daemon.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if st, err := store.Open(store.DefaultPath()); err == nil {
		mode, _ := st.DisplayMode()
		if mode == "" {
			mode = "auto (default)"
		}
		fmt.Println("  [Preferences]")
		fmt.Printf("    Display mode: %s\n", mode)
		fmt.Printf("    Install id:   %s\n", st.InstallID())
		_ = st.Close()
		fmt.Println()
	}

	fmt.Println("  Run `yescode-statusbar setup` to reconfigure.")
	return nil
}
