// Package cmd implements the yescode-statusbar CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/secret"
	"github.com/coderprepares/yescode-statusbar/internal/store"
	"github.com/coderprepares/yescode-statusbar/internal/yescode"

	"github.com/spf13/cobra"
)

var (
	flagQuiet   bool
	flagBaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "yescode-statusbar",
	Short: "YesCode balance in your status bar",
	Long:  "Monitor your YesCode account balance: subscription, weekly cap, and pay-as-you-go.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Override the console API base URL")
}

// newClient resolves the API key and builds the console client. Callers that
// talk to a terminal should check for secret.ErrNotFound and print setup help.
func newClient(cfg config.Config) (*yescode.Client, error) {
	key, err := secret.Resolve(secret.NewFileStore(config.Dir()), cfg.API.APIKey)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.API.BaseURL
	if flagBaseURL != "" {
		baseURL = flagBaseURL
	}
	return yescode.NewClient(key, baseURL)
}

func printKeyHelp() {
	fmt.Println()
	fmt.Println("  No API key configured.")
	fmt.Println()
	fmt.Println("  To get your API key:")
	fmt.Println("    1. Open the YesCode console in your browser")
	fmt.Println("    2. Settings > API Keys > Create key")
	fmt.Println()
	fmt.Println("  Then configure it:")
	fmt.Println("    yescode-statusbar setup                          (interactive)")
	fmt.Println("    YESCODE_API_KEY=yc-... yescode-statusbar status  (one-shot)")
	fmt.Println()
}

// currentMode loads the persisted display mode, defaulting to auto when no
// state exists or the database is unavailable.
func currentMode() balance.Mode {
	st, err := store.Open(store.DefaultPath())
	if err != nil {
		return balance.ModeAuto
	}
	defer func() { _ = st.Close() }()

	mode, err := st.DisplayMode()
	if err != nil {
		return balance.ModeAuto
	}
	return balance.ParseMode(mode)
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
