package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/secret"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, _ := config.Load()
	secrets := secret.NewFileStore(config.Dir())

	fmt.Println()
	fmt.Println("  Welcome to yescode-statusbar!")
	fmt.Println()

	// 1. API key
	fmt.Println("  1. YesCode API key")
	fmt.Println("     Console > Settings > API Keys > Create key.")
	if existing, err := secrets.Retrieve(); err == nil {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		if err := secrets.Save(apiKey); err != nil {
			return fmt.Errorf("saving API key: %w", err)
		}
	}
	fmt.Println()

	// 2. Refresh cadence
	fmt.Println("  2. Refresh cadence")
	fmt.Println("     (1) every minute")
	fmt.Println("     (2) every 5 minutes [default]")
	fmt.Println("     (3) every 15 minutes")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Refresh.Interval = config.Duration(time.Minute)
	case "3":
		cfg.Refresh.Interval = config.Duration(15 * time.Minute)
	default:
		cfg.Refresh.Interval = config.Duration(5 * time.Minute)
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `yescode-statusbar setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
