package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/cli"
	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/secret"
	"github.com/coderprepares/yescode-statusbar/internal/yescode"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current balance breakdown",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	client, err := newClient(cfg)
	if err != nil {
		if errors.Is(err, secret.ErrNotFound) {
			printKeyHelp()
			return errors.New("no API key configured")
		}
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching balance...\n")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := client.FetchProfile(ctx)
	if err != nil {
		if errors.Is(err, yescode.ErrUnauthorized) {
			return errors.New("API key invalid or revoked — create a fresh one in the console")
		}
		if errors.Is(err, yescode.ErrRateLimited) {
			return errors.New("rate limited by the console API — try again in a minute")
		}
		return fmt.Errorf("fetch failed: %w", err)
	}

	mode := currentMode()
	res, err := balance.Classify(profile, mode)
	if err != nil {
		return fmt.Errorf("unexpected profile shape: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("YESCODE BALANCE"))
	fmt.Println()

	if profile.Email != "" {
		fmt.Printf("  Account: %s\n", profile.Email)
	}
	fmt.Printf("  Mode:    %s", mode)
	if res.Mode != mode {
		fmt.Printf(" (showing %s)", res.Mode)
	}
	fmt.Println()
	fmt.Println()

	fmt.Printf("  %s\n\n", cli.StatusLine(res, false))

	if daily, weekly, ok := balance.Windows(profile, mode); ok {
		fmt.Printf("  Daily    %s  %s\n", cli.MiniBar(daily, 20), cli.FormatPercent(daily))
		fmt.Printf("  Weekly   %s  %s\n", cli.MiniBar(weekly, 20), cli.FormatPercent(weekly))
		fmt.Println()
	}
	fmt.Print(cli.RenderBreakdown(res))

	fmt.Printf("\n  Fetched at %s\n\n", time.Now().Format("3:04:05 PM"))
	return nil
}
