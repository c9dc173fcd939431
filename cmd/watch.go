package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/secret"
	"github.com/coderprepares/yescode-statusbar/internal/store"
	"github.com/coderprepares/yescode-statusbar/internal/tui"
	"github.com/coderprepares/yescode-statusbar/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live balance dashboard in the terminal",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Appearance.Theme != "" {
		theme.SetActive(cfg.Appearance.Theme)
	}

	client, err := newClient(cfg)
	if err != nil {
		if errors.Is(err, secret.ErrNotFound) {
			printKeyHelp()
			return errors.New("no API key configured")
		}
		return err
	}

	st, err := store.Open(store.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}
	defer func() { _ = st.Close() }()

	app := tui.NewApp(client, st, currentMode(), time.Duration(cfg.Refresh.Interval))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
