package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/store"
	"github.com/coderprepares/yescode-statusbar/internal/yescode"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [auto|subscription|paygo|team]",
	Short: "Show or set the display mode",
	Long: `Choose which balance the status line surfaces. With no argument an
interactive picker opens, annotating modes your account cannot use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func runMode(_ *cobra.Command, args []string) error {
	st, err := store.Open(store.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if len(args) == 1 {
		mode := balance.ParseMode(args[0])
		if string(mode) != args[0] {
			return fmt.Errorf("unknown mode %q (valid: auto, subscription, paygo, team)", args[0])
		}
		if err := st.SetDisplayMode(string(mode)); err != nil {
			return err
		}
		fmt.Printf("  Display mode set to %s\n", mode)
		return nil
	}

	// Interactive picker. Annotations need the live profile; fetch failures
	// just drop the annotations.
	profile := fetchProfileQuiet()

	current, _ := st.DisplayMode()
	choice := string(balance.ParseMode(current))

	options := make([]huh.Option[string], 0, len(balance.Modes))
	for _, m := range balance.Modes {
		options = append(options, huh.NewOption(modeLabel(m, profile), string(m)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display mode").
				Description("Which balance the status line surfaces").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := st.SetDisplayMode(choice); err != nil {
		return err
	}
	fmt.Printf("  Display mode set to %s\n", choice)
	return nil
}

func modeLabel(m balance.Mode, p *yescode.Profile) string {
	label := string(m)
	if p == nil {
		return label
	}

	switch m {
	case balance.ModeSubscription:
		if p.SubscriptionPlan == nil {
			label += "  (no plan — will show pay-as-you-go)"
		}
	case balance.ModeTeam:
		if p.CurrentTeam == nil {
			label += "  (no team — will fall back)"
		}
	case balance.ModePayGo:
		if p.PayAsYouGoBalance != nil {
			label += fmt.Sprintf("  ($%.2f available)", *p.PayAsYouGoBalance)
		}
	}
	return label
}

func fetchProfileQuiet() *yescode.Profile {
	cfg, _ := config.Load()
	client, err := newClient(cfg)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := client.FetchProfile(ctx)
	if err != nil {
		return nil
	}
	return profile
}
