// Package tui provides the interactive Bubble Tea watch view.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/cli"
	"github.com/coderprepares/yescode-statusbar/internal/tui/components"
	"github.com/coderprepares/yescode-statusbar/internal/tui/theme"
	"github.com/coderprepares/yescode-statusbar/internal/yescode"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Fetcher fetches the account profile. Satisfied by *yescode.Client.
type Fetcher interface {
	FetchProfile(ctx context.Context) (*yescode.Profile, error)
}

// ModeStore persists the display mode preference.
type ModeStore interface {
	SetDisplayMode(mode string) error
}

// ProfileMsg is sent when a profile fetch completes.
type ProfileMsg struct {
	Profile *yescode.Profile
	Err     error
	At      time.Time
}

type tickMsg time.Time

// App is the root Bubble Tea model for the watch view.
type App struct {
	fetcher  Fetcher
	modes    ModeStore
	mode     balance.Mode
	interval time.Duration

	profile   *yescode.Profile
	result    balance.Result
	hasResult bool
	stale     bool
	lastErr   error
	fetchedAt time.Time
	fetching  bool

	// Mode selection (huh form). The choice lives behind a pointer so the
	// form's binding survives Bubble Tea's model copies.
	modeForm   *huh.Form
	modeChoice *string

	spinner spinner.Model
	width   int
	height  int
}

// NewApp creates the watch view model.
func NewApp(fetcher Fetcher, modes ModeStore, mode balance.Mode, interval time.Duration) App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	if interval < 10*time.Second {
		interval = 5 * time.Minute
	}

	return App{
		fetcher:  fetcher,
		modes:    modes,
		mode:     mode,
		interval: interval,
		spinner:  sp,
		fetching: true,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, fetchCmd(a.fetcher), tickCmd(a.interval))
}

func fetchCmd(fetcher Fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := fetcher.FetchProfile(ctx)
		return ProfileMsg{Profile: profile, Err: err, At: time.Now()}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.modeForm != nil {
			break // form owns the keyboard
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "r":
			if !a.fetching {
				a.fetching = true
				return a, tea.Batch(a.spinner.Tick, fetchCmd(a.fetcher))
			}
		case "m":
			choice := string(a.mode)
			a.modeChoice = &choice
			a.modeForm = a.newModeForm()
			return a, a.modeForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.fetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(a.interval)}
		if !a.fetching {
			a.fetching = true
			cmds = append(cmds, a.spinner.Tick, fetchCmd(a.fetcher))
		}
		return a, tea.Batch(cmds...)

	case ProfileMsg:
		a.fetching = false
		if msg.Err != nil {
			a.lastErr = msg.Err
			a.stale = a.hasResult
			return a, nil
		}
		a.lastErr = nil
		a.profile = msg.Profile
		a.fetchedAt = msg.At
		return a.classify(), nil
	}

	if a.modeForm != nil {
		return a.updateModeForm(msg)
	}
	return a, nil
}

// classify recomputes the result from the held profile and current mode.
func (a App) classify() App {
	res, err := balance.Classify(a.profile, a.mode)
	if err != nil {
		a.lastErr = err
		a.stale = a.hasResult
		return a
	}
	a.result = res
	a.hasResult = true
	a.stale = false
	return a
}

func (a App) newModeForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(balance.Modes))
	for _, m := range balance.Modes {
		label := string(m)
		if note := a.modeNote(m); note != "" {
			label += " " + note
		}
		options = append(options, huh.NewOption(label, string(m)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display mode").
				Options(options...).
				Value(a.modeChoice),
		),
	)
}

// modeNote annotates modes that would fall back given the current profile.
func (a App) modeNote(m balance.Mode) string {
	if a.profile == nil {
		return ""
	}
	switch m {
	case balance.ModeSubscription:
		if a.profile.SubscriptionPlan == nil {
			return "(no plan, falls back to paygo)"
		}
	case balance.ModeTeam:
		if a.profile.CurrentTeam == nil {
			return "(no team, falls back)"
		}
	}
	return ""
}

func (a App) updateModeForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.modeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.modeForm = f
	}

	if a.modeForm.State == huh.StateCompleted {
		a.mode = balance.ParseMode(*a.modeChoice)
		if a.modes != nil {
			_ = a.modes.SetDisplayMode(string(a.mode))
		}
		a.modeForm = nil
		return a.classify(), nil
	}

	if a.modeForm.State == huh.StateAborted {
		a.modeForm = nil
		return a, nil
	}

	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("YESCODE BALANCE"))
	b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("mode: %s", a.mode)))
	b.WriteString("\n\n")

	if a.modeForm != nil {
		b.WriteString(a.modeForm.View())
		return b.String()
	}

	switch {
	case !a.hasResult && a.fetching:
		b.WriteString("  " + a.spinner.View() + " " + mutedStyle.Render("Fetching balance..."))
	case !a.hasResult && a.lastErr != nil:
		b.WriteString("  " + errStyle.Render(fmt.Sprintf("Fetch failed: %v", a.lastErr)))
	default:
		b.WriteString("  " + components.BalanceLine(a.result, a.stale))
		b.WriteString("\n\n")

		if daily, weekly, ok := balance.Windows(a.profile, a.mode); ok {
			b.WriteString("  " + components.GaugeBar("Daily", daily, 7, 24) + "\n")
			b.WriteString("  " + components.GaugeBar("Weekly", weekly, 7, 24) + "\n")
		}
		if a.profile != nil && a.profile.PayAsYouGoBalance != nil {
			b.WriteString("  " + mutedStyle.Render(
				"Pay-as-you-go: "+cli.FormatMoney(*a.profile.PayAsYouGoBalance)) + "\n")
		}
		if a.result.Warning != "" {
			b.WriteString("  " + errStyle.Render(a.result.Warning) + "\n")
		}
		if a.lastErr != nil {
			b.WriteString("  " + errStyle.Render(fmt.Sprintf("Last refresh failed: %v", a.lastErr)) + "\n")
		}
		if a.fetching {
			b.WriteString("  " + a.spinner.View() + " " + mutedStyle.Render("refreshing") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(components.Footer(a.width, cli.FormatAge(a.fetchedAt)))
	return b.String()
}
