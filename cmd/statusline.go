package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/cli"
	"github.com/coderprepares/yescode-statusbar/internal/config"
	"github.com/coderprepares/yescode-statusbar/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagLineFormat  string
	flagLineRefresh bool
	flagLineNoColor bool
)

var statuslineCmd = &cobra.Command{
	Use:   "statusline",
	Short: "Print a single status-bar line (for tmux, waybar, etc.)",
	Long: `Print the current balance as one line suitable for embedding in a
status bar. Reads from the running daemon when available, otherwise fetches
directly. Exit status is 0 even on fetch failure so status bars keep ticking.`,
	RunE: runStatusline,
}

func init() {
	statuslineCmd.Flags().StringVar(&flagLineFormat, "format", "text", "Output format: text or json")
	statuslineCmd.Flags().BoolVar(&flagLineRefresh, "refresh", false, "Force a refresh through the daemon")
	statuslineCmd.Flags().BoolVar(&flagLineNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.AddCommand(statuslineCmd)
}

func runStatusline(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	if reading, ok := readingFromDaemon(cfg.Daemon.Addr, flagLineRefresh); ok {
		printReading(*reading)
		return nil
	}

	// No daemon: fetch and classify directly.
	client, err := newClient(cfg)
	if err != nil {
		fmt.Println("yescode: no key")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	profile, err := client.FetchProfile(ctx)
	if err != nil {
		fmt.Println("yescode: offline")
		return nil
	}

	res, err := balance.Classify(profile, currentMode())
	if err != nil {
		fmt.Println("yescode: error")
		return nil
	}

	printReading(daemon.Reading{
		Mode:        res.Mode,
		Category:    res.Category,
		Percentage:  res.Percentage,
		DisplayText: res.DisplayText,
		TooltipText: res.TooltipText,
		Severity:    res.Severity,
		Warning:     res.Warning,
		FetchedAt:   time.Now(),
	})
	return nil
}

// readingFromDaemon asks the local daemon for its latest reading. refresh
// forces a manual refresh cycle first (the status-bar click action).
func readingFromDaemon(addr string, refresh bool) (*daemon.Reading, bool) {
	if addr == "" {
		return nil, false
	}

	client := &http.Client{Timeout: 20 * time.Second}
	base := "http://" + addr

	var resp *http.Response
	var err error
	if refresh {
		resp, err = client.Post(base+"/v1/refresh", "application/json", nil)
	} else {
		resp, err = client.Get(base + "/v1/balance")
	}
	if err != nil {
		return nil, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var reading daemon.Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, false
	}
	return &reading, true
}

func printReading(r daemon.Reading) {
	if flagLineFormat == "json" {
		data, _ := json.Marshal(r)
		fmt.Println(string(data))
		return
	}

	res := balance.Result{
		Category:    r.Category,
		DisplayText: r.DisplayText,
		Severity:    r.Severity,
	}
	if flagLineNoColor {
		fmt.Println(cli.PlainStatusLine(res, r.Stale))
		return
	}
	fmt.Println(cli.StatusLine(res, r.Stale))
}
