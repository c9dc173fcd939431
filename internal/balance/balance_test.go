package balance

import (
	"errors"
	"strings"
	"testing"

	"github.com/coderprepares/yescode-statusbar/internal/yescode"
)

func f(v float64) *float64 { return &v }

// subscribedProfile returns a profile with a plan, a positive balance, and a
// pay-as-you-go standby balance.
func subscribedProfile() *yescode.Profile {
	return &yescode.Profile{
		SubscriptionBalance: f(40),
		PayAsYouGoBalance:   f(12.34),
		CurrentWeekSpend:    f(100),
		SubscriptionPlan: &yescode.Plan{
			DailyBalance: f(100),
			WeeklyLimit:  f(500),
		},
	}
}

func teamProfile() *yescode.Profile {
	p := subscribedProfile()
	p.CurrentTeam = &yescode.Team{
		Name:                "acme",
		DailyBalance:        f(1000),
		PerUserDailyBalance: f(50),
		WeeklyLimit:         f(200),
	}
	p.TeamMembership = &yescode.TeamMembership{
		CurrentWeekSpend:          f(20),
		DailySubscriptionSpending: f(10),
	}
	return p
}

func TestClassifyWeeklyWins(t *testing.T) {
	p := subscribedProfile()
	p.CurrentWeekSpend = f(450) // daily 40%, weekly 10%

	res, err := Classify(p, ModeAuto)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != CategoryWeekly {
		t.Fatalf("category = %s, want weekly", res.Category)
	}
	if res.Percentage != 10 {
		t.Fatalf("percentage = %.2f, want 10", res.Percentage)
	}
	if !strings.Contains(res.DisplayText, "10%") {
		t.Fatalf("display text %q does not contain 10%%", res.DisplayText)
	}
}

func TestClassifyTieGoesToDaily(t *testing.T) {
	p := subscribedProfile()
	p.SubscriptionBalance = f(30) // daily 30%
	p.CurrentWeekSpend = f(350)   // weekly 30%

	res, err := Classify(p, ModeAuto)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != CategoryDaily {
		t.Fatalf("category = %s, want daily on tie", res.Category)
	}
}

func TestClassifyDepletedBalanceFallsToPayGo(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeSubscription} {
		for _, bal := range []float64{0, -5} {
			p := subscribedProfile()
			p.SubscriptionBalance = f(bal)

			res, err := Classify(p, mode)
			if err != nil {
				t.Fatalf("Classify(mode=%s, bal=%.0f): %v", mode, bal, err)
			}
			if res.Category != CategoryPayGo {
				t.Fatalf("mode=%s bal=%.0f: category = %s, want payGo", mode, bal, res.Category)
			}
			if res.DisplayText != "$12.34" {
				t.Fatalf("mode=%s bal=%.0f: display = %q, want $12.34", mode, bal, res.DisplayText)
			}
			if strings.Contains(res.DisplayText, "-") {
				t.Fatalf("display %q shows a negative value", res.DisplayText)
			}
		}
	}
}

func TestClassifyNoPlan(t *testing.T) {
	p := subscribedProfile()
	p.SubscriptionPlan = nil

	// Auto degrades silently.
	res, err := Classify(p, ModeAuto)
	if err != nil {
		t.Fatalf("Classify auto: %v", err)
	}
	if res.Category != CategoryPayGo || res.Warning != "" {
		t.Fatalf("auto: category=%s warning=%q, want silent payGo", res.Category, res.Warning)
	}

	// Explicit subscription mode warns.
	res, err = Classify(p, ModeSubscription)
	if err != nil {
		t.Fatalf("Classify subscription: %v", err)
	}
	if res.Category != CategoryPayGo {
		t.Fatalf("subscription: category = %s, want payGo", res.Category)
	}
	if res.Warning == "" {
		t.Fatal("subscription fallback produced no warning")
	}
}

func TestClassifyPayGoOnlyPreference(t *testing.T) {
	p := subscribedProfile()
	p.BalancePreference = "payg_only"

	res, err := Classify(p, ModeAuto)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != CategoryPayGo {
		t.Fatalf("category = %s, want payGo for payg_only preference", res.Category)
	}
}

func TestClassifyZeroLimitsProduceZeroPercent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*yescode.Profile)
		want   Category
	}{
		{"zero daily balance", func(p *yescode.Profile) { p.SubscriptionPlan.DailyBalance = f(0) }, CategoryDaily},
		{"zero weekly limit", func(p *yescode.Profile) { p.SubscriptionPlan.WeeklyLimit = f(0) }, CategoryWeekly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := subscribedProfile()
			tt.mutate(p)

			res, err := Classify(p, ModeAuto)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if res.Percentage != 0 {
				t.Fatalf("percentage = %v, want 0", res.Percentage)
			}
			if res.Category != tt.want {
				t.Fatalf("category = %s, want %s", res.Category, tt.want)
			}
			if strings.ContainsAny(res.DisplayText, "NI") { // NaN / Inf never rendered
				t.Fatalf("display text %q contains a non-finite value", res.DisplayText)
			}
		})
	}
}

func TestClassifyTooltipAlwaysListsBothWindows(t *testing.T) {
	p := subscribedProfile()
	p.CurrentWeekSpend = f(450)

	res, err := Classify(p, ModeAuto)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	for _, want := range []string{"Daily: 40%", "Weekly: 10%", "$12.34"} {
		if !strings.Contains(res.TooltipText, want) {
			t.Fatalf("tooltip %q missing %q", res.TooltipText, want)
		}
	}
}

func TestClassifyTeam(t *testing.T) {
	p := teamProfile()

	res, err := Classify(p, ModeTeam)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	// Daily (50-10)/50 = 80%, weekly (200-20)/200 = 90% -> daily wins.
	if res.Category != CategoryDaily {
		t.Fatalf("category = %s, want daily", res.Category)
	}
	if res.Percentage != 80 {
		t.Fatalf("percentage = %.2f, want 80", res.Percentage)
	}
	if !strings.Contains(res.TooltipText, "acme") {
		t.Fatalf("tooltip %q missing team name", res.TooltipText)
	}
}

func TestClassifyTeamFallback(t *testing.T) {
	p := subscribedProfile() // no team

	res, err := Classify(p, ModeTeam)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Mode != ModeSubscription {
		t.Fatalf("effective mode = %s, want subscription", res.Mode)
	}
	if res.Warning == "" {
		t.Fatal("team fallback produced no warning")
	}

	p.SubscriptionPlan = nil
	res, err = Classify(p, ModeTeam)
	if err != nil {
		t.Fatalf("Classify without plan: %v", err)
	}
	if res.Category != CategoryPayGo {
		t.Fatalf("category = %s, want payGo", res.Category)
	}
}

func TestClassifyMalformedProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *yescode.Profile
		mode    Mode
	}{
		{"nil profile", nil, ModeAuto},
		{"paygo balance missing", &yescode.Profile{}, ModePayGo},
		{
			"plan limits missing",
			&yescode.Profile{
				SubscriptionBalance: f(10),
				SubscriptionPlan:    &yescode.Plan{},
			},
			ModeSubscription,
		},
		{
			"team membership spend missing",
			func() *yescode.Profile {
				p := teamProfile()
				p.TeamMembership.CurrentWeekSpend = nil
				return p
			}(),
			ModeTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.profile, tt.mode)
			if !errors.Is(err, ErrMalformedProfile) {
				t.Fatalf("err = %v, want ErrMalformedProfile", err)
			}
		})
	}
}

func TestSeverityThresholds(t *testing.T) {
	tests := []struct {
		pct  float64
		want Severity
	}{
		{0, SeverityError},
		{19.9, SeverityError},
		{20, SeverityWarning},
		{49.9, SeverityWarning},
		{50, SeverityNone},
		{100, SeverityNone},
	}
	for _, tt := range tests {
		if got := pctSeverity(tt.pct); got != tt.want {
			t.Errorf("pctSeverity(%.1f) = %s, want %s", tt.pct, got, tt.want)
		}
	}

	paygTests := []struct {
		dollars float64
		want    Severity
	}{
		{0, SeverityError},
		{9.99, SeverityError},
		{10, SeverityWarning},
		{25, SeverityNone},
		{100, SeverityNone},
	}
	for _, tt := range paygTests {
		if got := payGoSeverity(tt.dollars); got != tt.want {
			t.Errorf("payGoSeverity(%.2f) = %s, want %s", tt.dollars, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"auto", ModeAuto},
		{"Subscription", ModeSubscription},
		{" paygo ", ModePayGo},
		{"team", ModeTeam},
		{"nonsense", ModeAuto},
		{"", ModeAuto},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
