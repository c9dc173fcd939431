// Package balance classifies an account profile into the single most critical
// reading to surface in a status bar.
package balance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/coderprepares/yescode-statusbar/internal/yescode"
)

// Mode is the user-selected display mode preference.
type Mode string

const (
	ModeAuto         Mode = "auto"
	ModeSubscription Mode = "subscription"
	ModePayGo        Mode = "paygo"
	ModeTeam         Mode = "team"
)

// Modes lists all selectable display modes.
var Modes = []Mode{ModeAuto, ModeSubscription, ModePayGo, ModeTeam}

// ParseMode returns the Mode for s, defaulting to auto for unknown values.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSubscription:
		return ModeSubscription
	case ModePayGo:
		return ModePayGo
	case ModeTeam:
		return ModeTeam
	default:
		return ModeAuto
	}
}

// Category identifies which metric was chosen as the critical one.
type Category string

const (
	CategoryDaily  Category = "daily"
	CategoryWeekly Category = "weekly"
	CategoryPayGo  Category = "payGo"
)

// Severity is the color level for the status line.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// accounts with balance_preference set to this value always display pay-as-you-go
const preferencePayGoOnly = "payg_only"

// Severity thresholds. Subscription and team readings are percentages; the
// pay-as-you-go reading is a raw dollar figure fed through its own cutoffs.
const (
	pctErrorBelow  = 20
	pctWarnBelow   = 50
	paygErrorBelow = 10
	paygWarnBelow  = 25
)

// ErrMalformedProfile indicates the profile was missing a numeric field the
// chosen display path requires. Wrapped with field detail by Classify.
var ErrMalformedProfile = errors.New("balance: malformed profile")

// Result is the classification of one profile snapshot. It is recomputed on
// every refresh and derived solely from the profile and the display mode.
type Result struct {
	Mode        Mode     // effective mode after fallback resolution
	Category    Category
	Percentage  float64 // a dollar amount on the payGo path, not a percentage
	DisplayText string
	TooltipText string
	Severity    Severity
	Warning     string // non-empty when the requested mode was unavailable
}

// Classify maps a profile and display mode preference to exactly one Result.
// It is a pure function: no I/O, no retained state, no panics. An error means
// the profile was missing fields the resolved path requires.
func Classify(p *yescode.Profile, mode Mode) (Result, error) {
	if p == nil {
		return Result{}, fmt.Errorf("%w: nil profile", ErrMalformedProfile)
	}

	mode, warning := resolveMode(p, mode)

	var (
		res Result
		err error
	)
	switch mode {
	case ModePayGo:
		res, err = classifyPayGo(p)
	case ModeTeam:
		res, err = classifyTeam(p)
	default:
		res, err = classifySubscription(p)
	}
	if err != nil {
		return Result{}, err
	}

	res.Mode = mode
	res.Warning = warning
	return res, nil
}

// resolveMode applies the fallback rules: auto picks subscription or
// pay-as-you-go based on plan presence and remaining balance; explicit modes
// fall back with a caller-visible warning when their data is absent.
func resolveMode(p *yescode.Profile, mode Mode) (Mode, string) {
	switch mode {
	case ModeTeam:
		if p.CurrentTeam != nil {
			return ModeTeam, ""
		}
		if p.SubscriptionPlan != nil {
			return ModeSubscription, "no team on this account, showing subscription"
		}
		return ModePayGo, "no team on this account, showing pay-as-you-go"
	case ModeSubscription:
		if p.SubscriptionPlan == nil {
			return ModePayGo, "no subscription plan, showing pay-as-you-go"
		}
		if depleted(p.SubscriptionBalance) {
			return ModePayGo, ""
		}
		return ModeSubscription, ""
	case ModePayGo:
		return ModePayGo, ""
	default: // auto
		if p.BalancePreference == preferencePayGoOnly {
			return ModePayGo, ""
		}
		if p.SubscriptionPlan == nil || depleted(p.SubscriptionBalance) {
			return ModePayGo, ""
		}
		return ModeSubscription, ""
	}
}

// depleted reports whether a subscription balance is exhausted. A nil balance
// is treated as depleted so that auto mode degrades to pay-as-you-go rather
// than failing.
func depleted(balance *float64) bool {
	return balance == nil || *balance <= 0
}

func classifyPayGo(p *yescode.Profile) (Result, error) {
	if p.PayAsYouGoBalance == nil {
		return Result{}, fmt.Errorf("%w: pay_as_you_go_balance missing", ErrMalformedProfile)
	}
	dollars := *p.PayAsYouGoBalance

	return Result{
		Category:    CategoryPayGo,
		Percentage:  dollars,
		DisplayText: fmt.Sprintf("$%.2f", dollars),
		TooltipText: fmt.Sprintf("Pay-as-you-go balance: $%.2f", dollars),
		Severity:    payGoSeverity(dollars),
	}, nil
}

func classifySubscription(p *yescode.Profile) (Result, error) {
	plan := p.SubscriptionPlan
	if plan == nil {
		return Result{}, fmt.Errorf("%w: subscription_plan missing", ErrMalformedProfile)
	}
	if plan.DailyBalance == nil || plan.WeeklyLimit == nil {
		return Result{}, fmt.Errorf("%w: subscription_plan limits missing", ErrMalformedProfile)
	}
	if p.SubscriptionBalance == nil {
		return Result{}, fmt.Errorf("%w: subscription_balance missing", ErrMalformedProfile)
	}
	if p.CurrentWeekSpend == nil {
		return Result{}, fmt.Errorf("%w: current_week_spend missing", ErrMalformedProfile)
	}

	daily := remainingPct(*p.SubscriptionBalance, *plan.DailyBalance)
	weekly := remainingPct(*plan.WeeklyLimit-*p.CurrentWeekSpend, *plan.WeeklyLimit)

	res := pickCritical(daily, weekly)
	res.TooltipText = tooltip("Subscription", daily, weekly, p.PayAsYouGoBalance)
	return res, nil
}

func classifyTeam(p *yescode.Profile) (Result, error) {
	team := p.CurrentTeam
	if team == nil {
		return Result{}, fmt.Errorf("%w: current_team missing", ErrMalformedProfile)
	}
	ms := p.TeamMembership
	if ms == nil {
		return Result{}, fmt.Errorf("%w: team_membership missing", ErrMalformedProfile)
	}
	if team.PerUserDailyBalance == nil || team.WeeklyLimit == nil {
		return Result{}, fmt.Errorf("%w: team limits missing", ErrMalformedProfile)
	}
	if ms.DailySubscriptionSpending == nil || ms.CurrentWeekSpend == nil {
		return Result{}, fmt.Errorf("%w: team spend missing", ErrMalformedProfile)
	}

	daily := remainingPct(*team.PerUserDailyBalance-*ms.DailySubscriptionSpending, *team.PerUserDailyBalance)
	weekly := remainingPct(*team.WeeklyLimit-*ms.CurrentWeekSpend, *team.WeeklyLimit)

	res := pickCritical(daily, weekly)
	res.TooltipText = tooltip("Team "+team.Name, daily, weekly, p.PayAsYouGoBalance)
	return res, nil
}

// Windows returns the daily and weekly remaining percentages for the resolved
// display path. ok is false on the pay-as-you-go path or when the profile is
// missing the fields the path needs.
func Windows(p *yescode.Profile, mode Mode) (daily, weekly float64, ok bool) {
	if p == nil {
		return 0, 0, false
	}

	mode, _ = resolveMode(p, mode)
	switch mode {
	case ModeSubscription:
		if _, err := classifySubscription(p); err != nil {
			return 0, 0, false
		}
		plan := p.SubscriptionPlan
		daily = remainingPct(*p.SubscriptionBalance, *plan.DailyBalance)
		weekly = remainingPct(*plan.WeeklyLimit-*p.CurrentWeekSpend, *plan.WeeklyLimit)
		return daily, weekly, true
	case ModeTeam:
		if _, err := classifyTeam(p); err != nil {
			return 0, 0, false
		}
		team, ms := p.CurrentTeam, p.TeamMembership
		daily = remainingPct(*team.PerUserDailyBalance-*ms.DailySubscriptionSpending, *team.PerUserDailyBalance)
		weekly = remainingPct(*team.WeeklyLimit-*ms.CurrentWeekSpend, *team.WeeklyLimit)
		return daily, weekly, true
	default:
		return 0, 0, false
	}
}

// pickCritical chooses the lower of the two percentages. Ties go to daily.
func pickCritical(daily, weekly float64) Result {
	cat := CategoryDaily
	pct := daily
	if weekly < daily {
		cat = CategoryWeekly
		pct = weekly
	}

	return Result{
		Category:    cat,
		Percentage:  pct,
		DisplayText: fmt.Sprintf("%.0f%%", math.Round(pct)),
		Severity:    pctSeverity(pct),
	}
}

// remainingPct computes remaining/limit as a percentage, clamped to zero when
// negative. A zero or negative limit means fully depleted, never NaN or Inf.
func remainingPct(remaining, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	pct := remaining / limit * 100
	if pct < 0 || math.IsNaN(pct) {
		return 0
	}
	return pct
}

func tooltip(label string, daily, weekly float64, payg *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", label)
	fmt.Fprintf(&b, "Daily: %.0f%% remaining\n", math.Round(daily))
	fmt.Fprintf(&b, "Weekly: %.0f%% remaining", math.Round(weekly))
	if payg != nil {
		fmt.Fprintf(&b, "\nPay-as-you-go: $%.2f", *payg)
	}
	return b.String()
}

func pctSeverity(pct float64) Severity {
	switch {
	case pct < pctErrorBelow:
		return SeverityError
	case pct < pctWarnBelow:
		return SeverityWarning
	default:
		return SeverityNone
	}
}

func payGoSeverity(dollars float64) Severity {
	switch {
	case dollars < paygErrorBelow:
		return SeverityError
	case dollars < paygWarnBelow:
		return SeverityWarning
	default:
		return SeverityNone
	}
}
