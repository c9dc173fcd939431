package yescode

import "time"

// Plan holds subscription plan limits. Present only for subscribed accounts.
type Plan struct {
	DailyBalance *float64 `json:"daily_balance"`
	WeeklyLimit  *float64 `json:"weekly_limit"`
}

// Team holds team-level limits for accounts that belong to a team.
type Team struct {
	Name                string   `json:"name"`
	DailyBalance        *float64 `json:"daily_balance"`
	PerUserDailyBalance *float64 `json:"per_user_daily_balance"`
	WeeklyLimit         *float64 `json:"weekly_limit"`
}

// TeamMembership holds the caller's own spend within their team.
type TeamMembership struct {
	CurrentWeekSpend          *float64 `json:"current_week_spend"`
	DailySubscriptionSpending *float64 `json:"daily_subscription_spending"`
}

// Profile is the account snapshot returned by the console profile endpoint.
// Optional sections and numerics are pointers so that absent fields are
// distinguishable from zero values.
type Profile struct {
	Email               string          `json:"email"`
	SubscriptionBalance *float64        `json:"subscription_balance"`
	PayAsYouGoBalance   *float64        `json:"pay_as_you_go_balance"`
	CurrentWeekSpend    *float64        `json:"current_week_spend"`
	SubscriptionPlan    *Plan           `json:"subscription_plan"`
	BalancePreference   string          `json:"balance_preference"`
	CurrentTeam         *Team           `json:"current_team"`
	TeamMembership      *TeamMembership `json:"team_membership"`
}

// Snapshot pairs a fetched profile with its fetch time. Error is set when the
// fetch failed; a snapshot never carries both a profile and an error.
type Snapshot struct {
	Profile   *Profile
	FetchedAt time.Time
	Error     error
}
