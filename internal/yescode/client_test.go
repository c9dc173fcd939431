package yescode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if _, err := NewClient("   ", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey for whitespace key, got %v", err)
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	c, err := NewClient("yk-test", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, defaultBaseURL)
	}

	c, err = NewClient("yk-test", "http://localhost:9999/")
	if err != nil {
		t.Fatal(err)
	}
	if c.baseURL != "http://localhost:9999" {
		t.Errorf("trailing slash not trimmed: %q", c.baseURL)
	}
}

func TestFetchProfile(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"subscription_balance": 12.5,
			"pay_as_you_go_balance": 3.25,
			"current_week_spend": 40,
			"balance_preference": "subscription_first",
			"subscription_plan": {"daily_balance": 25, "weekly_limit": 100}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient("yk-test", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	p, err := c.FetchProfile(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if gotKey != "yk-test" {
		t.Errorf("X-API-Key = %q, want %q", gotKey, "yk-test")
	}
	if gotPath != "/v1/user/profile" {
		t.Errorf("path = %q, want /v1/user/profile", gotPath)
	}
	if p.SubscriptionBalance == nil || *p.SubscriptionBalance != 12.5 {
		t.Errorf("SubscriptionBalance = %v, want 12.5", p.SubscriptionBalance)
	}
	if p.SubscriptionPlan == nil || p.SubscriptionPlan.WeeklyLimit == nil || *p.SubscriptionPlan.WeeklyLimit != 100 {
		t.Errorf("SubscriptionPlan = %+v, want weekly limit 100", p.SubscriptionPlan)
	}
	if p.BalancePreference != "subscription_first" {
		t.Errorf("BalancePreference = %q", p.BalancePreference)
	}
}

func TestFetchProfileStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, err := NewClient("yk-test", srv.URL)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.FetchProfile(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchProfileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient("yk-test", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchProfile(context.Background()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestFetchProfileMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"subscription_balance": `))
	}))
	defer srv.Close()

	c, err := NewClient("yk-test", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchProfile(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
