// Package daemon provides the long-running background balance monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/coderprepares/yescode-statusbar/internal/balance"
	"github.com/coderprepares/yescode-statusbar/internal/yescode"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshReason says what triggered a refresh cycle.
type RefreshReason string

const (
	ReasonAutomatic     RefreshReason = "automatic"
	ReasonManual        RefreshReason = "manual"
	ReasonSettingChange RefreshReason = "settingChange"
)

// Fetcher fetches the account profile. Satisfied by *yescode.Client.
type Fetcher interface {
	FetchProfile(ctx context.Context) (*yescode.Profile, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr     string
	Interval time.Duration
	Schedule string // cron expression; takes precedence over Interval
	ModeFn   func() balance.Mode
	// WatchPaths are files whose changes trigger a settingChange refresh
	// (config file, preference database).
	WatchPaths []string
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time     `json:"started_at"`
	LastRefreshAt   time.Time     `json:"last_refresh_at"`
	LastSuccessAt   time.Time     `json:"last_success_at"`
	RefreshCount    int64         `json:"refresh_count"`
	LastReason      RefreshReason `json:"last_reason,omitempty"`
	LastError       string        `json:"last_error,omitempty"`
	Balance         *Reading      `json:"balance,omitempty"`
	SubscriberCount int           `json:"subscriber_count"`
}

// Reading is the latest classification plus its fetch metadata.
type Reading struct {
	Mode        balance.Mode     `json:"mode"`
	Category    balance.Category `json:"category"`
	Percentage  float64          `json:"percentage"`
	DisplayText string           `json:"display_text"`
	TooltipText string           `json:"tooltip_text"`
	Severity    balance.Severity `json:"severity"`
	Warning     string           `json:"warning,omitempty"`
	FetchedAt   time.Time        `json:"fetched_at"`
	Stale       bool             `json:"stale"`
}

// Service polls the balance API and serves the latest reading over HTTP.
// A failed refresh never clears the previously good reading; it only marks
// it stale.
type Service struct {
	cfg     Config
	fetcher Fetcher
	log     *zap.Logger
	metrics *metrics

	mu           sync.RWMutex
	startedAt    time.Time
	lastRefresh  time.Time
	lastSuccess  time.Time
	refreshCount int64
	lastReason   RefreshReason
	lastError    string
	hasReading   bool
	reading      Reading

	nextSubID int
	subs      map[int]chan Reading
}

// New returns a new daemon service with the provided config.
func New(cfg Config, fetcher Fetcher, log *zap.Logger) *Service {
	if cfg.Interval < 10*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.ModeFn == nil {
		cfg.ModeFn = func() balance.Mode { return balance.ModeAuto }
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		log:       log,
		metrics:   newMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Reading),
	}
}

// Run starts HTTP endpoints and refresh scheduling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/balance", s.handleBalance)
	mux.HandleFunc("/v1/refresh", s.handleRefresh)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stopSchedule, err := s.startSchedule(ctx)
	if err != nil {
		return err
	}
	defer stopSchedule()

	watcher := s.startWatcher(ctx)
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	// Seed an initial reading so status is useful immediately.
	s.Refresh(ctx, ReasonAutomatic)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// startSchedule runs either the cron schedule or the interval ticker in the
// background, returning a stop function.
func (s *Service) startSchedule(ctx context.Context) (func(), error) {
	if s.cfg.Schedule != "" {
		if _, err := cron.ParseStandard(s.cfg.Schedule); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.Schedule, err)
		}

		c := cron.New()
		_, err := c.AddFunc(s.cfg.Schedule, func() {
			s.Refresh(ctx, ReasonAutomatic)
		})
		if err != nil {
			return nil, fmt.Errorf("scheduling refresh: %w", err)
		}
		c.Start()
		s.log.Info("refresh schedule started", zap.String("schedule", s.cfg.Schedule))
		return func() { c.Stop() }, nil
	}

	ticker := time.NewTicker(s.cfg.Interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx, ReasonAutomatic)
			}
		}
	}()
	s.log.Info("refresh ticker started", zap.Duration("interval", s.cfg.Interval))
	return func() { close(done) }, nil
}

// startWatcher triggers a settingChange refresh when a watched file changes.
// Watch failures are logged and ignored; the daemon works without them.
func (s *Service) startWatcher(ctx context.Context) *fsnotify.Watcher {
	if len(s.cfg.WatchPaths) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("settings watcher unavailable", zap.Error(err))
		return nil
	}

	watched := make(map[string]bool, len(s.cfg.WatchPaths))
	for _, p := range s.cfg.WatchPaths {
		watched[filepath.Clean(p)] = true
		// Watch the directory: editors replace files instead of writing in place.
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			s.log.Warn("cannot watch settings path", zap.String("path", p), zap.Error(err))
		}
	}

	go func() {
		// Debounce bursts of write events from a single save.
		var pending *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !watched[filepath.Clean(ev.Name)] {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(300*time.Millisecond, func() {
					s.log.Info("settings changed, refreshing", zap.String("path", ev.Name))
					s.Refresh(ctx, ReasonSettingChange)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("settings watcher error", zap.Error(err))
			}
		}
	}()

	return watcher
}

// Refresh performs one fetch-classify-publish cycle. It is safe to call from
// any goroutine; overlapping calls are independent and last-write-wins.
func (s *Service) Refresh(ctx context.Context, reason RefreshReason) {
	now := time.Now()
	mode := s.cfg.ModeFn()
	s.metrics.refreshes.WithLabelValues(string(reason)).Inc()

	profile, err := s.fetcher.FetchProfile(ctx)
	if err != nil {
		s.failRefresh(now, reason, err)
		s.metrics.fetchErrors.Inc()
		s.log.Warn("balance fetch failed", zap.String("reason", string(reason)), zap.Error(err))
		return
	}

	res, err := balance.Classify(profile, mode)
	if err != nil {
		s.failRefresh(now, reason, err)
		s.metrics.classifyErrors.Inc()
		s.log.Error("profile classification failed", zap.Error(err))
		return
	}

	reading := Reading{
		Mode:        res.Mode,
		Category:    res.Category,
		Percentage:  res.Percentage,
		DisplayText: res.DisplayText,
		TooltipText: res.TooltipText,
		Severity:    res.Severity,
		Warning:     res.Warning,
		FetchedAt:   now,
	}

	s.mu.Lock()
	s.reading = reading
	s.hasReading = true
	s.lastRefresh = now
	s.lastSuccess = now
	s.lastReason = reason
	s.lastError = ""
	s.refreshCount++
	s.mu.Unlock()

	s.metrics.observe(res)
	s.publish(reading)

	s.log.Info("balance refreshed",
		zap.String("reason", string(reason)),
		zap.String("mode", string(res.Mode)),
		zap.String("category", string(res.Category)),
		zap.Float64("percentage", res.Percentage),
		zap.String("severity", string(res.Severity)),
	)
}

// failRefresh records a failed cycle. The previous reading is kept and only
// marked stale.
func (s *Service) failRefresh(at time.Time, reason RefreshReason, err error) {
	s.mu.Lock()
	s.lastRefresh = at
	s.lastReason = reason
	s.lastError = err.Error()
	s.refreshCount++
	if s.hasReading {
		s.reading.Stale = true
	}
	reading := s.reading
	hasReading := s.hasReading
	s.mu.Unlock()

	if hasReading {
		s.publish(reading)
	}
}

// Latest returns the most recent reading, or false if none succeeded yet.
func (s *Service) Latest() (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reading, s.hasReading
}

func (s *Service) currentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastRefreshAt:   s.lastRefresh,
		LastSuccessAt:   s.lastSuccess,
		RefreshCount:    s.refreshCount,
		LastReason:      s.lastReason,
		LastError:       s.lastError,
		SubscriberCount: len(s.subs),
	}
	if s.hasReading {
		r := s.reading
		st.Balance = &r
	}
	return st
}

func (s *Service) publish(r Reading) {
	s.mu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- r:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.currentStatus())
}

func (s *Service) handleBalance(w http.ResponseWriter, _ *http.Request) {
	reading, ok := s.Latest()
	if !ok {
		http.Error(w, "no reading yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reading)
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	s.Refresh(r.Context(), ReasonManual)

	reading, ok := s.Latest()
	if !ok {
		st := s.currentStatus()
		http.Error(w, "refresh failed: "+st.LastError, http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reading)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Reading, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	if reading, ok := s.Latest(); ok {
		writeSSE(w, reading)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case reading := <-ch:
			writeSSE(w, reading)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, r Reading) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: balance\n")
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Reading) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
