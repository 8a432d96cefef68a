// Package session owns the client's authentication lifecycle: it persists the
// bearer token and the time of the last user interaction, renews the latter
// on tracked activity, and ends the session after a period of inactivity.
//
// The session moves between two states:
//
//	Unauthenticated --Login/Restore--> Authenticated
//	Authenticated --RecordActivity--> Authenticated
//	Authenticated --Logout/expiry/Invalidate--> Unauthenticated
//
// The expiry ticker and the activity subscription exist only while
// Authenticated; both are acquired on entry and released on every exit.
package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/museum/internal/clock"
	"github.com/naveenspark/museum/internal/logging"
	"github.com/naveenspark/museum/internal/metrics"
	"github.com/naveenspark/museum/internal/store"
	"github.com/naveenspark/museum/pkg/domain"
)

// Persisted keys. LastActivityKey holds epoch milliseconds in base 10.
const (
	TokenKey        = "token"
	LastActivityKey = "lastActivity"
)

// Defaults for the inactivity policy.
const (
	DefaultTimeout       = 5 * time.Minute
	DefaultCheckInterval = 30 * time.Second
)

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (token string, err error)
	Register(ctx context.Context, identifier, secret string) error
}

// ProfileFetcher resolves the user a token belongs to.
type ProfileFetcher interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Manager is the session state machine. It is safe for concurrent use.
// Collaborator calls are never made while the internal lock is held, and
// subscribers are notified after it is released.
type Manager struct {
	auth     Authenticator
	profiles ProfileFetcher
	store    store.Store
	clock    clock.Clock
	activity ActivitySource
	tracked  map[ActivityKind]bool
	timeout  time.Duration
	interval time.Duration
	log      zerolog.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	token   string
	user    *domain.User
	release func()
	seq     uint64

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithTimeout sets the inactivity timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithCheckInterval sets how often expiry is checked.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithActivitySource sets where user interactions come from.
func WithActivitySource(src ActivitySource) Option {
	return func(m *Manager) { m.activity = src }
}

// WithTrackedActivities replaces the set of interactions that renew a session.
func WithTrackedActivities(kinds ...ActivityKind) Option {
	return func(m *Manager) {
		m.tracked = make(map[ActivityKind]bool, len(kinds))
		for _, k := range kinds {
			m.tracked[k] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics records transitions on m.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager returns a Manager in the Unauthenticated state. Call Restore to
// resume a persisted session.
func NewManager(auth Authenticator, profiles ProfileFetcher, st store.Store, opts ...Option) *Manager {
	m := &Manager{
		auth:     auth,
		profiles: profiles,
		store:    st,
		clock:    clock.Real{},
		timeout:  DefaultTimeout,
		interval: DefaultCheckInterval,
		log:      logging.WithComponent("session"),
		subs:     make(map[int]func(State)),
	}
	WithTrackedActivities(DefaultTrackedActivities...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to receive every state change and returns a
// function that unregisters it. fn runs on the goroutine that caused the
// change and may call back into the Manager.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked(ReasonNone, nil)
}

// Token returns the current bearer token, or "" when Unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Login authenticates with the backend, loads the user's profile and enters
// Authenticated. On failure the previous state is left untouched and an
// *AuthenticationError is returned.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (State, error) {
	token, err := m.auth.Login(ctx, identifier, secret)
	if err != nil {
		m.metrics.LoginFailed()
		m.log.Warn().Err(err).Msg("login rejected")
		return m.State(), &AuthenticationError{Reason: reasonOf(err, fallbackLoginReason), Err: err}
	}
	user, err := m.profiles.CurrentUser(ctx, token)
	if err != nil {
		m.metrics.LoginFailed()
		m.log.Warn().Err(err).Msg("profile lookup failed after login")
		return m.State(), &AuthenticationError{Reason: reasonOf(err, fallbackLoginReason), Err: err}
	}

	m.mu.Lock()
	if err := m.persistLocked(token); err != nil {
		m.mu.Unlock()
		m.metrics.LoginFailed()
		m.log.Error().Err(err).Msg("persist session")
		return m.State(), &AuthenticationError{Reason: "could not save session", Err: err}
	}
	st := m.enterLocked(token, user, ReasonLogin)
	m.mu.Unlock()

	m.log.Info().Int("user_id", user.ID).Bool("admin", user.IsAdmin).Msg("logged in")
	m.notify(st)
	return st, nil
}

// Register creates an account. Session state is never touched.
func (m *Manager) Register(ctx context.Context, identifier, secret string) error {
	if err := m.auth.Register(ctx, identifier, secret); err != nil {
		m.metrics.Registration(false)
		m.log.Info().Err(err).Msg("registration rejected")
		return &RegistrationError{Reason: reasonOf(err, fallbackRegistrationReason), Err: err}
	}
	m.metrics.Registration(true)
	return nil
}

// Restore resumes a persisted session. An expired or missing session leaves
// the Manager Unauthenticated; a token the backend no longer accepts is
// cleared. The returned state is the one in effect afterwards.
func (m *Manager) Restore(ctx context.Context) State {
	m.mu.Lock()
	token, ok, err := m.store.Get(TokenKey)
	if err != nil {
		m.log.Warn().Err(err).Msg("read persisted token")
	}
	if err != nil || !ok || token == "" {
		st := m.stateLocked(ReasonNone, nil)
		m.mu.Unlock()
		return st
	}
	if m.expiredLocked() {
		m.clearPersistedLocked()
		st := m.stateLocked(ReasonExpired, ErrSessionExpired)
		m.mu.Unlock()
		m.log.Info().Msg("persisted session expired")
		return st
	}
	m.writeActivityLocked()
	m.mu.Unlock()

	user, err := m.profiles.CurrentUser(ctx, token)

	m.mu.Lock()
	if err != nil {
		// Only clear what this call read; a concurrent Login may have replaced it.
		if cur, _, _ := m.store.Get(TokenKey); cur == token {
			m.clearPersistedLocked()
		}
		st := m.stateLocked(ReasonRejected, ErrSessionExpired)
		m.mu.Unlock()
		m.log.Warn().Err(err).Msg("persisted token rejected")
		return st
	}
	if m.token != "" {
		// A Login completed while the profile was loading; keep it.
		st := m.stateLocked(ReasonNone, nil)
		m.mu.Unlock()
		return st
	}
	st := m.enterLocked(token, user, ReasonRestored)
	m.mu.Unlock()

	m.log.Info().Int("user_id", user.ID).Msg("session restored")
	m.notify(st)
	return st
}

// Logout ends the session. It always succeeds and is idempotent.
func (m *Manager) Logout() {
	m.end(ReasonLogout, nil, "")
}

// Invalidate ends the session because the backend rejected token. It is a
// no-op when token is no longer the current one.
func (m *Manager) Invalidate(token string) {
	m.end(ReasonRejected, ErrSessionExpired, token)
}

// IsSessionExpired reports whether the persisted activity timestamp is
// missing, unreadable or older than the timeout.
func (m *Manager) IsSessionExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiredLocked()
}

// RecordActivity renews the activity timestamp. No-op when Unauthenticated.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return
	}
	m.writeActivityLocked()
	m.metrics.ActivityRenewed()
}

// CheckExpiry ends the session if it has been inactive for longer than the
// timeout. The periodic check calls it; callers may also call it directly,
// for example when the terminal regains focus.
func (m *Manager) CheckExpiry() {
	m.mu.Lock()
	if m.token == "" || !m.expiredLocked() {
		m.mu.Unlock()
		return
	}
	st := m.leaveLocked(ReasonExpired, ErrSessionExpired)
	m.mu.Unlock()

	m.log.Info().Dur("timeout", m.timeout).Msg("session expired after inactivity")
	m.notify(st)
}

func (m *Manager) end(reason Reason, cause error, onlyToken string) {
	m.mu.Lock()
	if onlyToken != "" && onlyToken != m.token {
		m.mu.Unlock()
		return
	}
	if m.token == "" {
		// Nothing in memory; still drop anything left on disk.
		m.clearPersistedLocked()
		m.mu.Unlock()
		return
	}
	st := m.leaveLocked(reason, cause)
	m.mu.Unlock()

	m.log.Info().Str("reason", reason.String()).Msg("session ended")
	m.notify(st)
}

// enterLocked moves to Authenticated, replacing any current session and its
// resources. Called with mu held.
func (m *Manager) enterLocked(token string, user *domain.User, reason Reason) State {
	if m.release != nil {
		m.release()
		m.release = nil
	}
	m.token = token
	m.user = user
	m.release = m.acquireLocked()
	m.metrics.SessionTransition(reason.String(), true)
	return m.stateLocked(reason, nil)
}

// leaveLocked clears persisted and in-memory state and releases resources.
// Called with mu held.
func (m *Manager) leaveLocked(reason Reason, cause error) State {
	if m.release != nil {
		m.release()
		m.release = nil
	}
	m.clearPersistedLocked()
	m.token = ""
	m.user = nil
	m.metrics.SessionTransition(reason.String(), false)
	return m.stateLocked(reason, cause)
}

// acquireLocked starts the expiry ticker and the activity subscription and
// returns a function releasing both.
func (m *Manager) acquireLocked() func() {
	stopTicker := m.clock.Every(m.interval, m.CheckExpiry)
	unsubscribe := func() {}
	if m.activity != nil {
		unsubscribe = m.activity.Subscribe(m.onActivity)
	}
	return func() {
		stopTicker()
		unsubscribe()
	}
}

func (m *Manager) onActivity(a Activity) {
	if m.tracked[a.Kind] {
		m.RecordActivity()
	}
}

func (m *Manager) persistLocked(token string) error {
	if err := m.store.Set(TokenKey, token); err != nil {
		return err
	}
	if err := m.store.Set(LastActivityKey, m.nowMillis()); err != nil {
		_ = m.store.Remove(TokenKey)
		return err
	}
	return nil
}

func (m *Manager) writeActivityLocked() {
	if err := m.store.Set(LastActivityKey, m.nowMillis()); err != nil {
		m.log.Warn().Err(err).Msg("write activity timestamp")
	}
}

func (m *Manager) clearPersistedLocked() {
	if err := m.store.Remove(TokenKey); err != nil {
		m.log.Warn().Err(err).Msg("remove persisted token")
	}
	if err := m.store.Remove(LastActivityKey); err != nil {
		m.log.Warn().Err(err).Msg("remove activity timestamp")
	}
}

func (m *Manager) expiredLocked() bool {
	raw, ok, err := m.store.Get(LastActivityKey)
	if err != nil || !ok {
		return true
	}
	last, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	elapsed := m.clock.Now().UnixMilli() - last
	return elapsed > m.timeout.Milliseconds()
}

func (m *Manager) nowMillis() string {
	return strconv.FormatInt(m.clock.Now().UnixMilli(), 10)
}

func (m *Manager) stateLocked(reason Reason, cause error) State {
	m.seq++
	st := State{
		Authenticated: m.token != "",
		Reason:        reason,
		Cause:         cause,
		Seq:           m.seq,
	}
	if m.user != nil {
		u := *m.user
		st.User = &u
		st.Admin = u.IsAdmin
	}
	return st
}

func (m *Manager) notify(st State) {
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
