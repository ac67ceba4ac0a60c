package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultHydrateTimeout bounds the startup "current user" call.
const DefaultHydrateTimeout = 10 * time.Second

// Authenticator is the backend collaborator behind the auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, User, error)
	CurrentUser(ctx context.Context, token string) (User, error)
	Logout(ctx context.Context, token string) error
}

// HeaderSink receives the default bearer credential for outgoing requests.
type HeaderSink interface {
	SetBearer(token string)
	ClearBearer()
}

// LogoutNotifier tells the backend that a token is no longer used.
type LogoutNotifier interface {
	NotifyLogout(ctx context.Context, token string) error
}

// Listener observes every published state change.
type Listener func(prev, next Snapshot)

// Options configures a Store.
type Options struct {
	Tokens         TokenStore
	Auth           Authenticator
	Header         HeaderSink
	Notifier       LogoutNotifier
	Logger         *slog.Logger
	HydrateTimeout time.Duration
}

// Store is the single authority for who is logged in. All mutations publish a
// complete Snapshot under one lock, so readers never see a partial update.
type Store struct {
	tokens         TokenStore
	auth           Authenticator
	header         HeaderSink
	notifier       LogoutNotifier
	logger         *slog.Logger
	hydrateTimeout time.Duration

	// opMu pairs every persisted-token write with the snapshot it belongs
	// to. It is never held across a backend call.
	opMu sync.Mutex

	mu           sync.RWMutex
	snap         Snapshot
	started      bool
	logoutEpoch  uint64
	listeners    map[uint64]Listener
	nextListener uint64

	settled    chan struct{}
	settleOnce sync.Once
}

// NewStore constructs an Uninitialized store.
func NewStore(opts Options) *Store {
	if opts.Tokens == nil {
		opts.Tokens = NewMemoryTokenStore("")
	}
	if opts.Header == nil {
		opts.Header = nopHeader{}
	}
	if opts.Notifier == nil && opts.Auth != nil {
		opts.Notifier = authNotifier{auth: opts.Auth}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HydrateTimeout <= 0 {
		opts.HydrateTimeout = DefaultHydrateTimeout
	}
	return &Store{
		tokens:         opts.Tokens,
		auth:           opts.Auth,
		header:         opts.Header,
		notifier:       opts.Notifier,
		logger:         opts.Logger,
		hydrateTimeout: opts.HydrateTimeout,
		snap:           Snapshot{State: Uninitialized},
		listeners:      make(map[uint64]Listener),
		settled:        make(chan struct{}),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn for every future state change and returns a func
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Hydrate restores a session from the persisted token. It runs at most once
// per store; later calls return immediately. The backend call is detached
// from ctx cancellation and bounded by the hydrate timeout.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	defer s.settle()

	ctx = context.WithoutCancel(ctx)
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("session token load failed", slog.Any("error", err))
		token = ""
	}
	if token == "" {
		s.swap(inState(Uninitialized), Snapshot{State: Anonymous}, nil)
		return
	}
	if !s.swap(inState(Uninitialized), Snapshot{State: Loading}, nil) {
		return
	}

	hctx, cancel := context.WithTimeout(ctx, s.hydrateTimeout)
	defer cancel()
	user, err := s.auth.CurrentUser(hctx, token)
	if err == nil {
		user, err = s.ingest(user)
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err != nil {
		s.logger.Info("session hydration failed", slog.Any("error", err))
		if s.swap(inState(Loading), Snapshot{State: Anonymous}, s.header.ClearBearer) {
			s.clearPersisted(ctx)
		}
		return
	}
	s.swap(inState(Loading), Snapshot{State: Authenticated, Token: token, User: &user}, func() {
		s.header.SetBearer(token)
	})
}

// WaitHydrated blocks until hydration has settled or ctx is done.
func (s *Store) WaitHydrated(ctx context.Context) error {
	select {
	case <-s.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login exchanges credentials for a token and user. On failure the state is
// left untouched and the error is returned to the caller. A Logout that
// starts while the backend call is in flight wins: the fresh token is never
// persisted, it is revoked, and ErrLoginSuperseded is returned.
func (s *Store) Login(ctx context.Context, email, password string) (User, error) {
	s.mu.RLock()
	epoch := s.logoutEpoch
	s.mu.RUnlock()

	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	if token == "" {
		return User{}, fmt.Errorf("%w: empty token", ErrMalformedUser)
	}
	user, err = s.ingest(user)
	if err != nil {
		return User{}, err
	}

	s.opMu.Lock()
	if s.currentEpoch() != epoch {
		s.opMu.Unlock()
		s.notifyLogout(ctx, token)
		return User{}, ErrLoginSuperseded
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		s.opMu.Unlock()
		return User{}, fmt.Errorf("session: persist token: %w", err)
	}
	stored := user
	s.swap(always, Snapshot{State: Authenticated, Token: token, User: &stored}, func() {
		s.started = true
		s.header.SetBearer(token)
	})
	s.opMu.Unlock()
	s.settle()
	return user, nil
}

// Logout clears local state unconditionally, then notifies the backend on a
// best-effort basis. Only a failure to remove the persisted token is returned.
// While a restore is still in flight the snapshot carries no token yet, so the
// persisted one is revoked instead.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	var token string
	s.swap(func(cur Snapshot) bool {
		token = cur.Token
		return true
	}, Snapshot{State: Anonymous}, func() {
		s.started = true
		s.logoutEpoch++
		s.header.ClearBearer()
	})
	s.settle()

	if token == "" {
		persisted, lerr := s.tokens.Load(ctx)
		if lerr != nil {
			s.logger.Warn("session token load failed", slog.Any("error", lerr))
		}
		token = persisted
	}
	err := s.tokens.Clear(ctx)
	s.opMu.Unlock()
	if err != nil {
		s.logger.Error("session token clear failed", slog.Any("error", err))
		err = fmt.Errorf("session: clear token: %w", err)
	}
	s.notifyLogout(ctx, token)
	return err
}

// Invalidate drops an authenticated session after the backend rejected its
// token. A rejection for a token other than the current one is ignored, so a
// late 401 from a previous login cannot sign out the new one. An empty token
// matches any session.
func (s *Store) Invalidate(ctx context.Context, token string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	ok := s.swap(func(cur Snapshot) bool {
		return cur.State == Authenticated && (token == "" || token == cur.Token)
	}, Snapshot{State: Anonymous}, s.header.ClearBearer)
	if ok {
		s.logger.Info("session invalidated by backend rejection")
		s.clearPersisted(context.WithoutCancel(ctx))
	}
	return ok
}

func (s *Store) ingest(user User) (User, error) {
	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" {
		return User{}, fmt.Errorf("%w: missing id", ErrMalformedUser)
	}
	if !user.Role.IsValid() {
		s.logger.Warn("backend returned unrecognized role",
			slog.String("user_id", user.ID),
			slog.String("role", string(user.Role)))
		user.Role = ""
	}
	return user, nil
}

func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logoutEpoch
}

func (s *Store) notifyLogout(ctx context.Context, token string) {
	if token == "" || s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLogout(ctx, token); err != nil {
		s.logger.Warn("logout notification failed", slog.Any("error", err))
	}
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("session token clear failed", slog.Any("error", err))
	}
}

func (s *Store) settle() {
	s.settleOnce.Do(func() { close(s.settled) })
}

// swap publishes next when check accepts the current snapshot. effect runs
// under the same lock, before readers can observe next.
func (s *Store) swap(check func(Snapshot) bool, next Snapshot, effect func()) bool {
	s.mu.Lock()
	prev := s.snap
	if !check(prev) {
		s.mu.Unlock()
		return false
	}
	if effect != nil {
		effect()
	}
	s.snap = next
	var listeners []Listener
	if changed(prev, next) {
		listeners = make([]Listener, 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
	return true
}

func changed(a, b Snapshot) bool {
	return a.State != b.State || a.Token != b.Token || a.User != b.User
}

func always(Snapshot) bool { return true }

func inState(state State) func(Snapshot) bool {
	return func(cur Snapshot) bool { return cur.State == state }
}

type nopHeader struct{}

func (nopHeader) SetBearer(string) {}
func (nopHeader) ClearBearer()     {}

type authNotifier struct {
	auth Authenticator
}

func (n authNotifier) NotifyLogout(ctx context.Context, token string) error {
	return n.auth.Logout(ctx, token)
}
