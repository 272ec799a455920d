package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"taskflow/internal/api"
	"taskflow/internal/models"
	"taskflow/internal/store"
)

// Store holds the current authenticated identity and its credential. The
// credential is handed to the API client through Token, so every outbound
// call a component makes while a session is active carries it without the
// caller attaching anything.
//
// State changes happen on the UI event loop, but Token is read from command
// goroutines while requests are in flight, so access is guarded.
type Store struct {
	api      *api.Client
	settings *store.Settings
	log      zerolog.Logger

	mu    sync.RWMutex
	user  models.User
	token string
	gen   uint64
}

// New creates a session store. Wire its Token method into the API client's
// TokenProvider.
func New(settings *store.Settings, log zerolog.Logger) *Store {
	return &Store{settings: settings, log: log}
}

// Bind attaches the API client used for credential validation and exchange.
// Separate from New because the client needs Token before it can exist.
func (s *Store) Bind(client *api.Client) {
	s.api = client
}

// Token returns the active bearer credential, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the authenticated identity, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Generation identifies the current session epoch. It advances on every
// login and logout; timer-driven work captures it when scheduled and drops
// itself when it no longer matches.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Restore validates a persisted credential against the identity endpoint.
// On any failure, network or rejection, the persisted credential is cleared
// and the session stays empty; the caller just shows the login screen.
func (s *Store) Restore(ctx context.Context) (models.User, bool) {
	token, err := s.settings.Token()
	if err != nil || token == "" {
		return models.User{}, false
	}

	s.setSession(models.User{}, token)

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("stored credential rejected, clearing")
		s.Logout()
		return models.User{}, false
	}

	s.setSession(user, token)
	s.log.Info().Str("user_id", user.ID).Msg("session restored")
	return user, true
}

// Login exchanges credentials for a session and persists the token. The
// returned error carries the server-supplied reason for display.
func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	return s.adopt(sess)
}

// Register creates a new identity and signs it in, same contract as Login.
func (s *Store) Register(ctx context.Context, profile api.RegisterProfile) (models.User, error) {
	sess, err := s.api.Register(ctx, profile)
	if err != nil {
		return models.User{}, err
	}
	s.api.InvalidateUsers()
	return s.adopt(sess)
}

func (s *Store) adopt(sess models.Session) (models.User, error) {
	if err := s.settings.SetToken(sess.Token); err != nil {
		s.log.Warn().Err(err).Msg("could not persist credential")
	}
	s.setSession(sess.User, sess.Token)
	s.log.Info().Str("user_id", sess.User.ID).Msg("signed in")
	return sess.User, nil
}

// Logout clears the session and the persisted credential. Idempotent; safe
// to call with no session active.
func (s *Store) Logout() {
	if err := s.settings.ClearToken(); err != nil {
		s.log.Warn().Err(err).Msg("could not clear persisted credential")
	}
	s.setSession(models.User{}, "")
}

func (s *Store) setSession(user models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.gen++
}
