package registration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"techconnect/internal/pkg/debounce"
	"techconnect/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceConfig struct {
	SessionTTL      time.Duration
	PersistDebounce time.Duration
}

// entry is a live session. mu serializes every use of session; the snapshot
// can be read without it.
type entry struct {
	mu       sync.Mutex
	session  *Session
	snapshot atomic.Pointer[View]
	closed   atomic.Bool

	version uint64
	saveMu  sync.Mutex
	saved   uint64
}

// Service owns the lifecycle of registration sessions: creation, every
// wizard action, write-through to the Store and destruction after success
// or expiry.
type Service struct {
	store      Store
	controller *Controller
	tokens     TokenIssuer
	events     EventPublisher
	metrics    *metrics.Metrics
	log        *zap.Logger
	persist    *debounce.Group

	ttl   time.Duration
	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	live map[string]*entry
}

func NewService(
	store Store,
	controller *Controller,
	tokens TokenIssuer,
	events EventPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
	cfg ServiceConfig,
) *Service {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	s := &Service{
		store:      store,
		controller: controller,
		tokens:     tokens,
		events:     events,
		metrics:    m,
		log:        log,
		persist:    debounce.NewGroup(cfg.PersistDebounce),
		ttl:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
		live:       make(map[string]*entry),
	}
	controller.EmailCheck().OnChecking(func(sess *Session) {
		if e := s.lookup(sess.ID); e != nil {
			e.snapshot.Store(sess.View())
		}
	})
	return s
}

// Start opens a session, optionally with the role already chosen (the role
// query parameter of a deep link), and returns its token.
func (s *Service) Start(ctx context.Context, role string) (*View, string, error) {
	sess := NewSession(s.newID(), s.now(), s.ttl)
	if role != "" {
		r, err := ParseRole(role)
		if err != nil {
			return nil, "", err
		}
		if err := sess.SelectRole(r); err != nil {
			return nil, "", err
		}
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return nil, "", err
	}

	e := &entry{session: sess}
	v := sess.View()
	e.snapshot.Store(v)
	s.mu.Lock()
	s.live[sess.ID] = e
	s.mu.Unlock()
	s.metrics.ActiveSessions.Inc()

	s.log.Info("registration session started", zap.String("session_id", sess.ID), zap.String("role", string(sess.Role)))
	return v, token, nil
}

// View returns the latest snapshot. It never waits on a running action, so a
// client polling during an email check sees status "checking".
func (s *Service) View(ctx context.Context, id string) (*View, error) {
	if e := s.lookup(id); e != nil {
		if v := e.snapshot.Load(); v != nil {
			if !s.now().Before(v.ExpiresAt) {
				s.destroy(id, "expired")
				return nil, ErrSessionExpired
			}
			return v, nil
		}
	}
	return s.mutate(ctx, id, false, func(*Session) error { return nil })
}

func (s *Service) SelectRole(ctx context.Context, id string, role Role) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error {
		before := sess.Position()
		if err := sess.SelectRole(role); err != nil {
			return err
		}
		if sess.Position() != before {
			s.publish(sess.ID, EventStepChanged, sess.Position())
		}
		return nil
	})
}

func (s *Service) ChangeRole(ctx context.Context, id string) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error {
		if err := sess.ChangeRole(); err != nil {
			return err
		}
		s.publish(sess.ID, EventStepChanged, sess.Position())
		return nil
	})
}

func (s *Service) UpdateIdentity(ctx context.Context, id string, p IdentityPatch) (*View, error) {
	return s.patch(ctx, id, func(sess *Session) error { return sess.UpdateIdentity(p) })
}

func (s *Service) UpdateProvider(ctx context.Context, id string, p ProviderPatch) (*View, error) {
	return s.patch(ctx, id, func(sess *Session) error { return sess.UpdateProvider(p) })
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, p CustomerPatch) (*View, error) {
	return s.patch(ctx, id, func(sess *Session) error { return sess.UpdateCustomer(p) })
}

func (s *Service) AddCertification(ctx context.Context, id string, c Certification) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return sess.AddCertification(c) })
}

func (s *Service) RemoveCertification(ctx context.Context, id string, index int) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return sess.RemoveCertification(index) })
}

func (s *Service) AttachResume(ctx context.Context, id string, a Attachment) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return sess.AttachResume(a) })
}

func (s *Service) AttachKYC(ctx context.Context, id string, a Attachment) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return sess.AttachKYC(a) })
}

// AnalyzeResume runs the backend analysis without holding the session, so
// the person can keep editing other fields meanwhile.
func (s *Service) AnalyzeResume(ctx context.Context, id string) (*View, error) {
	var resume *Attachment
	if _, err := s.transition(ctx, id, func(sess *Session) error {
		var err error
		resume, err = sess.BeginAnalysis()
		return err
	}); err != nil {
		return nil, err
	}

	analysis, aerr := s.controller.AnalyzeResume(ctx, id, *resume)

	return s.transition(ctx, id, func(sess *Session) error {
		sess.FinishAnalysis(resume, analysis, aerr)
		return nil
	})
}

func (s *Service) ApplyAnalysis(ctx context.Context, id string) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return sess.ApplyAnalysis() })
}

// Advance is the Next action. A second Next while the first one is still
// checking the email is rejected with ErrSessionBusy.
func (s *Service) Advance(ctx context.Context, id string) (*View, AdvanceOutcome, error) {
	var outcome AdvanceOutcome
	v, err := s.exclusive(ctx, id, func(sess *Session) error {
		var err error
		outcome, err = s.controller.Advance(ctx, sess)
		return err
	})
	return v, outcome, err
}

func (s *Service) Retreat(ctx context.Context, id string) (*View, error) {
	return s.transition(ctx, id, func(sess *Session) error { return s.controller.Retreat(sess) })
}

// Submit creates the account. On success the redirect is scheduled and the
// session is destroyed once it fires; this cannot be cancelled.
func (s *Service) Submit(ctx context.Context, id string) (*View, *SubmitResult, error) {
	var result *SubmitResult
	v, err := s.exclusive(ctx, id, func(sess *Session) error {
		var err error
		result, err = s.controller.Submit(ctx, sess)
		return err
	})
	if err != nil {
		return v, nil, err
	}
	s.scheduleRedirect(id, result)
	return v, result, nil
}

func (s *Service) scheduleRedirect(id string, result *SubmitResult) {
	delay := result.RedirectAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		s.publish(id, EventRedirect, map[string]string{"url": result.RedirectURL})
		s.destroy(id, "completed")
	})
}

// Sweep drops expired live sessions and purges expired rows from the store.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	now := s.now()
	var expired []string
	s.mu.Lock()
	for id, e := range s.live {
		if v := e.snapshot.Load(); v != nil && !now.Before(v.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()
	for _, id := range expired {
		s.destroy(id, "expired")
	}

	n, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		return int64(len(expired)), err
	}
	return int64(len(expired)) + n, nil
}

// Close writes every live session through, skipping the debounce.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.live))
	for id, e := range s.live {
		s.persist.Forget(id)
		entries = append(entries, e)
	}
	s.mu.Unlock()

	var errs []error
	for _, e := range entries {
		e.mu.Lock()
		clone, ver, err := s.checkpoint(e)
		e.mu.Unlock()
		if err == nil {
			err = s.save(ctx, e, clone, ver)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// patch applies a field edit and writes it through after the quiet period.
func (s *Service) patch(ctx context.Context, id string, fn func(*Session) error) (*View, error) {
	return s.mutate(ctx, id, false, fn)
}

// transition applies a state change and writes it through immediately.
func (s *Service) transition(ctx context.Context, id string, fn func(*Session) error) (*View, error) {
	return s.mutate(ctx, id, true, fn)
}

func (s *Service) mutate(ctx context.Context, id string, now bool, fn func(*Session) error) (*View, error) {
	e, err := s.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return s.apply(ctx, e, now, fn)
}

// exclusive is mutate with try-lock semantics.
func (s *Service) exclusive(ctx context.Context, id string, fn func(*Session) error) (*View, error) {
	e, err := s.acquire(ctx, id, true)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return s.apply(ctx, e, true, fn)
}

// apply runs fn with e.mu held. The snapshot is refreshed and the session
// persisted even when fn fails, since failures record messages on it.
func (s *Service) apply(ctx context.Context, e *entry, now bool, fn func(*Session) error) (*View, error) {
	sess := e.session
	ferr := fn(sess)
	sess.UpdatedAt = s.now()
	v := sess.View()
	e.snapshot.Store(v)

	clone, ver, err := s.checkpoint(e)
	if err != nil {
		return v, err
	}
	if now {
		s.persist.Forget(sess.ID)
		if err := s.save(ctx, e, clone, ver); err != nil {
			s.log.Error("persist registration session", zap.String("session_id", sess.ID), zap.Error(err))
		}
	} else {
		s.persist.Debounce(sess.ID, func() {
			if err := s.save(context.Background(), e, clone, ver); err != nil {
				s.log.Error("persist registration session", zap.String("session_id", clone.ID), zap.Error(err))
			}
		})
	}
	return v, ferr
}

func (s *Service) checkpoint(e *entry) (*Session, uint64, error) {
	e.version++
	clone, err := e.session.clone()
	return clone, e.version, err
}

// save writes clone unless a newer version already reached the store.
func (s *Service) save(ctx context.Context, e *entry, clone *Session, ver uint64) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if e.closed.Load() || ver <= e.saved {
		return nil
	}
	if err := s.store.Save(ctx, clone); err != nil {
		return err
	}
	e.saved = ver
	return nil
}

// acquire returns the live entry for id with its lock held, loading it from
// the store on a miss.
func (s *Service) acquire(ctx context.Context, id string, try bool) (*entry, error) {
	e := s.lookup(id)
	if e == nil {
		sess, err := s.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		e = s.adopt(sess)
	}

	if try {
		if !e.mu.TryLock() {
			return nil, ErrSessionBusy
		}
	} else {
		e.mu.Lock()
	}

	if e.closed.Load() {
		e.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if e.session.Expired(s.now()) {
		e.mu.Unlock()
		s.destroy(id, "expired")
		return nil, ErrSessionExpired
	}
	return e, nil
}

func (s *Service) adopt(sess *Session) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live[sess.ID]; ok {
		return e
	}
	// A resumed session cannot have a check or an analysis in flight here.
	if sess.EmailStatus == EmailChecking {
		sess.EmailStatus = EmailIdle
	}
	sess.ProcessingResume = false
	if sess.Phase == PhaseSubmitting {
		sess.Phase = PhaseEditing
	}
	e := &entry{session: sess}
	e.snapshot.Store(sess.View())
	s.live[sess.ID] = e
	s.metrics.ActiveSessions.Inc()
	return e
}

func (s *Service) lookup(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[id]
}

func (s *Service) destroy(id, reason string) {
	s.mu.Lock()
	e, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	s.persist.Forget(id)
	if ok {
		e.closed.Store(true)
		s.metrics.ActiveSessions.Dec()
	}
	if err := s.store.Delete(context.Background(), id); err != nil {
		s.log.Error("delete registration session", zap.String("session_id", id), zap.Error(err))
	}
	s.log.Info("registration session closed", zap.String("session_id", id), zap.String("reason", reason))
}

func (s *Service) publish(sessionID, eventType string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(sessionID, eventType, payload)
}
