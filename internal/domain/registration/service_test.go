package registration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techconnect/internal/pkg/metrics"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type serviceFixture struct {
	svc     *Service
	store   *MemoryStore
	backend *MockBackend
	events  *recordingEvents
	clock   *testClock
}

func newServiceFixture(t *testing.T, cfg ServiceConfig, redirectDelay time.Duration) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		store:   NewMemoryStore(NewCodec(nil)),
		backend: new(MockBackend),
		events:  &recordingEvents{},
		clock:   &testClock{now: fixedNow},
	}
	c := NewController(f.backend, nil, f.events, metrics.Nop(), zap.NewNop(), ControllerConfig{
		LoginURL:      "/login",
		RedirectDelay: redirectDelay,
	})
	c.now = f.clock.Now
	f.svc = NewService(f.store, c, staticTokens{}, f.events, metrics.Nop(), zap.NewNop(), cfg)
	f.svc.now = f.clock.Now
	ids := 0
	f.svc.newID = func() string {
		ids++
		return "sess-" + string(rune('0'+ids))
	}
	return f
}

func (f *serviceFixture) fillProvider(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.UpdateIdentity(ctx, id, completeIdentity("aisha@example.com"))
	require.NoError(t, err)
	_, err = f.svc.UpdateProvider(ctx, id, ProviderPatch{Bio: strp("Backend engineer"), Location: strp("KL"), KYCDocType: strp("IC")})
	require.NoError(t, err)
	_, err = f.svc.AttachResume(ctx, id, file("cv.pdf"))
	require.NoError(t, err)
	_, err = f.svc.AttachKYC(ctx, id, file("ic.pdf"))
	require.NoError(t, err)
}

func TestService_StartAndView(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{SessionTTL: time.Hour}, 0)
	ctx := context.Background()

	v, token, err := f.svc.Start(ctx, "provider")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", v.ID)
	assert.Equal(t, "token-sess-1", token)
	assert.Equal(t, RoleProvider, v.Role)
	assert.Equal(t, 1, v.CurrentStep)
	assert.Equal(t, 6, v.TotalSteps)
	assert.Equal(t, fixedNow.Add(time.Hour), v.ExpiresAt)

	stored, err := f.store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, RoleProvider, stored.Role)

	got, err := f.svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, _, err = f.svc.Start(ctx, "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.svc.View(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ExpiredSession(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{SessionTTL: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)

	_, err = f.svc.SelectRole(ctx, "sess-1", RoleCustomer)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = f.store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ViewDuringEmailCheck(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "provider")
	require.NoError(t, err)
	f.fillProvider(t, "sess-1")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.backend.On("CheckEmail", mock.Anything, "aisha@example.com").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(true, nil).Once()

	done := make(chan AdvanceOutcome)
	go func() {
		_, outcome, _ := f.svc.Advance(ctx, "sess-1")
		done <- outcome
	}()
	<-entered

	v, err := f.svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, EmailChecking, v.EmailStatus)

	_, _, err = f.svc.Advance(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionBusy)
	_, _, err = f.svc.Submit(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(release)
	assert.Equal(t, OutcomeAdvanced, <-done)

	v, err = f.svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, v.CurrentStep)
	assert.Equal(t, EmailAvailable, v.EmailStatus)
}

func TestService_SubmitRedirectsAndDestroys(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "customer")
	require.NoError(t, err)
	_, err = f.svc.UpdateIdentity(ctx, "sess-1", completeIdentity("daniel@acme.example"))
	require.NoError(t, err)
	_, err = f.svc.UpdateCustomer(ctx, "sess-1", CustomerPatch{
		CompanyName: strp("Acme"), Location: strp("Penang"), Industry: strp("Logistics"),
	})
	require.NoError(t, err)

	f.backend.On("CheckEmail", mock.Anything, "daniel@acme.example").Return(true, nil)
	f.backend.On("Register", mock.Anything, RoleCustomer, mock.Anything).Return(&RegisteredUser{ID: "c1"}, nil)

	for i := 0; i < 2; i++ {
		_, outcome, err := f.svc.Advance(ctx, "sess-1")
		require.NoError(t, err)
		require.Equal(t, OutcomeAdvanced, outcome)
	}

	v, result, err := f.svc.Submit(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, PhaseSucceeded, v.Phase)
	assert.Equal(t, "c1", result.UserID)

	assert.Eventually(t, func() bool {
		_, err := f.store.Load(ctx, "sess-1")
		return err == ErrSessionNotFound && len(f.events.ofType(EventRedirect)) == 1
	}, time.Second, 10*time.Millisecond)

	redirect := f.events.ofType(EventRedirect)[0]
	assert.Equal(t, map[string]string{"url": "/login"}, redirect.Payload)

	_, err = f.svc.View(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_PatchIsDebounced(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{PersistDebounce: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "provider")
	require.NoError(t, err)

	_, err = f.svc.UpdateIdentity(ctx, "sess-1", IdentityPatch{Name: strp("Aisha")})
	require.NoError(t, err)

	stored, err := f.store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Draft.Identity.Name)

	require.NoError(t, f.svc.Close(ctx))

	stored, err = f.store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Aisha", stored.Draft.Identity.Name)
}

func TestService_TransitionIsImmediate(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{PersistDebounce: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "")
	require.NoError(t, err)

	_, err = f.svc.SelectRole(ctx, "sess-1", RoleCustomer)
	require.NoError(t, err)

	stored, err := f.store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, stored.Role)
	assert.Len(t, f.events.ofType(EventStepChanged), 1)
}

func TestService_ResumesFromStore(t *testing.T) {
	ctx := context.Background()
	s := providerReady(t)
	s.EmailStatus = EmailChecking
	s.ProcessingResume = true
	s.ExpiresAt = fixedNow.Add(time.Hour)

	f := newServiceFixture(t, ServiceConfig{}, 0)
	require.NoError(t, f.store.Create(ctx, s))

	v, err := f.svc.View(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, EmailIdle, v.EmailStatus)
	assert.False(t, v.ProcessingResume)
	assert.Equal(t, "Backend engineer", v.Provider.Bio)
}

func TestService_Sweep(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{SessionTTL: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Create(ctx, NewSession("orphan", fixedNow, time.Minute)))

	f.clock.Advance(2 * time.Hour)

	n, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	_, err = f.store.Load(ctx, "orphan")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.View(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func certNamed(name string) Certification {
	return Certification{Name: name, Issuer: "CNCF", IssuedDate: "2024-03-01", SerialNumber: "SN-" + name}
}

func TestService_PublishedViewIsIsolated(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{PersistDebounce: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "provider")
	require.NoError(t, err)
	_, err = f.svc.UpdateProvider(ctx, "sess-1", ProviderPatch{Skills: &[]string{"Go", "SQL"}})
	require.NoError(t, err)
	_, err = f.svc.AddCertification(ctx, "sess-1", certNamed("A"))
	require.NoError(t, err)
	before, err := f.svc.AddCertification(ctx, "sess-1", certNamed("B"))
	require.NoError(t, err)

	after, err := f.svc.RemoveCertification(ctx, "sess-1", 0)
	require.NoError(t, err)

	require.Len(t, before.Provider.Certifications, 2)
	assert.Equal(t, "A", before.Provider.Certifications[0].Name)
	assert.Equal(t, "B", before.Provider.Certifications[1].Name)
	require.Len(t, after.Provider.Certifications, 1)
	assert.Equal(t, "B", after.Provider.Certifications[0].Name)

	after.Provider.Skills[0] = "Rust"
	got, err := f.svc.UpdateProvider(ctx, "sess-1", ProviderPatch{Bio: strp("Backend engineer")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, got.Provider.Skills)
}

func TestService_ViewConcurrentWithCertificationEdits(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{PersistDebounce: time.Hour}, 0)
	ctx := context.Background()
	_, _, err := f.svc.Start(ctx, "provider")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = f.svc.AddCertification(ctx, "sess-1", certNamed("A"))
			_, _ = f.svc.AddCertification(ctx, "sess-1", certNamed("B"))
			_, _ = f.svc.RemoveCertification(ctx, "sess-1", 0)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			v, err := f.svc.View(ctx, "sess-1")
			if err != nil {
				continue
			}
			for _, c := range v.Provider.Certifications {
				_ = c.Name
			}
		}
	}()
	wg.Wait()

	v, err := f.svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, v.Provider.Certifications, 200)
	require.NoError(t, f.svc.Close(ctx))
}
