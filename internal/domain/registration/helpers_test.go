package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techconnect/internal/pkg/metrics"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

const defaultTestTTL = 2 * time.Hour

func newTestController(b Backend, reporter FollowUpReporter, events EventPublisher) *Controller {
	c := NewController(b, reporter, events, metrics.Nop(), zap.NewNop(), ControllerConfig{
		LoginURL:      "/login",
		RedirectDelay: 2 * time.Second,
	})
	c.now = func() time.Time { return fixedNow }
	return c
}

const strongPassword = "Str0ng!Pass"

func file(name string) Attachment {
	return Attachment{FileName: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 " + name)}
}

func strp(s string) *string { return &s }

func completeIdentity(email string) IdentityPatch {
	return IdentityPatch{
		Name:            strp("Aisha Rahman"),
		Email:           strp(email),
		Password:        strp(strongPassword),
		ConfirmPassword: strp(strongPassword),
		Phone:           strp("+60123456789"),
	}
}

// providerReady returns a provider session on step 1 whose steps 1 and 2
// are both complete.
func providerReady(t testing.TB) *Session {
	t.Helper()
	s := NewSession("s-provider", fixedNow, defaultTestTTL)
	require.NoError(t, s.SelectRole(RoleProvider))
	require.NoError(t, s.UpdateIdentity(completeIdentity("aisha@example.com")))
	require.NoError(t, s.UpdateProvider(ProviderPatch{
		Bio:        strp("Backend engineer"),
		Location:   strp("Kuala Lumpur"),
		KYCDocType: strp("passport"),
	}))
	require.NoError(t, s.AttachResume(file("cv.pdf")))
	require.NoError(t, s.AttachKYC(file("passport.pdf")))
	return s
}

func customerReady(t testing.TB) *Session {
	t.Helper()
	s := NewSession("s-customer", fixedNow, defaultTestTTL)
	require.NoError(t, s.SelectRole(RoleCustomer))
	require.NoError(t, s.UpdateIdentity(completeIdentity("daniel@acme.example")))
	require.NoError(t, s.UpdateCustomer(CustomerPatch{
		CompanyName: strp("Acme"),
		Location:    strp("Penang"),
		Industry:    strp("Logistics"),
	}))
	return s
}
