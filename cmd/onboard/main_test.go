package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techconnect/internal/domain/registration"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	taken    map[string]bool
	payloads map[string]map[string]any
	docTypes []string
}

func newFakeBackend(t *testing.T, taken ...string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{taken: map[string]bool{}, payloads: map[string]map[string]any{}}
	for _, e := range taken {
		f.taken[e] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/check-email":
		available := !f.taken[r.URL.Query().Get("email")]
		_ = json.NewEncoder(w).Encode(map[string]any{"available": available})
	case strings.HasSuffix(r.URL.Path, "/auth/register"):
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.payloads[r.URL.Path] = body
		_, _ = io.WriteString(w, `{"data":{"id":"u-`+r.URL.Path[1:2]+`"}}`)
	case strings.HasPrefix(r.URL.Path, "/kyc/upload/"):
		f.docTypes = append(f.docTypes, r.FormValue("docType"))
		_, _ = io.WriteString(w, `{}`)
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

const twoEntryManifest = `registrations:
  - role: provider
    identity:
      name: Aisha Rahman
      email: aisha@example.com
      password: Str0ng!Passw0rd
    provider:
      bio: Backend engineer
      location: Kuala Lumpur
      hourly_rate: 45
      skills: [Go, Kafka]
    kyc_doc_type: passport
    resume: files/cv.pdf
    kyc: files/passport.png
    certifications:
      - name: CKA
        issuer: CNCF
        issued_date: "2024-03-01"
        serial_number: LF-1
  - role: customer
    identity:
      name: Daniel Lee
      email: daniel@acme.example
      password: An0ther!Secret
    customer:
      company_name: Acme
      industry: Logistics
      location: Penang
      employee_count: 40
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "files", "cv.pdf"), []byte("%PDF-1.4 resume"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "files", "passport.png"), []byte("\x89PNG\r\n\x1a\nimg"), 0o600))
	path := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runRegisterWith(t *testing.T, url, path string, dry bool) (string, error) {
	t.Helper()
	prevURL, prevTimeout, prevPath, prevDry := backendURL, timeout, manifestPath, dryRun
	t.Cleanup(func() {
		backendURL, timeout, manifestPath, dryRun = prevURL, prevTimeout, prevPath, prevDry
	})
	backendURL, timeout, manifestPath, dryRun = url, 5*time.Second, path, dry

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := runRegister(cmd, nil)
	return out.String(), err
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, twoEntryManifest)

	m, err := loadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Registrations, 2)
	assert.Equal(t, "provider", m.Registrations[0].Role)
	assert.Equal(t, "45", m.Registrations[0].Provider.HourlyRate)
	assert.Equal(t, "40", m.Registrations[1].Customer.EmployeeCount)

	a, err := m.attachment("files/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 resume"), a.Data)

	abs, err := m.attachment(filepath.Join(filepath.Dir(path), "files", "passport.png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", abs.ContentType)

	none, err := m.attachment("")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = m.attachment("files/missing.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("registrations: []\n"), 0o600))
	_, err := loadManifest(empty)
	assert.ErrorContains(t, err, "no registrations")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("registrations: [\n"), 0o600))
	_, err = loadManifest(broken)
	assert.ErrorContains(t, err, "parse")

	_, err = loadManifest(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegister_ProviderAndCustomer(t *testing.T) {
	fake, srv := newFakeBackend(t)
	path := writeManifest(t, twoEntryManifest)

	out, err := runRegisterWith(t, srv.URL, path, false)
	require.NoError(t, err)

	assert.Contains(t, out, "[1] aisha@example.com: registered as user u-p")
	assert.Contains(t, out, "[2] daniel@acme.example: registered as user u-c")
	assert.Equal(t, []string{
		"GET /check-email",
		"POST /provider/auth/register",
		"POST /kyc/upload/provider",
		"POST /resume/upload",
		"POST /certifications/upload",
		"GET /check-email",
		"POST /customer/auth/register",
	}, fake.Calls())
	assert.Equal(t, []string{"PASSPORT"}, fake.docTypes)

	provider := fake.payloads["/provider/auth/register"]
	require.NotNil(t, provider)
	assert.Equal(t, "aisha@example.com", provider["email"])
	customer := fake.payloads["/customer/auth/register"]
	require.NotNil(t, customer)
	assert.Equal(t, "daniel@acme.example", customer["email"])
}

func TestRegister_DryRunNeverSubmits(t *testing.T) {
	fake, srv := newFakeBackend(t)
	path := writeManifest(t, twoEntryManifest)

	out, err := runRegisterWith(t, srv.URL, path, true)
	require.NoError(t, err)

	assert.Contains(t, out, "[1] aisha@example.com: ok (dry run)")
	assert.Contains(t, out, "[2] daniel@acme.example: ok (dry run)")
	assert.Equal(t, []string{"GET /check-email", "GET /check-email"}, fake.Calls())
}

func TestRegister_TakenEmailFailsThatEntryOnly(t *testing.T) {
	fake, srv := newFakeBackend(t, "aisha@example.com")
	path := writeManifest(t, twoEntryManifest)

	out, err := runRegisterWith(t, srv.URL, path, false)
	assert.EqualError(t, err, "1 of 2 registrations failed")

	assert.Contains(t, out, "[1] aisha@example.com: FAILED: step 1:")
	assert.Contains(t, out, "This email is already registered")
	assert.Contains(t, out, "[2] daniel@acme.example: registered as user u-c")
	assert.NotContains(t, fake.Calls(), "POST /provider/auth/register")
}

func TestRegister_RequiresBackend(t *testing.T) {
	path := writeManifest(t, twoEntryManifest)
	_, err := runRegisterWith(t, "", path, false)
	assert.ErrorContains(t, err, "BACKEND_BASE_URL")
}

func TestStepErrorWithoutFields(t *testing.T) {
	err := stepError(&registration.View{CurrentStep: 2}, registration.OutcomeInvalid)
	assert.EqualError(t, err, "step 2: invalid")
}

func TestCheckEmail(t *testing.T) {
	_, srv := newFakeBackend(t, "used@example.com")
	prevURL := backendURL
	t.Cleanup(func() { backendURL = prevURL })
	backendURL = srv.URL

	for email, want := range map[string]string{
		"free@example.com": "free@example.com: available\n",
		"used@example.com": "used@example.com: taken\n",
	} {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		require.NoError(t, runCheckEmail(cmd, []string{email}))
		assert.Equal(t, want, out.String())
	}
}
