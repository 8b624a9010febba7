package registration_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/modules/registration"
	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/metrics"
	"github.com/idadental/registration/pkg/notifications"
	regform "github.com/idadental/registration/pkg/registration"
)

type stubProvider struct {
	mu   sync.Mutex
	snap *identity.Snapshot
}

func (p *stubProvider) AuthURL(state string, conn identity.Connection) (string, error) {
	return "https://idp.test/authorize?connection=" + conn.String() + "&state=" + url.QueryEscape(state), nil
}

func (p *stubProvider) ResolveSnapshot(context.Context, string) (*identity.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := *p.snap
	return &s, nil
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []regform.Registration
	calls int
	err   error

	// entered and hold, when set, pause Save until the test releases it.
	entered chan struct{}
	hold    chan struct{}
}

func (s *recordingSaver) Save(_ context.Context, reg *regform.Registration) error {
	s.mu.Lock()
	s.calls++
	entered, hold := s.entered, s.hold
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if hold != nil {
		<-hold
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *reg)
	return nil
}

func (s *recordingSaver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *recordingSaver) registrations() []regform.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]regform.Registration(nil), s.saved...)
}

type testApp struct {
	t        *testing.T
	handler  http.Handler
	provider *stubProvider
	saver    *recordingSaver
	metrics  *metrics.Metrics
	cookie   *http.Cookie
}

func newTestApp(t *testing.T, snap *identity.Snapshot) *testApp {
	t.Helper()

	provider := &stubProvider{snap: snap}
	saver := &recordingSaver{}
	m := metrics.New(prometheus.NewRegistry())

	cfg := registration.DefaultConfig()
	cfg.CookieSecure = false

	svc := registration.NewService(cfg,
		identity.NewLogin(identity.NewMemoryStore(), provider),
		saver,
		notifications.NewManager(notifications.NewMemoryStorage()),
		registration.WithMetrics(m),
	)
	return &testApp{t: t, handler: svc.Handle(), provider: provider, saver: saver, metrics: m}
}

func (a *testApp) do(r *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	if a.cookie != nil {
		r.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	for _, c := range w.Result().Cookies() {
		if c.Name == "ida_session" {
			if c.MaxAge < 0 {
				a.cookie = nil
			} else {
				a.cookie = c
			}
		}
	}
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (a *testApp) post(target string, values url.Values, dataStar bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if dataStar {
		r.Header.Set("Datastar-Request", "true")
	}
	return a.do(r)
}

// signIn runs the login round-trip and returns the page shown while pending.
func (a *testApp) signIn(connection string) string {
	a.t.Helper()

	w := a.get("/login?connection=" + connection)
	require.Equal(a.t, http.StatusFound, w.Code)
	require.NotNil(a.t, a.cookie)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(a.t, err)
	require.Equal(a.t, "idp.test", loc.Host)

	pending := a.get("/").Body.String()

	w = a.get("/callback?code=abc&state=" + url.QueryEscape(loc.Query().Get("state")))
	require.Equal(a.t, http.StatusSeeOther, w.Code)
	require.Equal(a.t, "/", w.Header().Get("Location"))
	return pending
}

func socialSnapshot() *identity.Snapshot {
	return &identity.Snapshot{
		SubjectID:       "google-oauth2|1",
		IsAuthenticated: true,
		GivenName:       "Asha",
		FamilyName:      "Rao",
		Email:           "asha@example.com",
	}
}

func phoneSnapshot() *identity.Snapshot {
	return &identity.Snapshot{
		SubjectID:       "sms|42",
		IsAuthenticated: true,
		PhoneNumber:     "+911234567890",
		Email:           "ignored@example.com",
	}
}

func validDraft() url.Values {
	return url.Values{
		"firstName": {"Asha"},
		"lastName":  {"Rao"},
		"email":     {"asha@example.com"},
		"phone":     {"+91 98765 43210"},
		"city":      {"Pune"},
	}
}

func TestIndex_SignedOut(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	w := app.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "/login?connection=social")
	assert.Contains(t, body, "/login?connection=sms")
	assert.NotContains(t, body, `id="registration"`)
}

func TestLoginFlow_PhoneSubject(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, phoneSnapshot())
	pending := app.signIn("sms")
	assert.Contains(t, pending, "Loading...")
	assert.Contains(t, pending, `http-equiv="refresh"`)

	body := app.get("/").Body.String()
	assert.Contains(t, body, `id="registration"`)
	assert.Contains(t, body, "Phone Number")
	assert.NotContains(t, body, `name="email"`, "phone sign-ins have no email field")
	assert.NotContains(t, body, "ignored@example.com")
	assert.NotContains(t, body, `name="clinicName"`)
	assert.Contains(t, body, "I have a clinic")
	assert.Contains(t, body, ">Register</button>")

	assert.Equal(t, 1.0, testutil.ToFloat64(app.metrics.FormsActive))
}

func TestLoginFlow_SocialSubjectSeedsEmail(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	body := app.get("/").Body.String()
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `value="asha@example.com"`)
	assert.Contains(t, body, `value="Asha"`)
	assert.Contains(t, body, `placeholder="Enter your city"`)
}

func TestLogin_UnknownConnection(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	w := app.get("/login?connection=carrier-pigeon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_InvalidState(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	require.Equal(t, http.StatusFound, app.get("/login?connection=social").Code)

	w := app.get("/callback?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Contains(t, app.get("/").Body.String(), "/login?connection=sms", "failed login signs the session out")
}

func TestCallback_ProviderError(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	require.Equal(t, http.StatusFound, app.get("/login?connection=social").Code)

	w := app.get("/callback?error=access_denied&error_description=denied")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, app.get("/").Body.String(), "/login?connection=social")
}

func TestBlur_ShowsFieldError(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	w := app.post("/register/field?field=city", url.Values{"city": {"P"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "City must be at least 2 characters")

	w = app.post("/register/field?field=city", url.Values{"city": {"Pune"}}, true)
	assert.NotContains(t, w.Body.String(), "City must be at least 2 characters")
}

func TestBlur_UnknownField(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	w := app.post("/register/field?field=age", url.Values{}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.post("/register/field?field=hasClinic", url.Values{}, true)
	assert.Contains(t, w.Body.String(), "bad_request", "DataStar requests get the error as a toast")
}

func TestToggleClinic(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	on := url.Values{"hasClinic": {"true"}, "city": {"Pune"}}
	body := app.post("/register/clinic", on, true).Body.String()
	assert.Contains(t, body, "Clinic Name")
	assert.Contains(t, body, `placeholder="Enter clinic name"`)
	assert.Contains(t, body, `value="Pune"`, "typed values survive the re-render")

	app.post("/register/field?field=clinicName", url.Values{"hasClinic": {"true"}, "clinicName": {"Smile Co"}}, true)

	body = app.post("/register/clinic", url.Values{}, true).Body.String()
	assert.NotContains(t, body, "Clinic Name")

	body = app.post("/register/clinic", url.Values{"hasClinic": {"true"}}, true).Body.String()
	assert.Contains(t, body, `value="Smile Co"`, "hiding the clinic keeps its name")
}

func TestSubmit_PlainRequestRedirectsAndFlashes(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	w := app.post("/register", validDraft(), false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	saved := app.saver.registrations()
	require.Len(t, saved, 1)
	assert.Equal(t, "google-oauth2|1", saved[0].SubjectID)
	assert.Equal(t, "Pune", saved[0].City)

	body := app.get("/").Body.String()
	assert.Contains(t, body, "Registration Successful!")
	assert.Contains(t, body, "Welcome to Indian Dental Association.")
	assert.NotContains(t, body, `value="Pune"`, "the draft resets after success")

	assert.NotContains(t, app.get("/").Body.String(), "Registration Successful!", "flash is shown once")
	assert.Equal(t, 1.0, testutil.ToFloat64(app.metrics.Submissions.WithLabelValues("succeeded", "password_or_social")))
}

func TestSubmit_ValidationFailure(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")

	draft := validDraft()
	draft.Set("email", "not-an-email")
	draft.Set("phone", "abc")

	w := app.post("/register", draft, false)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid email address")
	assert.Contains(t, body, "Invalid phone number")
	assert.Empty(t, app.saver.registrations())
}

func TestSubmit_DataStarFailureShowsToast(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, phoneSnapshot())
	app.signIn("sms")
	app.saver.err = errors.New("db down")

	draft := validDraft()
	draft.Del("email")
	w := app.post("/register", draft, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: datastar-patch-elements"))
	assert.Contains(t, body, "Registration Failed")
	assert.Contains(t, body, "Please try again later.")
	assert.Contains(t, body, "#toasts")
	assert.Contains(t, body, `value="Pune"`, "the draft is kept after a failure")
	assert.Equal(t, 1.0, testutil.ToFloat64(app.metrics.Submissions.WithLabelValues("failed", "phone_otp")))
}

func TestSubmit_DuplicateWhileInFlightKeepsDraft(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, phoneSnapshot())
	app.signIn("sms")
	app.saver.err = errors.New("db down")
	app.saver.entered = make(chan struct{})
	app.saver.hold = make(chan struct{})

	draft := validDraft()
	draft.Del("email")

	// The first submit runs on its own request so the test can act while it waits.
	cookie := *app.cookie
	first := make(chan int, 1)
	go func() {
		r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(draft.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Datastar-Request", "true")
		r.AddCookie(&cookie)
		w := httptest.NewRecorder()
		app.handler.ServeHTTP(w, r)
		first <- w.Code
	}()
	<-app.saver.entered

	edited := url.Values{}
	for k, v := range draft {
		edited[k] = append([]string(nil), v...)
	}
	edited.Set("city", "Mumbai")

	w := app.post("/register", edited, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Pune"`)
	assert.NotContains(t, w.Body.String(), "Mumbai")

	w = app.post("/register/field?field=city", url.Values{"city": {"Mumbai"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Mumbai")

	w = app.post("/register/clinic", edited, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Mumbai")

	close(app.saver.hold)
	assert.Equal(t, http.StatusOK, <-first)

	body := app.get("/").Body.String()
	assert.Contains(t, body, `value="Pune"`, "the failed draft is the one that was submitted")
	assert.NotContains(t, body, "Mumbai")
	assert.Equal(t, 1, app.saver.callCount())
}

func TestRegister_WithoutSessionRedirects(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	w := app.post("/register", validDraft(), false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout_UnmountsForm(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, socialSnapshot())
	app.signIn("social")
	stale := *app.cookie

	w := app.post("/logout", url.Values{}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Nil(t, app.cookie)
	assert.Equal(t, 0.0, testutil.ToFloat64(app.metrics.FormsActive))

	app.cookie = &stale
	assert.Contains(t, app.get("/").Body.String(), "/login?connection=social")
	w = app.post("/register", validDraft(), false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, app.saver.registrations())
}
