package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/pkg/metrics"
	"github.com/idadental/registration/pkg/notifications"
	"github.com/idadental/registration/pkg/registration"
)

func TestFormObserver(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	observe := m.FormObserver("phone_otp")

	observe(registration.StateIdle, registration.StateSubmitting)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))

	observe(registration.StateSubmitting, registration.StateFailed)
	observe(registration.StateFailed, registration.StateIdle)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))

	observe(registration.StateIdle, registration.StateSubmitting)
	observe(registration.StateSubmitting, registration.StateSucceeded)
	observe(registration.StateSucceeded, registration.StateIdle)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("failed", "phone_otp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("succeeded", "phone_otp")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SubmitDuration))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	m.Logins.WithLabelValues("sms").Inc()

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ida_identity_logins_total{connection="sms"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

func TestToastDeliverer(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	mgr := notifications.NewManager(notifications.NewMemoryStorage(),
		notifications.WithDeliverer(m.ToastDeliverer()))

	ctx := context.Background()
	_, err := mgr.Send(ctx, notifications.Notification{Recipient: "s1", Type: notifications.TypeError})
	require.NoError(t, err)
	_, err = mgr.Send(ctx, notifications.Notification{Recipient: "s1", Type: notifications.TypeSuccess})
	require.NoError(t, err)
	_, err = mgr.Send(ctx, notifications.Notification{Recipient: "s2", Type: notifications.TypeError})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Toasts.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Toasts.WithLabelValues("success")))
}
