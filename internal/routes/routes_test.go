package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-dashboard/internal/audit"
	"github.com/BruksfildServices01/barber-dashboard/internal/config"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/infra/repository"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
	"github.com/BruksfildServices01/barber-dashboard/internal/metrics"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend imitates the turnos API.
type fakeBackend struct {
	mu        sync.Mutex
	rejectAll bool
	created   int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	reject := b.rejectAll
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/auth/login" {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Credenciales inválidas"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":7,"nombre":"Marcos","usuario":"marcos","rol":"admin"}}`))
		return
	}

	if reject || r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
		return
	}

	switch {
	case r.URL.Path == "/turnos/fecha/2025-03-05":
		w.Write([]byte(`{"turnos":[
			{"id":1,"fecha":"2025-03-05","hora_inicio":"09:00:00","hora_fin":"09:30:00","estado":"pendiente","cliente":{"nombre":"Juan","telefono":"11 5555 0000"}},
			{"id":2,"fecha":"2025-03-05","hora_inicio":"10:00:00","hora_fin":"10:30:00","estado":"confirmado"}
		]}`))
	case strings.HasPrefix(r.URL.Path, "/turnos/fecha/"):
		w.Write([]byte(`{"turnos":[]}`))
	case r.URL.Path == "/turnos/estadisticas":
		w.Write([]byte(`{"estadisticas":{"total_turnos":10,"pendientes":3,"completados":4,"confirmados":3}}`))
	case r.URL.Path == "/turnos/" && r.Method == http.MethodGet:
		if r.URL.Query().Get("fecha_inicio") == "2025-03-01" {
			w.Write([]byte(`[{"id":1,"fecha":"2025-03-05"},{"id":2,"fecha":"2025-03-05"},{"id":3,"fecha":"2025-03-20"}]`))
			return
		}
		w.Write([]byte(`[]`))
	case r.URL.Path == "/turnos/" && r.Method == http.MethodPost:
		b.mu.Lock()
		b.created++
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":50,"fecha":"2025-03-21","estado":"pendiente"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found"}`))
	}
}

func (b *fakeBackend) setReject(v bool) {
	b.mu.Lock()
	b.rejectAll = v
	b.mu.Unlock()
}

type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

type memorySink struct {
	mu      sync.Mutex
	actions []string
}

func (s *memorySink) Write(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	s.actions = append(s.actions, ev.Action)
	s.mu.Unlock()
	return nil
}

func (s *memorySink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

type harness struct {
	router  *gin.Engine
	backend *fakeBackend
	store   *session.Store
	sink    *memorySink
	views   Views
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := logging.Discard()
	loc := time.FixedZone("ART", -3*3600)
	now := func() time.Time { return time.Date(2025, 3, 5, 12, 0, 0, 0, loc) }

	authClient := repository.NewClient(srv.URL, time.Second, nil, logger)
	store := session.NewStore(repository.NewAuthHTTPClient(authClient), logger, now)
	repo := repository.NewAppointmentHTTPRepository(repository.NewClient(srv.URL, time.Second, store, logger))

	sink := &memorySink{}
	dispatcher := audit.NewDispatcher(sink, logger)

	cfg := &config.Config{
		Dashboard: config.DashboardConfig{
			PollIntervalSeconds: 300,
			Timezone:            "UTC",
			ContactMessage:      "Hola",
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	r := gin.New()
	views := RegisterRoutes(r, Dependencies{
		Config:    cfg,
		Logger:    logger,
		Sessions:  store,
		Repo:      repo,
		Audit:     dispatcher,
		Metrics:   metrics.New(),
		Scheduler: idleScheduler{},
		Now:       now,
	})

	t.Cleanup(func() {
		store.Logout()
		_ = dispatcher.Close(context.Background())
	})

	return &harness{router: r, backend: backend, store: store, sink: sink, views: views}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/login", `{"usuario":"marcos","password":"secreto"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		var d dto.DashboardDTO
		rec := h.do(http.MethodGet, "/api/dashboard", "")
		return json.Unmarshal(rec.Body.Bytes(), &d) == nil && !d.Loading && len(d.Appointments) == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/dashboard", "/api/calendar", "/api/auth/session"} {
		rec := h.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health", "").Code)
}

func TestLoginErrors(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/auth/login", `{"usuario":"marcos","password":"mal"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario o contraseña incorrectos")

	rec = h.do(http.MethodPost, "/api/auth/login", `{"usuario":"marcos"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardFlow(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"usuario":"marcos"`)
	assert.NotContains(t, rec.Body.String(), "tok", "the token never leaves the server")

	var d dto.DashboardDTO
	require.NoError(t, json.Unmarshal(h.do(http.MethodGet, "/api/dashboard", "").Body.Bytes(), &d))
	assert.Equal(t, "2025-03-05", d.Date)
	assert.Equal(t, dto.StatsDTO{Total: 10, Pending: 3, Completed: 4, InProgress: 3}, d.Stats)
	assert.Equal(t, "09:00", d.Appointments[0].StartTime)
	assert.Equal(t, "Cliente", d.Appointments[1].ClientName)

	rec = h.do(http.MethodPost, "/api/dashboard/appointments/1/toggle", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"expanded":true}`, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/dashboard/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.True(t, d.Appointments[0].Expanded, "expansion survives a refresh")

	rec = h.do(http.MethodGet, "/api/appointments/1/contact", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://wa.me/1155550000?text=Hola")

	assert.Equal(t, http.StatusUnprocessableEntity, h.do(http.MethodGet, "/api/appointments/2/contact", "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/appointments/9/contact", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/appointments/abc/contact", "").Code)
}

func TestCalendarFlow(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	var cal dto.CalendarDTO
	rec := h.do(http.MethodGet, "/api/calendar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	assert.Equal(t, 3, cal.Month)
	assert.Equal(t, "Marzo 2025", cal.Title)

	var busy dto.DayCellDTO
	for _, w := range cal.Weeks {
		for _, c := range w {
			if c.Date == "2025-03-05" {
				busy = c
			}
		}
	}
	assert.Equal(t, 2, busy.Occupied)
	assert.True(t, busy.IsToday)
	assert.Equal(t, "con-turnos-disponible", busy.Classification)

	rec = h.do(http.MethodPost, "/api/calendar/next", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	assert.Equal(t, 4, cal.Month)

	var day dto.DayDetailsDTO
	rec = h.do(http.MethodGet, "/api/calendar/days/2025-03-05", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Len(t, day.Appointments, 2)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/calendar/days/5-3-2025", "").Code)
}

func TestHiddenSignalEndsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(http.MethodPost, "/api/session/signal", `{"event":"hidden"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/dashboard", "").Code)
	assert.False(t, h.views.Dashboard.Mounted())

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/session/signal", `{"event":"blur"}`).Code)
}

func TestBackendRejectionTearsDownSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.backend.setReject(true)
	rec := h.do(http.MethodPost, "/api/dashboard/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Nil(t, h.store.Current())
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/dashboard", "").Code)
}

func TestMutationsAreAudited(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	body := `{"cliente_id":1,"servicio_id":2,"fecha":"2025-03-21","hora_inicio":"10:00","hora_fin":"10:30","estado":"pendiente"}`
	rec := h.do(http.MethodPost, "/api/appointments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/appointments", `{"cliente_id":1,"fecha":"21/03/2025"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	require.Eventually(t, func() bool {
		actions := h.sink.all()
		return len(actions) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{audit.ActionLogin, audit.ActionAppointmentCreate}, h.sink.all())
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	assert.Equal(t, 1, h.backend.created)
}

func TestLogoutIsAlwaysNoContent(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodPost, "/api/auth/logout", "").Code)

	h.login(t)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodPost, "/api/auth/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/auth/session", "").Code)
}
