package http

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// stubHandlers satisfies every handler interface with no-op methods so the
// route table can be built without real services.
type stubHandlers struct{}

func (stubHandlers) Register(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) Login(w http.ResponseWriter, r *http.Request)          {}
func (stubHandlers) Logout(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) RefreshToken(w http.ResponseWriter, r *http.Request)   {}
func (stubHandlers) StreamToken(w http.ResponseWriter, r *http.Request)    {}
func (stubHandlers) GetMe(w http.ResponseWriter, r *http.Request)          {}
func (stubHandlers) Get(w http.ResponseWriter, r *http.Request)            {}
func (stubHandlers) List(w http.ResponseWriter, r *http.Request)           {}
func (stubHandlers) ListPending(w http.ResponseWriter, r *http.Request)    {}
func (stubHandlers) Update(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) Approve(w http.ResponseWriter, r *http.Request)        {}
func (stubHandlers) Reject(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) Delete(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) GetSettings(w http.ResponseWriter, r *http.Request)    {}
func (stubHandlers) UpsertSettings(w http.ResponseWriter, r *http.Request) {}
func (stubHandlers) TestRules(w http.ResponseWriter, r *http.Request)      {}
func (stubHandlers) Defaults(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) ClockIn(w http.ResponseWriter, r *http.Request)        {}
func (stubHandlers) ClockOut(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) StartBreak(w http.ResponseWriter, r *http.Request)     {}
func (stubHandlers) EndBreak(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) GetToday(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) GetStats(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) GetHistory(w http.ResponseWriter, r *http.Request)     {}
func (stubHandlers) ListAll(w http.ResponseWriter, r *http.Request)        {}
func (stubHandlers) Export(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) Apply(w http.ResponseWriter, r *http.Request)          {}
func (stubHandlers) Review(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) Cancel(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) GetBalance(w http.ResponseWriter, r *http.Request)     {}
func (stubHandlers) Create(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) AddMember(w http.ResponseWriter, r *http.Request)      {}
func (stubHandlers) RemoveMember(w http.ResponseWriter, r *http.Request)   {}
func (stubHandlers) GetMyTeam(w http.ResponseWriter, r *http.Request)      {}
func (stubHandlers) ListForMe(w http.ResponseWriter, r *http.Request)      {}
func (stubHandlers) MarkRead(w http.ResponseWriter, r *http.Request)       {}
func (stubHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request)    {}
func (stubHandlers) Stream(w http.ResponseWriter, r *http.Request)         {}
func (stubHandlers) ListMine(w http.ResponseWriter, r *http.Request)       {}

func newTestRouter() *chi.Mux {
	jwtService := jwt.NewJWTService("router-test-secret", "15m", "168h")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := stubHandlers{}
	return NewRouter(jwtService, logger, "http://localhost:3000", Handlers{
		Auth:         s,
		User:         s,
		Company:      s,
		Attendance:   s,
		Leave:        s,
		Team:         s,
		Announcement: s,
		Notification: s,
		BugReport:    s,
		Audit:        s,
	})
}

func TestRouterAttendanceAndSettingsRoutes(t *testing.T) {
	r := newTestRouter()

	registered := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/attendance/clockin"},
		{http.MethodPut, "/api/v1/attendance/clockout"},
		{http.MethodPost, "/api/v1/attendance/break/start"},
		{http.MethodPut, "/api/v1/attendance/break/end"},
		{http.MethodGet, "/api/v1/attendance/today"},
		{http.MethodGet, "/api/v1/attendance"},
		{http.MethodGet, "/api/v1/attendance/stats"},
		{http.MethodGet, "/api/v1/attendance/history"},
		{http.MethodGet, "/api/v1/attendance/all"},
		{http.MethodGet, "/api/v1/company/settings"},
		{http.MethodPost, "/api/v1/company/settings"},
		{http.MethodPost, "/api/v1/company/settings/test-rules"},
	}
	for _, tc := range registered {
		assert.True(t, r.Match(chi.NewRouteContext(), tc.method, tc.path),
			"%s %s is not routed", tc.method, tc.path)
	}

	unregistered := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/attendance/clock-in"},
		{http.MethodPost, "/api/v1/attendance/clockout"},
		{http.MethodPost, "/api/v1/attendance/break/end"},
		{http.MethodPut, "/api/v1/company/settings"},
	}
	for _, tc := range unregistered {
		assert.False(t, r.Match(chi.NewRouteContext(), tc.method, tc.path),
			"%s %s should not be routed", tc.method, tc.path)
	}
}
