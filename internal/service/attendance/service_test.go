package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/fixtures"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrganization = "acme"
	testEmployeeID   = "emp-1"
)

var testAuth = jwtauth.New("HS256", []byte("attendance-test-secret"), nil)

func authContext(t *testing.T, userID, organization string, role user.Role) context.Context {
	t.Helper()
	token, _, err := testAuth.Encode(map[string]interface{}{
		"user_id":      userID,
		"organization": organization,
		"role":         string(role),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// fakeAttendanceRepo keeps daily records in memory and enforces the
// one-record-per-day key the same way the unique constraint does.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[string]attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.EmployeeID == a.EmployeeID && sameDay(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
	}
	r.nextID++
	a.ID = fmt.Sprintf("att-%d", r.nextID)
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.EmployeeID == employeeID && sameDay(existing.Date, date) {
			cp := existing
			cp.Breaks = append([]attendance.Break(nil), existing.Breaks...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.records[a.ID] = a
	return nil
}

func (r *fakeAttendanceRepo) AddBreak(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[b.AttendanceID]
	if !ok {
		return attendance.Break{}, attendance.ErrAttendanceNotFound
	}
	r.nextID++
	b.ID = fmt.Sprintf("brk-%d", r.nextID)
	record.Breaks = append(record.Breaks, b)
	r.records[record.ID] = record
	return b, nil
}

func (r *fakeAttendanceRepo) CloseBreak(ctx context.Context, breakID string, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, record := range r.records {
		for i, b := range record.Breaks {
			if b.ID == breakID {
				e := end
				record.Breaks[i].EndTime = &e
				r.records[id] = record
				return nil
			}
		}
	}
	return attendance.ErrNoOpenBreak
}

func (r *fakeAttendanceRepo) List(ctx context.Context, organization string, filter attendance.AttendanceFilter, employeeIDs []string) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []attendance.Attendance
	for _, a := range r.records {
		if a.Organization != organization {
			continue
		}
		if len(employeeIDs) > 0 && !contains(employeeIDs, a.EmployeeID) {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil {
			start, err := time.Parse("2006-01-02", *filter.StartDate)
			if err != nil {
				return nil, 0, err
			}
			if a.Date.Before(start) {
				continue
			}
		}
		if filter.EndDate != nil {
			end, err := time.Parse("2006-01-02", *filter.EndDate)
			if err != nil {
				return nil, 0, err
			}
			if a.Date.After(end) {
				continue
			}
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := int64(len(matched))
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		if offset >= len(matched) {
			return nil, total, nil
		}
		upper := offset + filter.Limit
		if upper > len(matched) {
			upper = len(matched)
		}
		matched = matched[offset:upper]
	}
	return matched, total, nil
}

func (r *fakeAttendanceRepo) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListAll(ctx context.Context, organization string, filter attendance.AllAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return r.List(ctx, organization, attendance.AttendanceFilter{}, nil)
}

func (r *fakeAttendanceRepo) ListOpenSessions(ctx context.Context, organization string, date time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.Organization == organization && sameDay(a.Date, date) && a.ClockIn != nil && a.ClockOut == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[string]user.User
	rewardPoints map[string]int
	subordinates map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:        make(map[string]user.User),
		rewardPoints: make(map[string]int),
		subordinates: make(map[string][]string),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, organization string, filter user.UserFilter) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) ListPending(ctx context.Context, organization string) ([]user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }

func (r *fakeUserRepo) SetApproval(ctx context.Context, id string, approved bool, active bool) error {
	return nil
}

func (r *fakeUserRepo) AddRewardPoints(ctx context.Context, id string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rewardPoints[id] += points
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeUserRepo) ListSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subordinates[supervisorID], nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *fakeAuditRepo) Create(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) last() *audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil
	}
	e := r.entries[len(r.entries)-1]
	return &e
}

type fakeSettingsService struct {
	settings company.Settings
	found    bool
}

func (s *fakeSettingsService) Get(ctx context.Context) (company.SettingsResponse, error) {
	return company.SettingsResponse{}, nil
}

func (s *fakeSettingsService) Upsert(ctx context.Context, req company.UpsertSettingsRequest) (company.SettingsResponse, error) {
	return company.SettingsResponse{}, nil
}

func (s *fakeSettingsService) TestRules(ctx context.Context, req company.TestRulesRequest) (company.TestRulesResponse, error) {
	return company.TestRulesResponse{}, nil
}

func (s *fakeSettingsService) Defaults(ctx context.Context) (company.SettingsResponse, error) {
	return company.SettingsResponse{}, nil
}

func (s *fakeSettingsService) Resolve(ctx context.Context, organization string) (company.Settings, bool, error) {
	return s.settings, s.found, nil
}

type fakeNotificator struct {
	mu   sync.Mutex
	sent []notification.CreateNotificationRequest
}

func (n *fakeNotificator) Notify(req notification.CreateNotificationRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, req)
}

func (n *fakeNotificator) List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (notification.ListNotificationsResponse, error) {
	return notification.ListNotificationsResponse{}, nil
}

func (n *fakeNotificator) MarkRead(ctx context.Context, userID string, ids []string) error {
	return nil
}

func (n *fakeNotificator) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (n *fakeNotificator) Delete(ctx context.Context, userID string, id string) error { return nil }

func (n *fakeNotificator) Shutdown() {}

type testEnv struct {
	service        attendance.AttendanceService
	attendanceRepo *fakeAttendanceRepo
	userRepo       *fakeUserRepo
	auditRepo      *fakeAuditRepo
	settings       *fakeSettingsService
	notificator    *fakeNotificator
}

func newTestEnv() *testEnv {
	env := &testEnv{
		attendanceRepo: newFakeAttendanceRepo(),
		userRepo:       newFakeUserRepo(),
		auditRepo:      &fakeAuditRepo{},
		settings:       &fakeSettingsService{settings: fixtures.DefaultSettings(testOrganization), found: true},
		notificator:    &fakeNotificator{},
	}
	env.userRepo.users[testEmployeeID] = user.User{
		ID:           testEmployeeID,
		Name:         "Test Employee",
		Organization: testOrganization,
		Role:         user.RoleEmployee,
		IsApproved:   true,
		IsActive:     true,
	}
	env.service = NewAttendanceService(env.attendanceRepo, env.userRepo, env.auditRepo, env.settings, env.notificator)
	return env
}

// seedOpenSession inserts a clocked-in record for today so the clock-out and
// break transitions can be exercised without depending on the wall clock.
func (env *testEnv) seedOpenSession(t *testing.T, clockIn time.Time) attendance.Attendance {
	t.Helper()
	status := env.settings.settings.CalculateAttendanceStatus(clockIn, nil)
	record, err := env.attendanceRepo.Create(context.Background(), attendance.Attendance{
		EmployeeID:   testEmployeeID,
		Organization: testOrganization,
		Date:         dateOf(time.Now().In(env.settings.settings.Location())),
		ClockIn:      &clockIn,
		Status:       status.Status,
		Remarks:      &status.Remarks,
		LocationType: company.LocationOffice,
	})
	require.NoError(t, err)
	return record
}

// seedClosedDay inserts a finished eight-hour session dated to the given
// day, clocked in at the given wall time.
func (env *testEnv) seedClosedDay(t *testing.T, date time.Time, hour, minute int) attendance.Attendance {
	t.Helper()
	loc := env.settings.settings.Location()
	clockIn := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
	clockOut := clockIn.Add(8 * time.Hour)
	status := env.settings.settings.CalculateAttendanceStatus(clockIn, &clockOut)
	record, err := env.attendanceRepo.Create(context.Background(), attendance.Attendance{
		EmployeeID:   testEmployeeID,
		Organization: testOrganization,
		Date:         date,
		ClockIn:      &clockIn,
		ClockOut:     &clockOut,
		Status:       status.Status,
		Remarks:      &status.Remarks,
		LocationType: company.LocationOffice,
	})
	require.NoError(t, err)
	return record
}

// workdaysBack lists the non-weekly-off dates of the trailing n-day window,
// oldest first, today included.
func (env *testEnv) workdaysBack(n int) []time.Time {
	end := dateOf(time.Now().In(env.settings.settings.Location()))
	var days []time.Time
	for d := end.AddDate(0, 0, -(n - 1)); !d.After(end); d = d.AddDate(0, 0, 1) {
		if !env.settings.settings.IsWeeklyOff(d.Weekday()) {
			days = append(days, d)
		}
	}
	return days
}

func TestClockIn(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	resp, err := env.service.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.NotNil(t, resp.ClockIn)
	assert.Contains(t, []string{company.StatusPresent, company.StatusLate, company.StatusHalfDay}, resp.Status)

	entry := env.auditRepo.last()
	require.NotNil(t, entry)
	assert.Equal(t, audit.ActionClockIn, entry.Action)
	assert.True(t, entry.Success)
}

func TestClockInTwiceSameDay(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	_, err = env.service.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	entry := env.auditRepo.last()
	require.NotNil(t, entry)
	assert.False(t, entry.Success)
}

func TestClockInLocationRequired(t *testing.T) {
	env := newTestEnv()
	env.settings.settings.Attendance.RequireLocationForClockIn = true
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)

	lat, lng := 52.52, 13.405
	_, err = env.service.ClockIn(ctx, attendance.ClockInRequest{Latitude: &lat, Longitude: &lng})
	assert.NoError(t, err)
}

func TestClockInRemoteNotAllowed(t *testing.T) {
	env := newTestEnv()
	env.settings.settings.Attendance.AllowRemoteWork = false
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.ClockIn(ctx, attendance.ClockInRequest{LocationType: company.LocationRemote})
	assert.ErrorIs(t, err, attendance.ErrRemoteNotAllowed)

	_, err = env.service.ClockIn(ctx, attendance.ClockInRequest{})
	assert.NoError(t, err)
}

func TestClockInRejectsLoneCoordinate(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	lat := 10.0
	_, err := env.service.ClockIn(ctx, attendance.ClockInRequest{Latitude: &lat})
	assert.Error(t, err)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOut(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	record := env.seedOpenSession(t, now.Add(-8*time.Hour))

	resp, err := env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	assert.NotNil(t, resp.ClockOut)
	assert.Equal(t, company.StatusClockedOut, resp.Status)
	assert.Equal(t, clockOutBonusPoints, env.userRepo.rewardPoints[testEmployeeID])

	stored, err := env.attendanceRepo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ClockOut)
}

func TestClockOutTwice(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-8*time.Hour))

	_, err := env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	_, err = env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestClockOutShortSessionIsHalfDay(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-2*time.Hour))

	resp, err := env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, company.StatusHalfDay, resp.Status)
}

func TestClockOutClosesOpenBreak(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-8*time.Hour))

	_, err := env.service.StartBreak(ctx, attendance.StartBreakRequest{})
	require.NoError(t, err)

	resp, err := env.service.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Breaks, 1)
	assert.NotNil(t, resp.Breaks[0].EndTime)
}

func TestBreakLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-4*time.Hour))

	resp, err := env.service.StartBreak(ctx, attendance.StartBreakRequest{})
	require.NoError(t, err)
	assert.Equal(t, company.StatusOnBreak, resp.Status)

	_, err = env.service.StartBreak(ctx, attendance.StartBreakRequest{})
	assert.ErrorIs(t, err, attendance.ErrBreakInProgress)

	resp, err = env.service.EndBreak(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, company.StatusOnBreak, resp.Status)
	require.Len(t, resp.Breaks, 1)
	assert.NotNil(t, resp.Breaks[0].EndTime)
}

func TestStartBreakWithoutClockIn(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.StartBreak(ctx, attendance.StartBreakRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestEndBreakWithoutOpenBreak(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-4*time.Hour))

	_, err := env.service.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoOpenBreak)
}

func TestGetTodayFlags(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	resp, err := env.service.GetToday(ctx)
	require.NoError(t, err)
	assert.True(t, resp.CanClockIn)
	assert.False(t, resp.CanClockOut)
	assert.Nil(t, resp.Attendance)

	now := time.Now().In(env.settings.settings.Location())
	env.seedOpenSession(t, now.Add(-1*time.Hour))

	resp, err = env.service.GetToday(ctx)
	require.NoError(t, err)
	assert.False(t, resp.CanClockIn)
	assert.True(t, resp.CanClockOut)
	assert.True(t, resp.CanStartBreak)
	assert.False(t, resp.CanEndBreak)
	require.NotNil(t, resp.Attendance)
}

func TestListScopedToSelfForEmployees(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	other := "emp-2"
	_, err := env.service.List(ctx, attendance.AttendanceFilter{EmployeeID: &other})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	self := testEmployeeID
	_, err = env.service.List(ctx, attendance.AttendanceFilter{EmployeeID: &self})
	assert.NoError(t, err)
}

func TestListManagerSeesDirectReports(t *testing.T) {
	env := newTestEnv()
	env.userRepo.subordinates["mgr-1"] = []string{testEmployeeID}
	ctx := authContext(t, "mgr-1", testOrganization, user.RoleManager)

	target := testEmployeeID
	_, err := env.service.List(ctx, attendance.AttendanceFilter{EmployeeID: &target})
	assert.NoError(t, err)

	stranger := "emp-9"
	_, err = env.service.List(ctx, attendance.AttendanceFilter{EmployeeID: &stranger})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestListFiltersAndPaginates(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	loc := env.settings.settings.Location()
	end := dateOf(time.Now().In(loc))
	var days []time.Time
	for d := end.AddDate(0, 0, -9); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	env.seedClosedDay(t, days[0], 10, 0)
	for _, d := range days[1:] {
		env.seedClosedDay(t, d, 9, 0)
	}

	startDate := days[2].Format("2006-01-02")
	endDate := days[5].Format("2006-01-02")
	resp, err := env.service.List(ctx, attendance.AttendanceFilter{StartDate: &startDate, EndDate: &endDate})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.TotalCount)
	require.Len(t, resp.Attendances, 4)
	for _, a := range resp.Attendances {
		assert.GreaterOrEqual(t, a.Date, startDate)
		assert.LessOrEqual(t, a.Date, endDate)
	}

	late := company.StatusLate
	resp, err = env.service.List(ctx, attendance.AttendanceFilter{Status: &late})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, days[0].Format("2006-01-02"), resp.Attendances[0].Date)

	resp, err = env.service.List(ctx, attendance.AttendanceFilter{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Attendances, 4)
	// Newest first.
	assert.Equal(t, days[9].Format("2006-01-02"), resp.Attendances[0].Date)

	resp, err = env.service.List(ctx, attendance.AttendanceFilter{Page: 3, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, resp.Attendances, 2)
}

func TestGetStatsDeniesPeerAccess(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	other := "emp-2"
	_, err := env.service.GetStats(ctx, &other, 30)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestGetStatsOwnRecords(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	// 7 calendar days minus the two weekly offs.
	workdays := env.workdaysBack(7)
	require.Len(t, workdays, 5)

	// Three punctual days, one late day, one absence.
	for _, d := range workdays[:3] {
		env.seedClosedDay(t, d, 9, 0)
	}
	env.seedClosedDay(t, workdays[3], 10, 0)

	stats, err := env.service.GetStats(ctx, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, stats.EmployeeID)
	assert.Equal(t, 7, stats.PeriodDays)
	assert.Equal(t, 5, stats.TotalDays)
	assert.Equal(t, 3, stats.PresentDays)
	assert.Equal(t, 1, stats.LateDays)
	assert.Equal(t, 1, stats.AbsentDays)
	assert.InDelta(t, 60.0, stats.AttendanceRate, 0.001)
	assert.InDelta(t, 80.0, stats.PunctualityRate, 0.001)
	assert.InDelta(t, 32.0, stats.TotalWorkHours, 0.001)
	assert.InDelta(t, 8.0, stats.AvgWorkHours, 0.001)
}

func TestGetHistoryValidatesMonth(t *testing.T) {
	env := newTestEnv()
	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)

	_, err := env.service.GetHistory(ctx, 13, 2026)
	assert.Error(t, err)

	_, err = env.service.GetHistory(ctx, 0, 2026)
	assert.Error(t, err)

	_, err = env.service.GetHistory(ctx, 1, 1900)
	assert.Error(t, err)
}

func TestListAllRequiresElevatedRole(t *testing.T) {
	env := newTestEnv()

	ctx := authContext(t, testEmployeeID, testOrganization, user.RoleEmployee)
	_, err := env.service.ListAll(ctx, attendance.AllAttendanceFilter{})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	ctx = authContext(t, "hr-1", testOrganization, user.RoleHR)
	_, err = env.service.ListAll(ctx, attendance.AllAttendanceFilter{})
	assert.NoError(t, err)
}

func TestMissingClaimsRejected(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.ClockIn(context.Background(), attendance.ClockInRequest{})
	assert.Error(t, err)
}
