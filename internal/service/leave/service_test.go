package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/fixtures"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaveTestOrganization = "acme"

var leaveTestAuth = jwtauth.New("HS256", []byte("leave-test-secret"), nil)

func authContext(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	token, _, err := leaveTestAuth.Encode(map[string]interface{}{
		"user_id":      userID,
		"organization": leaveTestOrganization,
		"role":         string(role),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeLeaveRepo struct {
	mu       sync.Mutex
	nextID   int
	requests map[string]leave.Request
	usedDays map[string]int // employeeID|type -> approved days
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{
		requests: make(map[string]leave.Request),
		usedDays: make(map[string]int),
	}
}

func usedKey(employeeID string, leaveType leave.LeaveType) string {
	return employeeID + "|" + string(leaveType)
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = fmt.Sprintf("lr-%d", r.nextID)
	req.CreatedAt = time.Now()
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, req leave.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeLeaveRepo) List(ctx context.Context, organization string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.Request
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) ListByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.Request
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if !start.After(req.EndDate) && !end.Before(req.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeaveRepo) UsedDays(ctx context.Context, employeeID string, leaveType leave.LeaveType, yearStart, yearEnd time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usedDays[usedKey(employeeID, leaveType)], nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }

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

func (r *fakeUserRepo) AddRewardPoints(ctx context.Context, id string, points int) error { return nil }

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeUserRepo) ListSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	return nil, nil
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
	return r.entries, int64(len(r.entries)), nil
}

type fakeSettingsService struct {
	settings company.Settings
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
	return s.settings, true, nil
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

type leaveTestEnv struct {
	service     leave.Service
	leaveRepo   *fakeLeaveRepo
	userRepo    *fakeUserRepo
	auditRepo   *fakeAuditRepo
	settings    *fakeSettingsService
	notificator *fakeNotificator
}

func newLeaveTestEnv() *leaveTestEnv {
	managerID := "mgr-1"
	env := &leaveTestEnv{
		leaveRepo:   newFakeLeaveRepo(),
		userRepo:    &fakeUserRepo{users: make(map[string]user.User)},
		auditRepo:   &fakeAuditRepo{},
		settings:    &fakeSettingsService{settings: fixtures.DefaultSettings(leaveTestOrganization)},
		notificator: &fakeNotificator{},
	}
	env.userRepo.users["emp-1"] = user.User{
		ID:           "emp-1",
		Name:         "Test Employee",
		Organization: leaveTestOrganization,
		Role:         user.RoleEmployee,
		ManagerID:    &managerID,
	}
	env.userRepo.users[managerID] = user.User{
		ID:           managerID,
		Name:         "Test Manager",
		Organization: leaveTestOrganization,
		Role:         user.RoleManager,
	}
	env.service = NewLeaveService(env.leaveRepo, env.userRepo, env.auditRepo, env.settings, env.notificator)
	return env
}

// applyRequest builds a casual request starting daysFromNow days ahead.
func applyRequest(daysFromNow, length int) leave.ApplyRequest {
	start := time.Now().AddDate(0, 0, daysFromNow)
	end := start.AddDate(0, 0, length-1)
	return leave.ApplyRequest{
		Type:      string(leave.TypeCasual),
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Reason:    "family event",
	}
}

func TestApply(t *testing.T) {
	env := newLeaveTestEnv()
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	resp, err := env.service.Apply(ctx, applyRequest(10, 3))
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 3, resp.Days)

	// The manager gets a review notification.
	require.Len(t, env.notificator.sent, 1)
	assert.Equal(t, "mgr-1", env.notificator.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeaveRequest, env.notificator.sent[0].Type)
}

func TestApplyValidation(t *testing.T) {
	env := newLeaveTestEnv()
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	req := applyRequest(10, 3)
	req.Type = "unpaid"
	_, err := env.service.Apply(ctx, req)
	assert.Error(t, err)

	req = applyRequest(10, 3)
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	_, err = env.service.Apply(ctx, req)
	assert.Error(t, err)

	req = applyRequest(10, 3)
	req.Reason = ""
	_, err = env.service.Apply(ctx, req)
	assert.Error(t, err)
}

func TestApplyTooManyConsecutiveDays(t *testing.T) {
	env := newLeaveTestEnv()
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	// Defaults cap consecutive days at 15; quota would also be exceeded, but
	// the consecutive check fires first.
	_, err := env.service.Apply(ctx, applyRequest(10, 16))
	assert.ErrorIs(t, err, leave.ErrTooManyConsecutive)
}

func TestApplyInsufficientLeadTime(t *testing.T) {
	env := newLeaveTestEnv()
	env.settings.settings.Leave.LeaveApplicationLeadDays = 5
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	_, err := env.service.Apply(ctx, applyRequest(2, 1))
	assert.ErrorIs(t, err, leave.ErrInsufficientLeadTime)

	_, err = env.service.Apply(ctx, applyRequest(10, 1))
	assert.NoError(t, err)
}

func TestApplyOverlap(t *testing.T) {
	env := newLeaveTestEnv()
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	_, err := env.service.Apply(ctx, applyRequest(10, 3))
	require.NoError(t, err)

	// Second request touching the same window is rejected even while the
	// first is still pending.
	_, err = env.service.Apply(ctx, applyRequest(11, 2))
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestApplyInsufficientQuota(t *testing.T) {
	env := newLeaveTestEnv()
	env.leaveRepo.usedDays[usedKey("emp-1", leave.TypeCasual)] = 10
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	// 10 used + 5 requested exceeds the default 12-day casual quota.
	_, err := env.service.Apply(ctx, applyRequest(10, 5))
	assert.ErrorIs(t, err, leave.ErrInsufficientQuota)

	_, err = env.service.Apply(ctx, applyRequest(10, 2))
	assert.NoError(t, err)
}

func TestReviewApprove(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)
	mgrCtx := authContext(t, "mgr-1", user.RoleManager)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	resp, err := env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: true})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "mgr-1", *resp.ReviewedBy)

	// Decision is audited and the employee notified.
	require.NotEmpty(t, env.auditRepo.entries)
	assert.Equal(t, audit.ActionLeaveDecision, env.auditRepo.entries[len(env.auditRepo.entries)-1].Action)
	last := env.notificator.sent[len(env.notificator.sent)-1]
	assert.Equal(t, "emp-1", last.RecipientID)
	assert.Equal(t, notification.TypeLeaveApproved, last.Type)
}

func TestReviewReject(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)
	mgrCtx := authContext(t, "mgr-1", user.RoleManager)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	comment := "project deadline"
	resp, err := env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: false, Comment: &comment})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRejected, resp.Status)
	require.NotNil(t, resp.ReviewComment)
	assert.Equal(t, comment, *resp.ReviewComment)
}

func TestReviewRequiresPermission(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	_, err = env.service.Review(empCtx, leave.ReviewRequest{ID: created.ID, Approve: true})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestReviewOwnRequestDenied(t *testing.T) {
	env := newLeaveTestEnv()
	mgrCtx := authContext(t, "mgr-1", user.RoleManager)

	created, err := env.service.Apply(mgrCtx, applyRequest(10, 3))
	require.NoError(t, err)

	_, err = env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: true})
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestReviewAlreadyProcessed(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)
	mgrCtx := authContext(t, "mgr-1", user.RoleManager)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	_, err = env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: true})
	require.NoError(t, err)

	_, err = env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: false})
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestCancel(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	require.NoError(t, env.service.Cancel(empCtx, created.ID))

	stored, err := env.leaveRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, stored.Status)
}

func TestCancelOnlyOwner(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)
	otherCtx := authContext(t, "emp-2", user.RoleEmployee)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	err = env.service.Cancel(otherCtx, created.ID)
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}

func TestCancelProcessedRequest(t *testing.T) {
	env := newLeaveTestEnv()
	empCtx := authContext(t, "emp-1", user.RoleEmployee)
	mgrCtx := authContext(t, "mgr-1", user.RoleManager)

	created, err := env.service.Apply(empCtx, applyRequest(10, 3))
	require.NoError(t, err)

	_, err = env.service.Review(mgrCtx, leave.ReviewRequest{ID: created.ID, Approve: true})
	require.NoError(t, err)

	err = env.service.Cancel(empCtx, created.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestGetBalance(t *testing.T) {
	env := newLeaveTestEnv()
	env.leaveRepo.usedDays[usedKey("emp-1", leave.TypeCasual)] = 4
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	resp, err := env.service.GetBalance(ctx, nil, 2026)
	require.NoError(t, err)

	require.Len(t, resp.Balances, 3)
	byType := make(map[leave.LeaveType]leave.Balance)
	for _, b := range resp.Balances {
		byType[b.Type] = b
	}
	assert.Equal(t, 12, byType[leave.TypeCasual].Annual)
	assert.Equal(t, 4, byType[leave.TypeCasual].Used)
	assert.Equal(t, 8, byType[leave.TypeCasual].Remaining)
	assert.Equal(t, 10, byType[leave.TypeSick].Annual)
	assert.Equal(t, 15, byType[leave.TypeEarned].Annual)
}

func TestGetBalancePeerAccessDenied(t *testing.T) {
	env := newLeaveTestEnv()
	ctx := authContext(t, "emp-1", user.RoleEmployee)

	other := "emp-2"
	_, err := env.service.GetBalance(ctx, &other, 2026)
	assert.ErrorIs(t, err, leave.ErrUnauthorized)
}
