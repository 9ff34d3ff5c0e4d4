package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/middleware"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/security"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/storage"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/services"
	"github.com/AchilleasB/smart-city/citizen-services/internal/mocks"
)

type apiFixture struct {
	t        *testing.T
	store    *mocks.MockStore
	email    *mocks.MockOtpSender
	sms      *mocks.MockOtpSender
	renderer *mocks.MockReportRenderer
	tokens   *security.JWTIssuer
	handler  http.Handler
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	logger := zap.NewNop()
	store := mocks.NewSeededMockStore()
	metrics := mocks.NewMockMetrics()
	hasher := mocks.PlainHasher{}
	email, sms := mocks.NewMockOtpSender(), mocks.NewMockOtpSender()
	renderer := &mocks.MockReportRenderer{}

	tokens, err := security.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	files, err := storage.NewLocalStorage(t.TempDir(), 1024)
	require.NoError(t, err)

	otp := services.NewOtpService(store, services.DefaultOtpTTL, metrics, logger,
		services.VerificationChannel{Type: domain.ChannelEmail, Sender: email},
		services.VerificationChannel{Type: domain.ChannelMobile, Sender: sms},
	)

	rt := &Router{
		Auth:          NewAuthHandler(services.NewAuthService(store, hasher, tokens, logger), otp, logger),
		Complaints:    NewComplaintHandler(services.NewComplaintService(store, metrics, logger), logger),
		Users:         NewUserHandler(services.NewUserService(store, hasher, logger), logger),
		Departments:   NewDepartmentHandler(services.NewDepartmentService(store, logger), logger),
		Alerts:        NewAlertHandler(services.NewAlertService(store, logger), logger),
		Jobs:          NewJobHandler(services.NewJobService(store, logger), logger),
		Locations:     NewLocationHandler(services.NewLocationService(store, logger), logger),
		Analytics:     NewAnalyticsHandler(services.NewAnalyticsService(store, renderer), logger),
		Upload:        NewUploadHandler(files, 1024, logger),
		Health:        NewHealthHandler(store, nil, "test", logger),
		Authenticator: middleware.NewAuthMiddleware(tokens, store, logger),
		UploadDir:     files.Dir(),
		Logger:        logger,
	}

	return &apiFixture{
		t:        t,
		store:    store,
		email:    email,
		sms:      sms,
		renderer: renderer,
		tokens:   tokens,
		handler:  rt.Handler(),
	}
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// seed creates a user directly in the store and returns its id and a token.
func (f *apiFixture) seed(name string, role domain.Role, dept *int64) (int64, string) {
	f.t.Helper()
	id := f.store.SeedUser(mocks.NewUser(name, role, dept))
	token, err := f.tokens.Issue(domain.Identity{UserID: id, Role: role, DepartmentID: dept})
	require.NoError(f.t, err)
	return id, token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorResponse](t, rec).Error
}

func TestScenario_ComplaintLifecycle(t *testing.T) {
	api := newAPI(t)
	_, waterAdmin := api.seed("Water Admin", domain.RoleDeptAdmin, mocks.Int64(1))
	_, transportAdmin := api.seed("Transport Admin", domain.RoleDeptAdmin, mocks.Int64(2))

	rec := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	citizenID := decodeBody[idResponse](t, rec).ID

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeBody[struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleCitizen, login.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodPost, "/api/complaints", login.Token, map[string]any{
		"department_id": 1, "category": "Water", "description": "leak", "citizen_id": 999,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	complaintID := decodeBody[idResponse](t, rec).ID

	rec = api.do(http.MethodGet, "/api/complaints", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decodeBody[[]domain.ComplaintView](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, complaintID, mine[0].ID)
	assert.Equal(t, citizenID, mine[0].CitizenID, "citizen_id comes from the token")
	assert.Equal(t, domain.StatusPending, mine[0].Status)

	path := fmt.Sprintf("/api/complaints/%d", complaintID)
	rec = api.do(http.MethodPatch, path, waterAdmin, map[string]any{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, path, login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[domain.ComplaintView](t, rec)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, citizenID, got.CitizenID)
	assert.Equal(t, int64(1), got.DepartmentID)

	rec = api.do(http.MethodGet, path, transportAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPatch, path, transportAdmin, map[string]any{"status": "RESOLVED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthStates(t *testing.T) {
	api := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/complaints", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/complaints", "garbage", nil).Code)

	id, token := api.seed("Gone", domain.RoleCitizen, nil)
	require.NoError(t, api.store.DeleteUser(context.Background(), id))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/complaints", token, nil).Code)
}

func TestComplaints_CitizenScoping(t *testing.T) {
	api := newAPI(t)
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)
	_, bob := api.seed("Bob", domain.RoleCitizen, nil)

	rec := api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
		"department_id": 2, "category": "Pothole", "description": "Main street",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[idResponse](t, rec).ID

	rec = api.do(http.MethodGet, "/api/complaints", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, fmt.Sprintf("/api/complaints/%d", id), bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, fmt.Sprintf("/api/complaints/%d", id), alice,
		map[string]any{"status": "RESOLVED"}).Code)

	// The public feed shows everything but no citizen identity.
	rec = api.do(http.MethodGet, "/api/complaints/public", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pothole")
	assert.NotContains(t, rec.Body.String(), "citizen")
}

func TestComplaints_Errors(t *testing.T) {
	api := newAPI(t)
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)

	rec := api.do(http.MethodPost, "/api/complaints", alice, map[string]any{"department_id": 1, "description": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category: is required", errorOf(t, rec))

	rec = api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
		"department_id": 77, "category": "Water", "description": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid reference", errorOf(t, rec))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/complaints/12345", root, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPatch, "/api/complaints/12345", root,
		map[string]any{"status": "RESOLVED"}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/complaints/abc", root, nil).Code)

	rec = api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
		"department_id": 1, "category": "Water", "description": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = api.do(http.MethodPatch, fmt.Sprintf("/api/complaints/%d", decodeBody[idResponse](t, rec).ID), root,
		map[string]any{"status": "CLOSED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.store.ListComplaintsError = fmt.Errorf("database is locked")
	rec = api.do(http.MethodGet, "/api/complaints", root, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorOf(t, rec))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := newAPI(t)
	body := map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/auth/register", "", body).Code)

	body["email"] = "A@X.com"
	rec := api.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", errorOf(t, rec))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := newAPI(t)
	api.seed("Alice", domain.RoleCitizen, nil)

	rec := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorOf(t, rec))

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMe(t *testing.T) {
	api := newAPI(t)
	id, token := api.seed("Dana", domain.RoleDeptAdmin, mocks.Int64(3))

	rec := api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[domain.User](t, rec)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, int64(3), *me.DepartmentID)
}

func TestOtp_EmailFlow(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/send-email-otp", "", map[string]string{"email": "A@X.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	code, ok := api.email.LastCode("a@x.com")
	require.True(t, ok)

	verify := map[string]string{"identifier": "a@x.com", "code": code}
	rec = api.do(http.MethodPost, "/api/auth/verify-email-otp", "", verify)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/auth/verify-email-otp", "", verify)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid otp", errorOf(t, rec))
}

func TestOtp_MobileExpiredAndMalformed(t *testing.T) {
	api := newAPI(t)
	api.store.SeedOtp(domain.OtpEntry{
		Identifier: "+31600000000",
		Code:       "123456",
		Type:       domain.ChannelMobile,
		ExpiresAt:  time.Now().Add(-time.Minute),
	})

	rec := api.do(http.MethodPost, "/api/auth/verify-mobile-otp", "", map[string]string{"identifier": "+31600000000", "code": "123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "otp expired", errorOf(t, rec))

	rec = api.do(http.MethodPost, "/api/auth/verify-mobile-otp", "", map[string]string{"identifier": "+31600000000", "code": "12ab56"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "code: must contain only digits", errorOf(t, rec))

	rec = api.do(http.MethodPost, "/api/auth/send-mobile-otp", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, api.sms.Count())
}

func TestOtp_DeliveryFailure(t *testing.T) {
	api := newAPI(t)
	api.sms.SendError = fmt.Errorf("gateway down")

	rec := api.do(http.MethodPost, "/api/auth/send-mobile-otp", "", map[string]string{"mobile": "+31600000000"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	_, live := api.store.OtpFor("+31600000000", domain.ChannelMobile)
	assert.False(t, live)
}

func TestUsers_SelfDeleteAndCascade(t *testing.T) {
	api := newAPI(t)
	rootID, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	aliceID, alice := api.seed("Alice", domain.RoleCitizen, nil)

	for _, tc := range []struct {
		id    int64
		token string
	}{{rootID, root}, {aliceID, alice}} {
		rec := api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", tc.id), tc.token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cannot delete yourself", errorOf(t, rec))
	}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", rootID), alice, nil).Code)

	for i := 0; i < 2; i++ {
		rec := api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
			"department_id": 1, "category": "Noise", "description": "party",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, api.store.ComplaintCount(aliceID))

	rec := api.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", aliceID), root, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, api.store.ComplaintCount(aliceID))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/complaints", alice, nil).Code)
}

func TestUsers_RoleChangeVisibleOnNextRequest(t *testing.T) {
	api := newAPI(t)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	adminID, admin := api.seed("Dana", domain.RoleDeptAdmin, mocks.Int64(1))
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)

	rec := api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
		"department_id": 1, "category": "Water", "description": "leak",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/api/complaints/%d", decodeBody[idResponse](t, rec).ID)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, path, admin, nil).Code)

	rec = api.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", adminID), root, map[string]any{
		"role": "DEPT_ADMIN", "department_id": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, path, admin, nil).Code, "same token, new department")
}

func TestUsers_AdminOnly(t *testing.T) {
	api := newAPI(t)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	_, admin := api.seed("Dana", domain.RoleDeptAdmin, mocks.Int64(1))

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/users", admin, nil).Code)

	rec := api.do(http.MethodPost, "/api/users", root, map[string]any{
		"name": "Eve", "email": "eve@city.gov", "password": "secret1", "role": "DEPT_ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "department_id: is required for DEPT_ADMIN", errorOf(t, rec))

	rec = api.do(http.MethodPost, "/api/users", root, map[string]any{
		"name": "Eve", "email": "eve@city.gov", "password": "secret1", "role": "DEPT_ADMIN", "department_id": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/users", root, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[[]domain.UserSummary](t, rec)
	require.Len(t, users, 3)
	assert.Equal(t, "Public Safety", *users[0].DeptName)
}

func TestJobs_ApplyOnce(t *testing.T) {
	api := newAPI(t)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)

	rec := api.do(http.MethodPost, "/api/jobs", root, map[string]any{
		"title": "Inspector", "department": "Transport", "description": "Inspect roads", "deadline": "2026-12-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jobs := decodeBody[[]domain.Job](t, rec)
	require.Len(t, jobs, 1)
	assert.Equal(t, "2026-12-31", jobs[0].Deadline.String())
	jobPath := fmt.Sprintf("/api/jobs/%d", jobs[0].ID)

	rec = api.do(http.MethodGet, jobPath+"/application", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())

	apply := map[string]string{"resume_url": "/uploads/cv.pdf"}
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, jobPath+"/apply", alice, apply).Code)

	rec = api.do(http.MethodPost, jobPath+"/apply", alice, apply)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already applied to this job", errorOf(t, rec))

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, jobPath+"/apply", root, apply).Code)

	rec = api.do(http.MethodGet, "/api/jobs/applications/mine", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decodeBody[[]domain.JobApplicationView](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "Inspector", mine[0].JobTitle)

	rec = api.do(http.MethodGet, jobPath+"/applications", root, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]domain.JobApplicationView](t, rec), 1)

	rec = api.do(http.MethodPatch, fmt.Sprintf("/api/jobs/applications/%d", mine[0].ID), root, map[string]string{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodGet, jobPath+"/application", alice, nil)
	assert.Equal(t, domain.ApplicationAccepted, decodeBody[domain.JobApplication](t, rec).Status)
}

func TestPublicResources(t *testing.T) {
	api := newAPI(t)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)

	rec := api.do(http.MethodGet, "/api/departments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Department](t, rec), 4)

	alert := map[string]string{"title": "Storm", "message": "Stay inside", "type": "WEATHER"}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/alerts", alice, alert).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/alerts", "", alert).Code)
	rec = api.do(http.MethodPost, "/api/alerts", root, alert)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/alerts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Alert](t, rec), 1)

	loc := map[string]any{"name": "Vondelpark", "address": "Amsterdam", "category_slug": "Parks", "rating": 4.5}
	rec = api.do(http.MethodPost, "/api/explore-locations", root, loc)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	locID := decodeBody[idResponse](t, rec).ID

	rec = api.do(http.MethodGet, "/api/explore-locations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	locations := decodeBody[[]domain.ExploreLocation](t, rec)
	require.Len(t, locations, 1)
	assert.Equal(t, "parks", locations[0].CategorySlug)

	loc["rating"] = 7
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/explore-locations", root, loc).Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, fmt.Sprintf("/api/explore-locations/%d", locID), root, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, fmt.Sprintf("/api/explore-locations/%d", locID), root, nil).Code)

	rec = api.do(http.MethodPost, "/api/departments", root, map[string]string{"name": "Parks", "description": "Green spaces"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAnalytics(t *testing.T) {
	api := newAPI(t)
	_, root := api.seed("Root", domain.RoleSuperAdmin, nil)
	_, admin := api.seed("Dana", domain.RoleDeptAdmin, mocks.Int64(1))
	_, alice := api.seed("Alice", domain.RoleCitizen, nil)

	rec := api.do(http.MethodPost, "/api/complaints", alice, map[string]any{
		"department_id": 1, "category": "Trash", "description": "Not collected",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/analytics", admin, nil).Code)

	rec = api.do(http.MethodGet, "/api/analytics", root, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[domain.ComplaintStats](t, rec)
	assert.Equal(t, int64(1), stats.Total)
	assert.Len(t, stats.ByDepartment, 4)

	rec = api.do(http.MethodGet, "/api/analytics/export", root, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "complaints.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())
	assert.Len(t, api.renderer.Complaints, 1)
}

func TestHealth(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "UP", decodeBody[HealthResponse](t, rec).Status)

	rec = api.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	api.store.PingError = fmt.Errorf("connection refused")
	rec = api.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "DOWN", health.Checks["database"].Status)
	_, hasRedis := health.Checks["redis"]
	assert.False(t, hasRedis)
}
