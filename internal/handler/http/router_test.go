package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type stubCompanyService struct {
	company.CompanyService
	created []company.CreateCompanyRequest
}

func (s *stubCompanyService) CreateCompany(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	s.created = append(s.created, req)
	return company.CompanyResponse{ID: uuid.NewString(), Name: req.Name}, nil
}

func (s *stubCompanyService) GetCompany(ctx context.Context, id string) (company.CompanyResponse, error) {
	return company.CompanyResponse{}, company.ErrCompanyNotFound
}

type stubAttendanceService struct {
	attendance.AttendanceService
	punchIn attendance.PunchInRequest
	err     error
}

func (s *stubAttendanceService) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchResult, error) {
	s.punchIn = req
	return attendance.PunchResult{}, s.err
}

type stubLeaveService struct {
	leave.LeaveService
	approved   []leave.ApproveLeaveRequest
	approveErr error
	created    leave.CreateLeaveRequest
	attachment []byte
	fileName   string
}

func (s *stubLeaveService) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	s.approved = append(s.approved, req)
	if s.approveErr != nil {
		return leave.LeaveResponse{}, s.approveErr
	}
	return leave.LeaveResponse{ID: req.ID, Status: leave.StatusApproved}, nil
}

func (s *stubLeaveService) CreateLeave(ctx context.Context, req leave.CreateLeaveRequest, attachment *leave.AttachmentUpload) (leave.LeaveResponse, error) {
	s.created = req
	if attachment != nil {
		s.fileName = attachment.FileName
		s.attachment, _ = io.ReadAll(attachment.File)
	}
	return leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending}, nil
}

type routerFixture struct {
	router     http.Handler
	jwt        jwt.Service
	companies  *stubCompanyService
	attendance *stubAttendanceService
	leaves     *stubLeaveService
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		jwt:        jwt.NewJWTService(testSecret, "1h"),
		companies:  &stubCompanyService{},
		attendance: &stubAttendanceService{},
		leaves:     &stubLeaveService{},
	}
	f.router = NewRouter(f.jwt, Handlers{
		User:            NewUserHandler(nil),
		Company:         NewCompanyHandler(f.companies, nil, nil),
		CompanyUser:     NewCompanyUserHandler(nil),
		Role:            NewRoleHandler(nil),
		Shift:           NewShiftHandler(nil),
		OffDay:          NewOffDayHandler(nil),
		Attendance:      NewAttendanceHandler(f.attendance),
		Leave:           NewLeaveHandler(f.leaves),
		LeaveAllocation: NewLeaveAllocationHandler(nil),
	}, RouterOptions{AllowedOrigins: []string{"*"}})
	return f
}

func (f *routerFixture) token(t *testing.T, userID string, admin bool) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(jwt.AccessClaims{UserID: userID, Email: "caller@example.com", IsAdmin: admin})
	require.NoError(t, err)
	return token
}

// memberToken is a non-admin token scoped to companyID.
func (f *routerFixture) memberToken(t *testing.T, userID, companyID string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(jwt.AccessClaims{UserID: userID, Email: "caller@example.com", CompanyID: &companyID})
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var body response.Response
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	var buf bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture()

	rec, body := f.do(t, jsonRequest(http.MethodGet, "/api/v1/leaves/"+uuid.NewString(), nil), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestRouter_RejectsForeignSignature(t *testing.T) {
	f := newRouterFixture()
	other := jwt.NewJWTService("another-secret", "1h")
	token, _, err := other.GenerateAccessToken(jwt.AccessClaims{UserID: uuid.NewString(), IsAdmin: true})
	require.NoError(t, err)

	rec, _ := f.do(t, jsonRequest(http.MethodPost, "/api/v1/companies", map[string]string{"name": "Acme"}), token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.companies.created)
}

func TestRouter_Heartbeat(t *testing.T) {
	f := newRouterFixture()

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompanyHandler_Create_AdminOnly(t *testing.T) {
	f := newRouterFixture()
	payload := map[string]string{"name": "Acme"}

	rec, body := f.do(t, jsonRequest(http.MethodPost, "/api/v1/companies", payload), f.token(t, uuid.NewString(), false))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Empty(t, f.companies.created)

	rec, body = f.do(t, jsonRequest(http.MethodPost, "/api/v1/companies", payload), f.token(t, uuid.NewString(), true))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)
	require.Len(t, f.companies.created, 1)
	assert.Equal(t, "Acme", f.companies.created[0].Name)
}

func TestCompanyHandler_GetByID(t *testing.T) {
	f := newRouterFixture()
	token := f.token(t, uuid.NewString(), false)

	tests := []struct {
		name     string
		id       string
		wantCode int
		wantErr  string
	}{
		{name: "malformed id", id: "not-a-uuid", wantCode: http.StatusUnprocessableEntity, wantErr: "VALIDATION_ERROR"},
		{name: "unknown company", id: uuid.NewString(), wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := f.do(t, jsonRequest(http.MethodGet, "/api/v1/companies/"+tt.id, nil), token)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantErr, body.Error.Code)
		})
	}
}

func TestAttendanceHandler_PunchIn_NotEligible(t *testing.T) {
	f := newRouterFixture()
	f.attendance.err = attendance.Deny(attendance.ReasonCompanyOffDay, "today is a company off day")
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	userID, companyID := uuid.NewString(), uuid.NewString()

	rec, body := f.do(t, jsonRequest(http.MethodPost, "/api/v1/attendance/punch-in", attendance.PunchInRequest{
		CompanyID:     companyID,
		UserID:        userID,
		CompanyUserID: uuid.NewString(),
		Time:          &at,
	}), f.memberToken(t, userID, companyID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_ELIGIBLE", body.Error.Code)
	assert.Equal(t, string(attendance.ReasonCompanyOffDay), body.Error.Details["reason"])
	assert.True(t, at.Equal(*f.attendance.punchIn.Time))
}

func TestAttendanceHandler_PunchIn_CallerMustMatch(t *testing.T) {
	userID, companyID := uuid.NewString(), uuid.NewString()

	tests := []struct {
		name     string
		userID   string
		token    func(f *routerFixture, t *testing.T) string
		wantCode int
	}{
		{
			name:     "own punch",
			userID:   userID,
			token:    func(f *routerFixture, t *testing.T) string { return f.memberToken(t, userID, companyID) },
			wantCode: http.StatusCreated,
		},
		{
			name:     "someone else",
			userID:   uuid.NewString(),
			token:    func(f *routerFixture, t *testing.T) string { return f.memberToken(t, userID, companyID) },
			wantCode: http.StatusForbidden,
		},
		{
			name:     "token for another company",
			userID:   userID,
			token:    func(f *routerFixture, t *testing.T) string { return f.memberToken(t, userID, uuid.NewString()) },
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin on behalf of someone else",
			userID:   uuid.NewString(),
			token:    func(f *routerFixture, t *testing.T) string { return f.token(t, uuid.NewString(), true) },
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()

			rec, body := f.do(t, jsonRequest(http.MethodPost, "/api/v1/attendance/punch-in", attendance.PunchInRequest{
				CompanyID:     companyID,
				UserID:        tt.userID,
				CompanyUserID: uuid.NewString(),
			}), tt.token(f, t))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", body.Error.Code)
				assert.Empty(t, f.attendance.punchIn.UserID)
			} else {
				assert.Equal(t, tt.userID, f.attendance.punchIn.UserID)
			}
		})
	}
}

func TestAttendanceHandler_PunchIn_InvalidBody(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/punch-in", bytes.NewBufferString("{"))

	rec, body := f.do(t, req, f.token(t, uuid.NewString(), false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestLeaveHandler_Approve_DefaultsApproverToCaller(t *testing.T) {
	f := newRouterFixture()
	callerID := uuid.NewString()
	leaveID := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves/"+leaveID+"/approve", nil)
	rec, body := f.do(t, req, f.token(t, callerID, false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	require.Len(t, f.leaves.approved, 1)
	assert.Equal(t, leaveID, f.leaves.approved[0].ID)
	assert.Equal(t, callerID, f.leaves.approved[0].ApproverID)
}

func TestLeaveHandler_Approve_InsufficientBalance(t *testing.T) {
	f := newRouterFixture()
	f.leaves.approveErr = leave.ErrInsufficientBalance

	callerID := uuid.NewString()

	req := jsonRequest(http.MethodPost, "/api/v1/leaves/"+uuid.NewString()+"/approve", map[string]string{"approver_id": callerID})
	rec, body := f.do(t, req, f.token(t, callerID, false))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INSUFFICIENT_BALANCE", body.Error.Code)
}

func TestLeaveHandler_Approve_OnBehalfOfOther(t *testing.T) {
	f := newRouterFixture()

	req := jsonRequest(http.MethodPost, "/api/v1/leaves/"+uuid.NewString()+"/approve", map[string]string{"approver_id": uuid.NewString()})
	rec, body := f.do(t, req, f.token(t, uuid.NewString(), false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Empty(t, f.leaves.approved)

	req = jsonRequest(http.MethodPost, "/api/v1/leaves/"+uuid.NewString()+"/approve", map[string]string{"approver_id": uuid.NewString()})
	rec, _ = f.do(t, req, f.token(t, uuid.NewString(), true))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.leaves.approved, 1)
}

func TestLeaveHandler_Create_ForOtherUser(t *testing.T) {
	f := newRouterFixture()
	companyID := uuid.NewString()

	rec, body := f.do(t, jsonRequest(http.MethodPost, "/api/v1/leaves", leave.CreateLeaveRequest{
		CompanyID:   companyID,
		UserID:      uuid.NewString(),
		LeaveTypeID: uuid.NewString(),
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-12",
	}), f.memberToken(t, uuid.NewString(), companyID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Empty(t, f.leaves.created.UserID)
}

func TestLeaveHandler_Create_Multipart(t *testing.T) {
	f := newRouterFixture()
	callerID := uuid.NewString()
	payload := leave.CreateLeaveRequest{
		CompanyID:   uuid.NewString(),
		UserID:      callerID,
		LeaveTypeID: uuid.NewString(),
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-12",
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", string(data)))
	part, err := mw.CreateFormFile("attachment", "note.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec, body := f.do(t, req, f.token(t, callerID, false))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, payload.LeaveTypeID, f.leaves.created.LeaveTypeID)
	assert.Equal(t, "note.pdf", f.leaves.fileName)
	assert.Equal(t, []byte("%PDF-1.4"), f.leaves.attachment)
}

func TestLeaveHandler_Create_MultipartRequiresData(t *testing.T) {
	f := newRouterFixture()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec, body := f.do(t, req, f.token(t, uuid.NewString(), false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Field 'data' is required", body.Error.Message)
}
