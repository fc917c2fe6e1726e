package leave

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx marks a context as already transactional so InTransaction runs inline.
type fakeTx struct{ pgx.Tx }

func txContext() context.Context {
	return postgresql.WithTx(context.Background(), fakeTx{})
}

type memLeaveRepository struct {
	leave.LeaveRepository
	leaves      map[string]leave.Leave
	attachments []leave.Attachment
	overlap     bool
}

func (m *memLeaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	l, ok := m.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return l, nil
}

func (m *memLeaveRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	return m.GetByID(ctx, id)
}

func (m *memLeaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	l.ID = "leave-new"
	m.leaves[l.ID] = l
	return l, nil
}

func (m *memLeaveRepository) Update(ctx context.Context, l leave.Leave) error {
	m.leaves[l.ID] = l
	return nil
}

func (m *memLeaveRepository) ExistsOverlap(ctx context.Context, userID, companyID string, start, end time.Time, excludeID *string) (bool, error) {
	return m.overlap, nil
}

func (m *memLeaveRepository) ListComments(ctx context.Context, leaveID string) ([]leave.Comment, error) {
	return nil, nil
}

func (m *memLeaveRepository) CreateAttachment(ctx context.Context, a leave.Attachment) (leave.Attachment, error) {
	m.attachments = append(m.attachments, a)
	return a, nil
}

func (m *memLeaveRepository) ListAttachments(ctx context.Context, leaveID string) ([]leave.Attachment, error) {
	var out []leave.Attachment
	for _, a := range m.attachments {
		if a.LeaveID == leaveID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memRecordRepository struct {
	leave.RecordRepository
	records map[string]leave.UsersLeaveRecord
}

func (m *memRecordRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.UsersLeaveRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return leave.UsersLeaveRecord{}, leave.ErrLeaveRecordNotFound
	}
	return rec, nil
}

func (m *memRecordRepository) FindForMember(ctx context.Context, companyUserID, attributeID string, year int) (leave.UsersLeaveRecord, error) {
	for _, rec := range m.records {
		if rec.CompanyUserID == companyUserID && rec.LeaveAttributeID == attributeID && rec.Year == year {
			return rec, nil
		}
	}
	return leave.UsersLeaveRecord{}, leave.ErrLeaveRecordNotFound
}

func (m *memRecordRepository) UpdateBalance(ctx context.Context, rec leave.UsersLeaveRecord) error {
	m.records[rec.ID] = rec
	return nil
}

type memAttributeRepository struct {
	leave.AttributeRepository
	attr leave.LeaveAttribute
}

func (m *memAttributeRepository) GetByID(ctx context.Context, id string) (leave.LeaveAttribute, error) {
	if id != m.attr.ID {
		return leave.LeaveAttribute{}, leave.ErrLeaveAttributeNotFound
	}
	return m.attr, nil
}

type memCompanyUserRepository struct {
	companyuser.CompanyUserRepository
	member companyuser.CompanyUser
}

func (m *memCompanyUserRepository) GetByUserAndCompany(ctx context.Context, userID, companyID string) (companyuser.CompanyUser, error) {
	if userID != m.member.UserID || companyID != m.member.CompanyID {
		return companyuser.CompanyUser{}, companyuser.ErrCompanyUserNotFound
	}
	return m.member, nil
}

type memFileService struct {
	uploaded []string
	deleted  []string
}

func (f *memFileService) UploadLeaveAttachment(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error) {
	path := "leave/" + userID + "/" + filename
	f.uploaded = append(f.uploaded, path)
	return path, nil
}

func (f *memFileService) DeleteFile(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *memFileService) GetFileURL(ctx context.Context, path string) (string, error) {
	return "/uploads/" + path, nil
}

type fixture struct {
	svc     *LeaveServiceImpl
	leaves  *memLeaveRepository
	records *memRecordRepository
	files   *memFileService
}

func role(name string) *string { return &name }

// newFixture seeds one member with a 10 day Annual Leave record and one
// pending leave from Monday 2024-01-15 to Wednesday 2024-01-17.
func newFixture(remaining float64) fixture {
	attr := leave.LeaveAttribute{
		ID:            "attr-1",
		CompanyID:     "co-1",
		Year:          2024,
		LeaveName:     "Annual Leave",
		Role:          "Staff",
		AllocatedDays: 10,
		IsActive:      true,
	}
	leaves := &memLeaveRepository{leaves: map[string]leave.Leave{
		"leave-1": {
			ID:                 "leave-1",
			CompanyID:          "co-1",
			UserID:             "u-1",
			CompanyUserID:      "cu-1",
			LeaveTypeID:        attr.ID,
			UsersLeaveRecordID: "rec-1",
			StartDate:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			EndDate:            time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
			LeaveDays:          3,
			Status:             leave.StatusPending,
		},
	}}
	records := &memRecordRepository{records: map[string]leave.UsersLeaveRecord{
		"rec-1": {
			ID:               "rec-1",
			CompanyUserID:    "cu-1",
			UserID:           "u-1",
			LeaveAttributeID: attr.ID,
			Year:             2024,
			UsedDays:         10 - remaining,
			RemainingDays:    remaining,
		},
	}}
	files := &memFileService{}
	members := &memCompanyUserRepository{member: companyuser.CompanyUser{
		ID:        "cu-1",
		UserID:    "u-1",
		CompanyID: "co-1",
		Status:    companyuser.StatusActive,
		IsActive:  true,
		RoleName:  role("Staff"),
	}}

	svc := NewLeaveService(nil, leaves, &memAttributeRepository{attr: attr}, records, nil, members, files, 5<<20).(*LeaveServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, leaves: leaves, records: records, files: files}
}

func TestLeaveService_ApproveThenReject_RestoresBalance(t *testing.T) {
	f := newFixture(10)
	ctx := txContext()

	resp, err := f.svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "leave-1", ApproverID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, 7.0, f.records.records["rec-1"].RemainingDays)
	assert.Equal(t, 3.0, f.records.records["rec-1"].UsedDays)

	reason := "project deadline"
	resp, err = f.svc.Reject(ctx, leave.RejectLeaveRequest{ID: "leave-1", ApproverID: "admin-1", Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
	assert.Equal(t, 10.0, f.records.records["rec-1"].RemainingDays)
	assert.Equal(t, 0.0, f.records.records["rec-1"].UsedDays)
}

func TestLeaveService_Approve_Idempotent(t *testing.T) {
	f := newFixture(10)
	ctx := txContext()

	_, err := f.svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "leave-1", ApproverID: "admin-1"})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "leave-1", ApproverID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, 7.0, f.records.records["rec-1"].RemainingDays)
	assert.Equal(t, 3.0, f.records.records["rec-1"].UsedDays)
}

func TestLeaveService_Approve_InsufficientBalance(t *testing.T) {
	f := newFixture(3)
	l := f.leaves.leaves["leave-1"]
	l.EndDate = time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	l.LeaveDays = 5
	f.leaves.leaves["leave-1"] = l

	_, err := f.svc.Approve(txContext(), leave.ApproveLeaveRequest{ID: "leave-1", ApproverID: "admin-1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, leave.ErrInsufficientBalance))
	assert.Equal(t, leave.StatusPending, f.leaves.leaves["leave-1"].Status)
	assert.Equal(t, 3.0, f.records.records["rec-1"].RemainingDays)
}

func TestLeaveService_Cancel(t *testing.T) {
	f := newFixture(10)
	ctx := txContext()

	resp, err := f.svc.Cancel(ctx, "leave-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, resp.Status)

	_, err = f.svc.Cancel(ctx, "leave-1")
	require.NoError(t, err)

	f.leaves.leaves["leave-1"] = func() leave.Leave {
		l := f.leaves.leaves["leave-1"]
		l.Status = leave.StatusApproved
		return l
	}()
	_, err = f.svc.Cancel(ctx, "leave-1")
	assert.ErrorIs(t, err, leave.ErrCannotCancelApproved)
}

func TestLeaveService_ChangeStatus_InvalidTransition(t *testing.T) {
	f := newFixture(10)
	l := f.leaves.leaves["leave-1"]
	l.Status = leave.StatusCancelled
	f.leaves.leaves["leave-1"] = l

	_, err := f.svc.ChangeStatus(txContext(), leave.ChangeStatusRequest{ID: "leave-1", Status: leave.StatusRejected})

	assert.ErrorIs(t, err, leave.ErrInvalidTransition)
}

func TestLeaveService_ChangeStatus_LeavingApprovedCredits(t *testing.T) {
	f := newFixture(10)
	ctx := txContext()
	approver := "admin-1"

	_, err := f.svc.ChangeStatus(ctx, leave.ChangeStatusRequest{ID: "leave-1", Status: leave.StatusApproved, ApproverID: &approver})
	require.NoError(t, err)
	assert.Equal(t, 7.0, f.records.records["rec-1"].RemainingDays)

	_, err = f.svc.ChangeStatus(ctx, leave.ChangeStatusRequest{ID: "leave-1", Status: leave.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, 10.0, f.records.records["rec-1"].RemainingDays)
	assert.True(t, f.records.records["rec-1"].Balanced(10))
}

func TestLeaveService_UpdateLeave_DatesLockedWhenApproved(t *testing.T) {
	f := newFixture(10)
	l := f.leaves.leaves["leave-1"]
	l.Status = leave.StatusApproved
	f.leaves.leaves["leave-1"] = l
	end := "2024-01-18"

	_, err := f.svc.UpdateLeave(txContext(), leave.UpdateLeaveRequest{ID: "leave-1", EndDate: &end})

	assert.ErrorIs(t, err, leave.ErrDatesLocked)
}

func TestLeaveService_CreateLeave(t *testing.T) {
	approved := leave.StatusApproved

	tests := []struct {
		name          string
		req           leave.CreateLeaveRequest
		overlap       bool
		wantErr       error
		wantRemaining float64
	}{
		{
			name: "pending does not touch balance",
			req: leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
				StartDate: "2024-02-05", EndDate: "2024-02-06",
			},
			wantRemaining: 10,
		},
		{
			name: "approved at creation debits",
			req: leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
				StartDate: "2024-02-05", EndDate: "2024-02-06", Status: &approved,
			},
			wantRemaining: 8,
		},
		{
			name: "weekend only",
			req: leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
				StartDate: "2024-02-03", EndDate: "2024-02-04",
			},
			wantErr:       leave.ErrInvalidLeaveDays,
			wantRemaining: 10,
		},
		{
			name: "not a member",
			req: leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-2", LeaveTypeID: "attr-1",
				StartDate: "2024-02-05", EndDate: "2024-02-06",
			},
			wantErr:       leave.ErrMembershipNotFound,
			wantRemaining: 10,
		},
		{
			name: "overlapping",
			req: leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
				StartDate: "2024-01-16", EndDate: "2024-01-18",
			},
			overlap:       true,
			wantErr:       leave.ErrOverlappingLeave,
			wantRemaining: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(10)
			f.leaves.overlap = tt.overlap

			_, err := f.svc.CreateLeave(txContext(), tt.req, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRemaining, f.records.records["rec-1"].RemainingDays)
		})
	}
}

func TestLeaveService_CreateLeave_UsesCurrentYearRecord(t *testing.T) {
	f := newFixture(10)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) }
	req := leave.CreateLeaveRequest{
		CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
		StartDate: "2025-03-03", EndDate: "2025-03-04",
	}

	_, err := f.svc.CreateLeave(txContext(), req, nil)
	assert.ErrorIs(t, err, leave.ErrLeaveRecordNotFound)

	f.records.records["rec-2025"] = leave.UsersLeaveRecord{
		ID:               "rec-2025",
		CompanyUserID:    "cu-1",
		UserID:           "u-1",
		LeaveAttributeID: "attr-1",
		Year:             2025,
		RemainingDays:    4,
	}
	created, err := f.svc.CreateLeave(txContext(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "rec-2025", f.leaves.leaves[created.ID].UsersLeaveRecordID)
	assert.Equal(t, 10.0, f.records.records["rec-1"].RemainingDays)
}

func TestLeaveService_CreateLeave_RefusesFormerMembers(t *testing.T) {
	tests := []struct {
		name     string
		status   companyuser.Status
		isActive bool
		wantErr  error
	}{
		{name: "deactivated", status: companyuser.StatusActive, isActive: false, wantErr: leave.ErrMembershipNotFound},
		{name: "suspended", status: companyuser.StatusSuspended, isActive: true, wantErr: leave.ErrMembershipNotFound},
		{name: "inactive status", status: companyuser.StatusInactive, isActive: true, wantErr: leave.ErrMembershipNotFound},
		{name: "pending invitation", status: companyuser.StatusPending, isActive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(10)
			members := f.svc.companyUserRepo.(*memCompanyUserRepository)
			members.member.Status = tt.status
			members.member.IsActive = tt.isActive

			_, err := f.svc.CreateLeave(txContext(), leave.CreateLeaveRequest{
				CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
				StartDate: "2024-02-05", EndDate: "2024-02-06",
			}, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.files.uploaded)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLeaveService_CreateLeave_RoleMismatch(t *testing.T) {
	f := newFixture(10)
	f.svc.companyUserRepo.(*memCompanyUserRepository).member.RoleName = role("Manager")

	_, err := f.svc.CreateLeave(txContext(), leave.CreateLeaveRequest{
		CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
		StartDate: "2024-02-05", EndDate: "2024-02-06",
	}, nil)

	assert.ErrorIs(t, err, leave.ErrRoleMismatch)
}

func TestLeaveService_CreateLeave_RollsBackAttachmentOnFailure(t *testing.T) {
	f := newFixture(10)
	f.leaves.overlap = true

	_, err := f.svc.CreateLeave(txContext(), leave.CreateLeaveRequest{
		CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
		StartDate: "2024-02-05", EndDate: "2024-02-06",
	}, &leave.AttachmentUpload{
		File:     strings.NewReader("%PDF-1.4"),
		FileName: "note.pdf",
		Size:     8,
		MimeType: "application/pdf",
	})

	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
	assert.Equal(t, f.files.uploaded, f.files.deleted)
	assert.Len(t, f.files.uploaded, 1)
}

func TestLeaveService_CreateLeave_WithAttachment(t *testing.T) {
	f := newFixture(10)

	resp, err := f.svc.CreateLeave(txContext(), leave.CreateLeaveRequest{
		CompanyID: "co-1", UserID: "u-1", LeaveTypeID: "attr-1",
		StartDate: "2024-02-05", EndDate: "2024-02-06",
	}, &leave.AttachmentUpload{
		File:     strings.NewReader("%PDF-1.4"),
		FileName: "note.pdf",
		Size:     8,
		MimeType: "application/pdf",
	})

	require.NoError(t, err)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "/uploads/leave/u-1/note.pdf", resp.Attachments[0].URL)
	assert.Empty(t, f.files.deleted)
}

func TestSummarize(t *testing.T) {
	annual := &leave.LeaveAttribute{LeaveName: "Annual Leave", AllocatedDays: 12}
	sick := &leave.LeaveAttribute{LeaveName: "Sick Leave", AllocatedDays: 5}

	got := summarize([]leave.UsersLeaveRecord{
		{Attribute: annual, UsedDays: 2, RemainingDays: 12, CarriedOverDays: 2},
		{Attribute: sick, UsedDays: 1, RemainingDays: 4},
	})

	require.Len(t, got, 2)
	assert.Equal(t, leave.BalanceSummary{LeaveName: "Annual Leave", Allocated: 12, Used: 2, Remaining: 12, CarriedOver: 2}, got[0])
	assert.Equal(t, "Sick Leave", got[1].LeaveName)
}
