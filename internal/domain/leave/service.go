package leave

import "context"

type LeaveService interface {
	CreateLeave(ctx context.Context, req CreateLeaveRequest, attachment *AttachmentUpload) (LeaveResponse, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	GetLeave(ctx context.Context, id string) (LeaveResponse, error)
	UpdateLeave(ctx context.Context, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id string) (LeaveResponse, error)
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (LeaveResponse, error)
	RemoveLeave(ctx context.Context, id string) error
	AddComment(ctx context.Context, req AddCommentRequest) (CommentResponse, error)
	GetUserLeaves(ctx context.Context, userID string, companyID *string, year *int) ([]LeaveResponse, error)
	CompanyStats(ctx context.Context, companyID string) (LeaveStatsResponse, error)
	UserBalance(ctx context.Context, userID, companyID string, year *int) (UserBalanceResponse, error)
}

type AllocationService interface {
	CreateAllocation(ctx context.Context, req CreateAllocationRequest) (CreateAllocationResponse, error)
	ListAttributes(ctx context.Context, filter AttributeFilter) (ListAttributeResponse, error)
	GetAttribute(ctx context.Context, id string) (AttributeResponse, error)
	UpdateAttribute(ctx context.Context, req UpdateAttributeRequest) (AttributeResponse, error)
	DeleteAttribute(ctx context.Context, id string) error
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	AddCarryForward(ctx context.Context, req AddCarryForwardRequest) (RecordResponse, error)
	ListCarryForward(ctx context.Context, recordID string) ([]CarryForwardResponse, error)
	RemoveCarryForward(ctx context.Context, id string) (RecordResponse, error)
}
