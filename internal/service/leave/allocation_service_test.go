package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAllocationRepository struct{}

func (memAllocationRepository) FindOrCreate(ctx context.Context, companyID string) (leave.LeaveTypeAllocation, error) {
	return leave.LeaveTypeAllocation{ID: "alloc-1", CompanyID: companyID}, nil
}

type memAttributeStore struct {
	leave.AttributeRepository
	attrs map[string]leave.LeaveAttribute
}

func (m *memAttributeStore) Create(ctx context.Context, attr leave.LeaveAttribute) (leave.LeaveAttribute, error) {
	attr.ID = "attr-" + attr.Role
	m.attrs[attr.ID] = attr
	return attr, nil
}

func (m *memAttributeStore) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveAttribute, error) {
	attr, ok := m.attrs[id]
	if !ok {
		return leave.LeaveAttribute{}, leave.ErrLeaveAttributeNotFound
	}
	return attr, nil
}

func (m *memAttributeStore) Update(ctx context.Context, attr leave.LeaveAttribute) (leave.LeaveAttribute, error) {
	m.attrs[attr.ID] = attr
	return attr, nil
}

type memRecordStore struct {
	memRecordRepository
	created []leave.UsersLeaveRecord
}

func (m *memRecordStore) Create(ctx context.Context, rec leave.UsersLeaveRecord) (leave.UsersLeaveRecord, error) {
	rec.ID = "rec-" + rec.CompanyUserID + "-" + rec.LeaveAttributeID
	m.created = append(m.created, rec)
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memRecordStore) ListByAttributeForUpdate(ctx context.Context, attributeID string) ([]leave.UsersLeaveRecord, error) {
	var out []leave.UsersLeaveRecord
	for _, rec := range m.records {
		if rec.LeaveAttributeID == attributeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRecordStore) GetByID(ctx context.Context, id string) (leave.UsersLeaveRecord, error) {
	return m.GetByIDForUpdate(ctx, id)
}

type memCarryForwardStore struct {
	leave.CarryForwardRepository
	entries map[string]leave.CarryForwardDays
}

func (m *memCarryForwardStore) Create(ctx context.Context, cf leave.CarryForwardDays) (leave.CarryForwardDays, error) {
	cf.ID = "cf-1"
	m.entries[cf.ID] = cf
	return cf, nil
}

func (m *memCarryForwardStore) GetByID(ctx context.Context, id string) (leave.CarryForwardDays, error) {
	cf, ok := m.entries[id]
	if !ok {
		return leave.CarryForwardDays{}, leave.ErrCarryForwardNotFound
	}
	return cf, nil
}

func (m *memCarryForwardStore) ListByRecord(ctx context.Context, recordID string) ([]leave.CarryForwardDays, error) {
	var out []leave.CarryForwardDays
	for _, cf := range m.entries {
		if cf.UsersLeaveRecordID == recordID {
			out = append(out, cf)
		}
	}
	return out, nil
}

func (m *memCarryForwardStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type memCompanyRepository struct {
	company.CompanyRepository
}

func (memCompanyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	return company.Company{ID: id}, nil
}

type memRoleMembers struct {
	companyuser.CompanyUserRepository
	byRole map[string][]companyuser.CompanyUser
}

func (m *memRoleMembers) ListActiveByRoleName(ctx context.Context, companyID, roleName string) ([]companyuser.CompanyUser, error) {
	return m.byRole[roleName], nil
}

func newAllocationFixture() (*AllocationServiceImpl, *memAttributeStore, *memRecordStore, *memCarryForwardStore) {
	attrs := &memAttributeStore{attrs: map[string]leave.LeaveAttribute{}}
	records := &memRecordStore{memRecordRepository: memRecordRepository{records: map[string]leave.UsersLeaveRecord{}}}
	cfs := &memCarryForwardStore{entries: map[string]leave.CarryForwardDays{}}
	members := &memRoleMembers{byRole: map[string][]companyuser.CompanyUser{
		"Staff":   {{ID: "cu-1", UserID: "u-1"}, {ID: "cu-2", UserID: "u-2"}},
		"Manager": {{ID: "cu-3", UserID: "u-3"}},
	}}

	svc := NewAllocationService(nil, memAllocationRepository{}, attrs, records, cfs, memCompanyRepository{}, members).(*AllocationServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, attrs, records, cfs
}

func TestAllocationService_CreateAllocation(t *testing.T) {
	svc, _, records, _ := newAllocationFixture()

	resp, err := svc.CreateAllocation(txContext(), leave.CreateAllocationRequest{
		CompanyID:     "co-1",
		Year:          2024,
		LeaveName:     "Annual Leave",
		Roles:         []string{"Staff", "Manager"},
		AllocatedDays: 12,
	})

	require.NoError(t, err)
	assert.Equal(t, "alloc-1", resp.AllocationID)
	assert.Len(t, resp.Attributes, 2)
	assert.Equal(t, 3, resp.RecordsCreated)
	for _, rec := range records.created {
		assert.Equal(t, 12.0, rec.RemainingDays)
		assert.Equal(t, 2024, rec.Year)
	}
}

func TestAllocationService_CreateAllocation_PastYear(t *testing.T) {
	svc, _, _, _ := newAllocationFixture()

	_, err := svc.CreateAllocation(txContext(), leave.CreateAllocationRequest{
		CompanyID: "co-1", Year: 2023, LeaveName: "Annual Leave", Roles: []string{"Staff"}, AllocatedDays: 12,
	})

	assert.ErrorIs(t, err, leave.ErrPastYear)
}

func TestAllocationService_UpdateAttribute_Rebalances(t *testing.T) {
	svc, attrs, records, _ := newAllocationFixture()
	attrs.attrs["attr-1"] = leave.LeaveAttribute{ID: "attr-1", AllocatedDays: 10, IsActive: true}
	records.records["rec-1"] = leave.UsersLeaveRecord{ID: "rec-1", LeaveAttributeID: "attr-1", UsedDays: 4, RemainingDays: 8, CarriedOverDays: 2}

	days := 12.0
	resp, err := svc.UpdateAttribute(txContext(), leave.UpdateAttributeRequest{ID: "attr-1", AllocatedDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 12.0, resp.AllocatedDays)
	assert.Equal(t, 10.0, records.records["rec-1"].RemainingDays)

	days = 1
	_, err = svc.UpdateAttribute(txContext(), leave.UpdateAttributeRequest{ID: "attr-1", AllocatedDays: &days})
	assert.ErrorIs(t, err, leave.ErrAllocationBelowUsage)
}

func TestAllocationService_CarryForwardRoundTrip(t *testing.T) {
	svc, _, records, cfs := newAllocationFixture()
	records.records["rec-1"] = leave.UsersLeaveRecord{ID: "rec-1", RemainingDays: 10}

	resp, err := svc.AddCarryForward(txContext(), leave.AddCarryForwardRequest{UsersLeaveRecordID: "rec-1", Days: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 13.0, resp.RemainingDays)
	assert.Equal(t, 3.0, resp.CarriedOverDays)
	assert.Len(t, resp.CarryForwards, 1)

	resp, err = svc.RemoveCarryForward(txContext(), "cf-1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.RemainingDays)
	assert.Equal(t, 0.0, resp.CarriedOverDays)
	assert.Empty(t, cfs.entries)
}

func TestAllocationService_RemoveCarryForward_InUse(t *testing.T) {
	svc, _, records, cfs := newAllocationFixture()
	records.records["rec-1"] = leave.UsersLeaveRecord{ID: "rec-1", UsedDays: 12, RemainingDays: 1, CarriedOverDays: 3}
	cfs.entries["cf-1"] = leave.CarryForwardDays{ID: "cf-1", UsersLeaveRecordID: "rec-1", Days: 3}

	_, err := svc.RemoveCarryForward(txContext(), "cf-1")

	assert.ErrorIs(t, err, leave.ErrCarryForwardInUse)
	assert.Contains(t, cfs.entries, "cf-1")
}
