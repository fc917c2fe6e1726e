package companyuser

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
)

type CompanyUserServiceImpl struct {
	companyuser.CompanyUserRepository
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	roleRepo    role.RoleRepository
}

func NewCompanyUserService(
	companyUserRepository companyuser.CompanyUserRepository,
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	roleRepo role.RoleRepository,
) companyuser.CompanyUserService {
	return &CompanyUserServiceImpl{
		CompanyUserRepository: companyUserRepository,
		userRepo:              userRepo,
		companyRepo:           companyRepo,
		roleRepo:              roleRepo,
	}
}

func mapCompanyUserToResponse(cu companyuser.CompanyUser) companyuser.CompanyUserResponse {
	return companyuser.CompanyUserResponse{
		ID:         cu.ID,
		UserID:     cu.UserID,
		CompanyID:  cu.CompanyID,
		RoleID:     cu.RoleID,
		RoleName:   cu.RoleName,
		Email:      cu.Email,
		FirstName:  cu.FirstName,
		MiddleName: cu.MiddleName,
		LastName:   cu.LastName,
		FullName:   cu.FullName(),
		Status:     cu.Status,
		IsActive:   cu.IsActive,
		CreatedAt:  cu.CreatedAt,
		UpdatedAt:  cu.UpdatedAt,
	}
}

// checkRole verifies that roleID exists and is owned by companyID.
func (s *CompanyUserServiceImpl) checkRole(ctx context.Context, roleID, companyID string) error {
	r, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r.CompanyID != companyID {
		return companyuser.ErrRoleNotInCompany
	}
	return nil
}

// CreateCompanyUser implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) CreateCompanyUser(ctx context.Context, req companyuser.CreateCompanyUserRequest) (companyuser.CompanyUserResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	if req.RoleID != nil {
		if err := s.checkRole(ctx, *req.RoleID, req.CompanyID); err != nil {
			return companyuser.CompanyUserResponse{}, err
		}
	}

	status := companyuser.StatusPending
	if req.Status != nil {
		status = *req.Status
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.CompanyUserRepository.Create(ctx, companyuser.CompanyUser{
		UserID:     req.UserID,
		CompanyID:  req.CompanyID,
		RoleID:     req.RoleID,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Status:     status,
		IsActive:   isActive,
	})
	if err != nil {
		return companyuser.CompanyUserResponse{}, err
	}

	slog.Info("company user created", "company_user_id", created.ID, "company_id", created.CompanyID)
	return mapCompanyUserToResponse(created), nil
}

// ListCompanyUsers implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) ListCompanyUsers(ctx context.Context, filter companyuser.CompanyUserFilter) (companyuser.ListCompanyUserResponse, error) {
	members, total, err := s.CompanyUserRepository.List(ctx, filter)
	if err != nil {
		return companyuser.ListCompanyUserResponse{}, err
	}

	resp := companyuser.ListCompanyUserResponse{
		Page:         pagination.NewPage(filter.Page, filter.Limit, total),
		CompanyUsers: make([]companyuser.CompanyUserResponse, 0, len(members)),
	}
	for _, cu := range members {
		resp.CompanyUsers = append(resp.CompanyUsers, mapCompanyUserToResponse(cu))
	}
	return resp, nil
}

// GetCompanyUser implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) GetCompanyUser(ctx context.Context, id string) (companyuser.CompanyUserResponse, error) {
	cu, err := s.CompanyUserRepository.GetByID(ctx, id)
	if err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	return mapCompanyUserToResponse(cu), nil
}

// UpdateCompanyUser implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) UpdateCompanyUser(ctx context.Context, req companyuser.UpdateCompanyUserRequest) (companyuser.CompanyUserResponse, error) {
	current, err := s.CompanyUserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return companyuser.CompanyUserResponse{}, err
	}

	if req.RoleID != nil {
		if err := s.checkRole(ctx, *req.RoleID, current.CompanyID); err != nil {
			return companyuser.CompanyUserResponse{}, err
		}
		current.RoleID = req.RoleID
	}
	if req.FirstName != nil {
		current.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		current.MiddleName = req.MiddleName
	}
	if req.LastName != nil {
		current.LastName = req.LastName
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.CompanyUserRepository.Update(ctx, current)
	if err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	return mapCompanyUserToResponse(updated), nil
}

// DeleteCompanyUser implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) DeleteCompanyUser(ctx context.Context, id string) error {
	return s.CompanyUserRepository.Delete(ctx, id)
}

// UpdateStatus implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) UpdateStatus(ctx context.Context, req companyuser.UpdateStatusRequest) (companyuser.CompanyUserResponse, error) {
	if !req.Status.Valid() {
		return companyuser.CompanyUserResponse{}, companyuser.ErrInvalidStatus
	}
	if err := s.CompanyUserRepository.UpdateStatus(ctx, req.ID, req.Status); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	return s.GetCompanyUser(ctx, req.ID)
}

// AssignRole implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) AssignRole(ctx context.Context, req companyuser.AssignRoleRequest) (companyuser.CompanyUserResponse, error) {
	current, err := s.CompanyUserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	if err := s.checkRole(ctx, req.RoleID, current.CompanyID); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	if err := s.CompanyUserRepository.UpdateRole(ctx, req.ID, &req.RoleID); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	return s.GetCompanyUser(ctx, req.ID)
}

// RemoveRole implements companyuser.CompanyUserService.
func (s *CompanyUserServiceImpl) RemoveRole(ctx context.Context, id string) (companyuser.CompanyUserResponse, error) {
	if err := s.CompanyUserRepository.UpdateRole(ctx, id, nil); err != nil {
		return companyuser.CompanyUserResponse{}, err
	}
	return s.GetCompanyUser(ctx, id)
}
