package role

import (
	"context"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/role"
)

type RoleServiceImpl struct {
	role.RoleRepository
	companyRepo company.CompanyRepository
}

func NewRoleService(roleRepository role.RoleRepository, companyRepo company.CompanyRepository) role.RoleService {
	return &RoleServiceImpl{RoleRepository: roleRepository, companyRepo: companyRepo}
}

func mapRoleToResponse(r role.CompanyRole) role.RoleResponse {
	return role.RoleResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateRole implements role.RoleService.
func (s *RoleServiceImpl) CreateRole(ctx context.Context, req role.CreateRoleRequest) (role.RoleResponse, error) {
	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return role.RoleResponse{}, err
	}

	exists, err := s.RoleRepository.ExistsByName(ctx, req.CompanyID, req.Name, nil)
	if err != nil {
		return role.RoleResponse{}, err
	}
	if exists {
		return role.RoleResponse{}, role.ErrRoleNameExists
	}

	created, err := s.RoleRepository.Create(ctx, role.CompanyRole{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return role.RoleResponse{}, err
	}
	return mapRoleToResponse(created), nil
}

// ListRoles implements role.RoleService.
func (s *RoleServiceImpl) ListRoles(ctx context.Context, companyID string) ([]role.RoleResponse, error) {
	roles, err := s.RoleRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]role.RoleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, mapRoleToResponse(r))
	}
	return resp, nil
}

// GetRole implements role.RoleService.
func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (role.RoleResponse, error) {
	r, err := s.RoleRepository.GetByID(ctx, id)
	if err != nil {
		return role.RoleResponse{}, err
	}
	return mapRoleToResponse(r), nil
}

// UpdateRole implements role.RoleService.
func (s *RoleServiceImpl) UpdateRole(ctx context.Context, req role.UpdateRoleRequest) (role.RoleResponse, error) {
	current, err := s.RoleRepository.GetByID(ctx, req.ID)
	if err != nil {
		return role.RoleResponse{}, err
	}

	if req.Name != nil && *req.Name != current.Name {
		exists, err := s.RoleRepository.ExistsByName(ctx, current.CompanyID, *req.Name, &req.ID)
		if err != nil {
			return role.RoleResponse{}, err
		}
		if exists {
			return role.RoleResponse{}, role.ErrRoleNameExists
		}
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	updated, err := s.RoleRepository.Update(ctx, current)
	if err != nil {
		return role.RoleResponse{}, err
	}
	return mapRoleToResponse(updated), nil
}

// DeleteRole implements role.RoleService.
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	return s.RoleRepository.Delete(ctx, id)
}
