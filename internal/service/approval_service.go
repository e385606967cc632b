package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mukhtaser/mukhtaser-panel/config"
	"github.com/mukhtaser/mukhtaser-panel/internal/dto"
	"github.com/mukhtaser/mukhtaser-panel/internal/model"
	"github.com/mukhtaser/mukhtaser-panel/internal/repository"
	pkgerrors "github.com/mukhtaser/mukhtaser-panel/pkg/errors"
)

// ── 审批模块业务错误 ──

var (
	// ErrGateForbidden 调用者角色无权操作该审批岗位
	ErrGateForbidden = errors.New("无权操作该审批岗位")
)

// ApprovalService 审批流引擎业务接口
//
// 设计说明：
//   - 汇总状态永远由两个岗位判定在事务内重算，客户端不可直接赋值
//   - 终态不锁定：任一岗位改判后状态重新推导（与线上历史行为一致）
//   - 同一判定重复提交是幂等的，只有 updatedAt 变化
type ApprovalService interface {
	// Create 创建审批单（平台侧触发）；主体必须已存在，
	// 同一主体存在未终结审批单时返回 ConflictError
	Create(ctx context.Context, req *dto.CreateApproveRequestRequest, callerID string) (*dto.ApproveRequestResponse, error)
	// List 分页查询审批队列，附带主体摘要；
	// 返回的 Pagination 是收敛后实际生效的分页参数
	List(ctx context.Context, q *dto.ApproveRequestListQuery) ([]dto.ApproveRequestResponse, *dto.Pagination, error)
	// GetByID 审批单详情，主体上下文实时从主体存储读取
	GetByID(ctx context.Context, id string) (*dto.ApproveRequestDetailResponse, error)
	// UpdateDecisions 录入审批判定（部分更新，至少携带一个判定字段），
	// 两个岗位的字段在同一事务内落库并重算状态
	UpdateDecisions(ctx context.Context, id string, req *dto.UpdateDecisionsRequest, caller *Caller) (*dto.ApproveRequestResponse, error)
	// RecordLeaderDecision 录入负责人岗位判定
	RecordLeaderDecision(ctx context.Context, id string, decision model.Decision, note string, caller *Caller) (*dto.ApproveRequestResponse, error)
	// RecordDataEntryDecision 录入资料录入岗位判定
	RecordDataEntryDecision(ctx context.Context, id string, decision model.Decision, note string, caller *Caller) (*dto.ApproveRequestResponse, error)
}

type approvalService struct {
	cfg    *config.ApproveConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApprovalService 创建 ApprovalService 实例
func NewApprovalService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ApprovalService {
	return &approvalService{cfg: &cfg.Approve, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *approvalService) Create(ctx context.Context, req *dto.CreateApproveRequestRequest, callerID string) (*dto.ApproveRequestResponse, error) {
	subjectType := model.SubjectType(req.SubjectType)
	if !subjectType.Valid() {
		return nil, pkgerrors.NewValidation("非法主体类型: %s", req.SubjectType)
	}

	// 创建时校验主体存在；之后的读取以主体存储为准，不做级联
	if err := s.checkSubjectExists(ctx, subjectType, req.SubjectID); err != nil {
		return nil, err
	}

	record := &model.ApproveRequest{
		SubjectType:       subjectType,
		SubjectID:         req.SubjectID,
		LeaderDecision:    model.DecisionUnset,
		DataEntryDecision: model.DecisionUnset,
	}
	record.CreatedBy = &callerID
	record.UpdatedBy = &callerID

	if err := s.repo.ApproveRequest.Create(ctx, record); err != nil {
		var conflict *pkgerrors.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.logger.Error("创建审批单失败",
			zap.String("subject_type", req.SubjectType),
			zap.String("subject_id", req.SubjectID),
			zap.Error(err))
		return nil, err
	}

	return s.toResponse(record, nil), nil
}

func (s *approvalService) checkSubjectExists(ctx context.Context, subjectType model.SubjectType, subjectID string) error {
	var err error
	switch subjectType {
	case model.SubjectOrganization:
		_, err = s.repo.Organization.GetByID(ctx, subjectID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewNotFound("机构", subjectID)
		}
	case model.SubjectCustomCode:
		_, err = s.repo.CustomCode.GetByID(ctx, subjectID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewNotFound("短代码申请", subjectID)
		}
	}
	if err != nil {
		return pkgerrors.NewDependency("主体存储", err)
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *approvalService) List(ctx context.Context, q *dto.ApproveRequestListQuery) ([]dto.ApproveRequestResponse, *dto.Pagination, error) {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	// 非法过滤值直接忽略，宽容查询
	filters := &repository.ApproveRequestListFilters{}
	if t := model.SubjectType(q.SubjectType); t.Valid() {
		filters.SubjectType = t
	}
	if st := model.Status(q.Status); st.Valid() {
		filters.Status = st
	}

	requests, total, err := s.repo.ApproveRequest.List(ctx, filters, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询审批队列失败", zap.Error(err))
		return nil, nil, err
	}

	summaries, err := s.subjectSummaries(ctx, requests)
	if err != nil {
		return nil, nil, err
	}

	result := make([]dto.ApproveRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *s.toResponse(&requests[i], summaries[requests[i].SubjectID]))
	}
	return result, &dto.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// subjectSummaries 批量拉取主体摘要，避免列表页 N+1 查询。
// 主体存储访问失败按 DependencyError 上抛，不展示残缺上下文。
func (s *approvalService) subjectSummaries(ctx context.Context, requests []model.ApproveRequest) (map[string]*dto.SubjectSummary, error) {
	var orgIDs, codeIDs []string
	for i := range requests {
		switch requests[i].SubjectType {
		case model.SubjectOrganization:
			orgIDs = append(orgIDs, requests[i].SubjectID)
		case model.SubjectCustomCode:
			codeIDs = append(codeIDs, requests[i].SubjectID)
		}
	}

	summaries := make(map[string]*dto.SubjectSummary)

	orgs, err := s.repo.Organization.ListByIDs(ctx, orgIDs)
	if err != nil {
		s.logger.Error("批量查询机构失败", zap.Error(err))
		return nil, pkgerrors.NewDependency("机构存储", err)
	}
	for i := range orgs {
		summaries[orgs[i].OrganizationID] = &dto.SubjectSummary{
			OrganizationName: orgs[i].Name,
			Email:            orgs[i].Email,
		}
	}

	codes, err := s.repo.CustomCode.ListByIDs(ctx, codeIDs)
	if err != nil {
		s.logger.Error("批量查询短代码申请失败", zap.Error(err))
		return nil, pkgerrors.NewDependency("短代码存储", err)
	}
	for i := range codes {
		summary := &dto.SubjectSummary{
			Code:   codes[i].Code,
			URL:    codes[i].URL,
			Reason: codes[i].Reason,
		}
		if codes[i].Organization != nil {
			summary.OrganizationName = codes[i].Organization.Name
			summary.Email = codes[i].Organization.Email
		}
		summaries[codes[i].CustomCodeID] = summary
	}

	return summaries, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *approvalService) GetByID(ctx context.Context, id string) (*dto.ApproveRequestDetailResponse, error) {
	record, err := s.repo.ApproveRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("审批单", id)
		}
		s.logger.Error("查询审批单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	detail := &dto.ApproveRequestDetailResponse{}

	// 主体上下文实时读取，机构档案的修改立即可见；
	// 悬空引用按数据完整性问题上抛，不静默隐藏
	switch record.SubjectType {
	case model.SubjectOrganization:
		org, err := s.repo.Organization.GetByID(ctx, record.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NewNotFound("机构", record.SubjectID)
			}
			return nil, pkgerrors.NewDependency("机构存储", err)
		}
		detail.Organization = toOrganizationResponse(org)
		detail.ApproveRequestResponse = *s.toResponse(record, &dto.SubjectSummary{
			OrganizationName: org.Name,
			Email:            org.Email,
		})
	case model.SubjectCustomCode:
		code, err := s.repo.CustomCode.GetByID(ctx, record.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NewNotFound("短代码申请", record.SubjectID)
			}
			return nil, pkgerrors.NewDependency("短代码存储", err)
		}
		detail.CustomCode = toCustomCodeResponse(code)
		summary := &dto.SubjectSummary{Code: code.Code, URL: code.URL, Reason: code.Reason}
		if code.Organization != nil {
			summary.OrganizationName = code.Organization.Name
			summary.Email = code.Organization.Email
		}
		detail.ApproveRequestResponse = *s.toResponse(record, summary)
	default:
		detail.ApproveRequestResponse = *s.toResponse(record, nil)
	}

	return detail, nil
}

// ────────────────────── UpdateDecisions ──────────────────────

func (s *approvalService) UpdateDecisions(ctx context.Context, id string, req *dto.UpdateDecisionsRequest, caller *Caller) (*dto.ApproveRequestResponse, error) {
	if err := validateDecisionPatch(req); err != nil {
		return nil, err
	}
	if err := authorizeGates(req, caller); err != nil {
		return nil, err
	}

	record, err := s.repo.ApproveRequest.Update(ctx, id, func(r *model.ApproveRequest) error {
		if req.LeaderDecision != nil {
			r.LeaderDecision = model.Decision(*req.LeaderDecision)
			if req.LeaderNote != nil {
				r.LeaderNote = *req.LeaderNote
			}
		}
		if req.DataEntryDecision != nil {
			r.DataEntryDecision = model.Decision(*req.DataEntryDecision)
			if req.DataEntryNote != nil {
				r.DataEntryNote = *req.DataEntryNote
			}
		}
		if caller != nil {
			r.UpdatedBy = &caller.UserID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFound("审批单", id)
		}
		s.logger.Error("更新审批判定失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("审批判定已更新",
		zap.String("id", record.ApproveRequestID),
		zap.String("leader_decision", string(record.LeaderDecision)),
		zap.String("data_entry_decision", string(record.DataEntryDecision)),
		zap.String("status", string(record.Status)))

	return s.toResponse(record, nil), nil
}

// validateDecisionPatch 校验部分更新请求：
// 至少携带一个判定字段；备注只能与本岗位判定一起提交；
// 判定值不允许回退为 UNSET。
func validateDecisionPatch(req *dto.UpdateDecisionsRequest) error {
	if req.LeaderDecision == nil && req.DataEntryDecision == nil {
		return pkgerrors.NewValidation("至少需要携带一个审批判定字段")
	}
	if req.LeaderNote != nil && req.LeaderDecision == nil {
		return pkgerrors.NewValidation("leaderNote 必须与 leaderDecision 一起提交")
	}
	if req.DataEntryNote != nil && req.DataEntryDecision == nil {
		return pkgerrors.NewValidation("dataEntryNote 必须与 dataEntryDecision 一起提交")
	}
	if req.LeaderDecision != nil && !model.Decision(*req.LeaderDecision).Recordable() {
		return pkgerrors.NewValidation("非法的 leaderDecision 取值: %s", *req.LeaderDecision)
	}
	if req.DataEntryDecision != nil && !model.Decision(*req.DataEntryDecision).Recordable() {
		return pkgerrors.NewValidation("非法的 dataEntryDecision 取值: %s", *req.DataEntryDecision)
	}
	return nil
}

// authorizeGates 校验调用者角色可写的岗位：
// 负责人岗位 leader/admin，资料录入岗位 data_entry/admin
func authorizeGates(req *dto.UpdateDecisionsRequest, caller *Caller) error {
	if caller == nil {
		return ErrGateForbidden
	}
	if caller.Role == RoleAdmin {
		return nil
	}
	if req.LeaderDecision != nil && caller.Role != RoleLeader {
		return ErrGateForbidden
	}
	if req.DataEntryDecision != nil && caller.Role != RoleDataEntry {
		return ErrGateForbidden
	}
	return nil
}

// ────────────────────── 单岗位录入 ──────────────────────

func (s *approvalService) RecordLeaderDecision(ctx context.Context, id string, decision model.Decision, note string, caller *Caller) (*dto.ApproveRequestResponse, error) {
	d := string(decision)
	return s.UpdateDecisions(ctx, id, &dto.UpdateDecisionsRequest{
		LeaderDecision: &d,
		LeaderNote:     &note,
	}, caller)
}

func (s *approvalService) RecordDataEntryDecision(ctx context.Context, id string, decision model.Decision, note string, caller *Caller) (*dto.ApproveRequestResponse, error) {
	d := string(decision)
	return s.UpdateDecisions(ctx, id, &dto.UpdateDecisionsRequest{
		DataEntryDecision: &d,
		DataEntryNote:     &note,
	}, caller)
}

// ── 内部辅助方法 ──

func (s *approvalService) toResponse(r *model.ApproveRequest, subject *dto.SubjectSummary) *dto.ApproveRequestResponse {
	return &dto.ApproveRequestResponse{
		ID:                r.ApproveRequestID,
		SubjectType:       string(r.SubjectType),
		SubjectID:         r.SubjectID,
		LeaderDecision:    string(r.LeaderDecision),
		LeaderNote:        r.LeaderNote,
		DataEntryDecision: string(r.DataEntryDecision),
		DataEntryNote:     r.DataEntryNote,
		Status:            string(r.Status),
		Subject:           subject,
		CreatedAt:         r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/approval_service.go
