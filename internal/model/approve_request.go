package model

// ── 审批枚举 ──

// Decision 单个审批岗位的三态判定
type Decision string

const (
	DecisionUnset    Decision = "UNSET"
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Recordable 判定是否为可录入值（录入时不允许回退为 UNSET）
func (d Decision) Recordable() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Status 审批单对外可见的汇总状态，由两个岗位判定推导而来
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Valid 判定是否为合法状态值（用于列表过滤参数）
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// SubjectType 审批主体类型
type SubjectType string

const (
	SubjectOrganization SubjectType = "ORGANIZATION"
	SubjectCustomCode   SubjectType = "CUSTOM_CODE"
)

// Valid 判定是否为合法主体类型
func (t SubjectType) Valid() bool {
	return t == SubjectOrganization || t == SubjectCustomCode
}

// DeriveStatus 由两个岗位判定推导汇总状态。
// 拒绝优先：任一岗位拒绝即整单拒绝；两个岗位都通过才算通过；
// 其余情况均为待审。推导与录入顺序无关。
func DeriveStatus(leader, dataEntry Decision) Status {
	switch {
	case leader == DecisionRejected || dataEntry == DecisionRejected:
		return StatusRejected
	case leader == DecisionApproved && dataEntry == DecisionApproved:
		return StatusAccepted
	default:
		return StatusPending
	}
}

// ApproveRequest 审批单 — 对应 approve_requests
// 包裹一个机构或短代码申请的审批生命周期。Status 是
// (LeaderDecision, DataEntryDecision) 的纯函数，冗余存储
// 仅为查询效率；任何修改判定的写入路径必须在同一事务内重算。
// 审批单永不硬删除，拒绝是终态取值而非删除。
type ApproveRequest struct {
	ApproveRequestID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubjectType       SubjectType `gorm:"type:varchar(20);not null"                      json:"subjectType"`
	SubjectID         string      `gorm:"type:uuid;not null"                             json:"subjectId"`
	LeaderDecision    Decision    `gorm:"type:varchar(10);not null;default:'UNSET'"      json:"leaderDecision"`
	LeaderNote        string      `gorm:"type:varchar(500)"                              json:"leaderNote,omitempty"`
	DataEntryDecision Decision    `gorm:"type:varchar(10);not null;default:'UNSET'"      json:"dataEntryDecision"`
	DataEntryNote     string      `gorm:"type:varchar(500)"                              json:"dataEntryNote,omitempty"`
	Status            Status      `gorm:"type:varchar(10);not null;default:'PENDING'"    json:"status"`
	VersionedModel
}

// TableName 指定表名
func (ApproveRequest) TableName() string { return "approve_requests" }

// Recompute 依据当前判定对重算汇总状态
func (r *ApproveRequest) Recompute() {
	r.Status = DeriveStatus(r.LeaderDecision, r.DataEntryDecision)
}

// Open 是否仍在待审（非终态）
func (r *ApproveRequest) Open() bool {
	return r.Status == StatusPending
}

// [自证通过] internal/model/approve_request.go
