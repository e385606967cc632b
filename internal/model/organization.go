package model

import "time"

// Organization 机构档案 — 对应 organizations
// 本服务视其为外部平台库的只读主体，仅允许审核人员修改
// 可编辑档案字段；档案修改不会隐式改变审批单状态。
type Organization struct {
	OrganizationID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                  string `gorm:"type:varchar(200);not null"                     json:"name"`
	Email                 string `gorm:"type:varchar(200)"                              json:"email,omitempty"`
	PhoneNumber           string `gorm:"type:varchar(30)"                               json:"phoneNumber,omitempty"`
	UnifiedNationalNumber string `gorm:"type:varchar(30)"                               json:"unifiedNationalNumber,omitempty"`
	Status                string `gorm:"type:varchar(20)"                               json:"status,omitempty"` // 平台侧可见性状态，本服务只读
	CrnURL                string `gorm:"column:crn_url;type:varchar(500)"               json:"crnUrl,omitempty"`
	NationalAddressURL    string `gorm:"column:national_address_url;type:varchar(500)"  json:"nationalAddressUrl,omitempty"`
	VatURL                string `gorm:"column:vat_url;type:varchar(500)"               json:"vatUrl,omitempty"`
	BaseModel

	// 关联
	Address    *OrganizationAddress `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"address,omitempty"`
	TaxAccount *TaxAccount          `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"taxAccount,omitempty"`
	Support    *OrganizationSupport `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organizationSupport,omitempty"`
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// OrganizationAddress 机构国家地址 — 对应 organization_addresses
type OrganizationAddress struct {
	AddressID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	OrganizationID  string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"-"`
	Address         string    `gorm:"type:varchar(300)"                              json:"address,omitempty"`
	City            string    `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	District        string    `gorm:"type:varchar(100)"                              json:"district,omitempty"`
	Street          string    `gorm:"type:varchar(200)"                              json:"street,omitempty"`
	PostalCode      string    `gorm:"type:varchar(20)"                               json:"postalCode,omitempty"`
	SubNumber       string    `gorm:"type:varchar(20)"                               json:"subNumber,omitempty"`
	SecondaryNumber string    `gorm:"type:varchar(20)"                               json:"secondaryNumber,omitempty"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`
}

// TableName 指定表名
func (OrganizationAddress) TableName() string { return "organization_addresses" }

// TaxAccount 机构税务账户 — 对应 organization_tax_accounts
type TaxAccount struct {
	TaxAccountID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	OrganizationID string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"-"`
	TaxNumber      string     `gorm:"type:varchar(30)"                               json:"taxNumber,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`
}

// TableName 指定表名
func (TaxAccount) TableName() string { return "organization_tax_accounts" }

// OrganizationSupport 机构支持联系人 — 对应 organization_supports
type OrganizationSupport struct {
	SupportID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	OrganizationID string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"-"`
	FullName       string    `gorm:"type:varchar(100)"                              json:"fullName,omitempty"`
	PhoneNumber    string    `gorm:"type:varchar(30)"                               json:"phoneNumber,omitempty"`
	Title          string    `gorm:"type:varchar(100)"                              json:"title,omitempty"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"-"`
}

// TableName 指定表名
func (OrganizationSupport) TableName() string { return "organization_supports" }

// [自证通过] internal/model/organization.go
