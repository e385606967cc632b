package dto

// ── 机构模块 DTO ──

// OrganizationResponse 机构档案响应
type OrganizationResponse struct {
	ID                    string                       `json:"id"`
	Name                  string                       `json:"name"`
	Email                 string                       `json:"email,omitempty"`
	PhoneNumber           string                       `json:"phoneNumber,omitempty"`
	UnifiedNationalNumber string                       `json:"unifiedNationalNumber,omitempty"`
	Status                string                       `json:"status,omitempty"`
	CrnURL                string                       `json:"crnUrl,omitempty"`
	NationalAddressURL    string                       `json:"nationalAddressUrl,omitempty"`
	VatURL                string                       `json:"vatUrl,omitempty"`
	Address               *OrganizationAddressResponse `json:"address,omitempty"`
	TaxAccount            *TaxAccountResponse          `json:"taxAccount,omitempty"`
	OrganizationSupport   *OrganizationSupportResponse `json:"organizationSupport,omitempty"`
	CreatedAt             string                       `json:"createdAt,omitempty"`
	UpdatedAt             string                       `json:"updatedAt,omitempty"`
}

// OrganizationAddressResponse 国家地址响应
type OrganizationAddressResponse struct {
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	District        string `json:"district,omitempty"`
	Street          string `json:"street,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	SubNumber       string `json:"subNumber,omitempty"`
	SecondaryNumber string `json:"secondaryNumber,omitempty"`
}

// TaxAccountResponse 税务账户响应
type TaxAccountResponse struct {
	TaxNumber string `json:"taxNumber,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// OrganizationSupportResponse 支持联系人响应
type OrganizationSupportResponse struct {
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Title       string `json:"title,omitempty"`
}

// UpdateOrganizationRequest 更新机构档案请求（部分合并）
// 缺省字段一律保持原值，嵌套对象同理，绝不清空未提交的字段。
type UpdateOrganizationRequest struct {
	Name                *string                           `json:"name"        binding:"omitempty,min=1,max=200"`
	Email               *string                           `json:"email"       binding:"omitempty,email"`
	PhoneNumber         *string                           `json:"phoneNumber" binding:"omitempty,max=30"`
	Address             *UpdateOrganizationAddressRequest `json:"address"`
	TaxAccount          *UpdateTaxAccountRequest          `json:"taxAccount"`
	OrganizationSupport *UpdateOrganizationSupportRequest `json:"organizationSupport"`
}

// UpdateOrganizationAddressRequest 地址部分合并请求
type UpdateOrganizationAddressRequest struct {
	Address         *string `json:"address"         binding:"omitempty,max=300"`
	City            *string `json:"city"            binding:"omitempty,max=100"`
	District        *string `json:"district"        binding:"omitempty,max=100"`
	Street          *string `json:"street"          binding:"omitempty,max=200"`
	PostalCode      *string `json:"postalCode"      binding:"omitempty,max=20"`
	SubNumber       *string `json:"subNumber"       binding:"omitempty,max=20"`
	SecondaryNumber *string `json:"secondaryNumber" binding:"omitempty,max=20"`
}

// UpdateTaxAccountRequest 税务账户部分合并请求
type UpdateTaxAccountRequest struct {
	TaxNumber *string `json:"taxNumber" binding:"omitempty,max=30"`
	ExpiresAt *string `json:"expiresAt" binding:"omitempty"`
}

// UpdateOrganizationSupportRequest 支持联系人部分合并请求
type UpdateOrganizationSupportRequest struct {
	FullName    *string `json:"fullName"    binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=30"`
	Title       *string `json:"title"       binding:"omitempty,max=100"`
}

// ── 短代码模块 DTO ──

// CustomCodeResponse 短代码申请响应
type CustomCodeResponse struct {
	ID               string `json:"id"`
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName,omitempty"`
	Code             string `json:"code"`
	URL              string `json:"url,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// [自证通过] internal/dto/organization.go
