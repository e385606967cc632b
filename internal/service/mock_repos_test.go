package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/mukhtaser/mukhtaser-panel/internal/model"
	"github.com/mukhtaser/mukhtaser-panel/internal/repository"
	pkgerrors "github.com/mukhtaser/mukhtaser-panel/pkg/errors"
)

// ── Mock ApproveRequestRepository ──

type mockApproveRequestRepo struct {
	requests map[string]*model.ApproveRequest
	seq      int
	failErr  error // 非空时所有操作返回该错误
}

func newMockApproveRequestRepo() *mockApproveRequestRepo {
	return &mockApproveRequestRepo{requests: make(map[string]*model.ApproveRequest)}
}

func (m *mockApproveRequestRepo) Create(_ context.Context, req *model.ApproveRequest) error {
	if m.failErr != nil {
		return m.failErr
	}
	for _, existing := range m.requests {
		if existing.SubjectType == req.SubjectType &&
			existing.SubjectID == req.SubjectID &&
			existing.Open() {
			return pkgerrors.NewConflict("该主体已存在待审的审批单: %s", existing.ApproveRequestID)
		}
	}
	m.seq++
	if req.ApproveRequestID == "" {
		req.ApproveRequestID = fmt.Sprintf("req-%03d", m.seq)
	}
	req.Recompute()
	req.Version = 1
	now := time.Now().Add(time.Duration(m.seq) * time.Second) // 保证排序稳定
	req.CreatedAt = now
	req.UpdatedAt = now
	m.requests[req.ApproveRequestID] = req
	return nil
}

func (m *mockApproveRequestRepo) GetByID(_ context.Context, id string) (*model.ApproveRequest, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApproveRequestRepo) List(_ context.Context, filters *repository.ApproveRequestListFilters, offset, limit int) ([]model.ApproveRequest, int64, error) {
	if m.failErr != nil {
		return nil, 0, m.failErr
	}
	var matched []model.ApproveRequest
	for _, r := range m.requests {
		if filters != nil {
			if filters.SubjectType != "" && r.SubjectType != filters.SubjectType {
				continue
			}
			if filters.Status != "" && r.Status != filters.Status {
				continue
			}
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.ApproveRequest{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockApproveRequestRepo) Update(_ context.Context, id string, mutate func(*model.ApproveRequest) error) (*model.ApproveRequest, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := mutate(r); err != nil {
		return nil, err
	}
	r.Recompute()
	r.Version++
	r.UpdatedAt = time.Now()
	copied := *r
	return &copied, nil
}

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	orgs    map[string]*model.Organization
	failErr error
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: map[string]*model.Organization{
		"org-001": {
			OrganizationID:        "org-001",
			Name:                  "مؤسسة الاختبار",
			Email:                 "org@example.sa",
			PhoneNumber:           "+966500000001",
			UnifiedNationalNumber: "7001234567",
			Status:                "PENDING",
			CrnURL:                "https://cdn.example.sa/docs/crn-001.pdf",
			Address: &model.OrganizationAddress{
				OrganizationID: "org-001",
				City:           "Riyadh",
				District:       "Al Olaya",
			},
			TaxAccount: &model.TaxAccount{
				OrganizationID: "org-001",
				TaxNumber:      "310000000000003",
			},
		},
	}}
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) ListByIDs(_ context.Context, ids []string) ([]model.Organization, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var result []model.Organization
	for _, id := range ids {
		if o, ok := m.orgs[id]; ok {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOrganizationRepo) Update(_ context.Context, org *model.Organization) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

// ── Mock CustomCodeRepository ──

type mockCustomCodeRepo struct {
	codes   map[string]*model.CustomCode
	failErr error
}

func newMockCustomCodeRepo() *mockCustomCodeRepo {
	return &mockCustomCodeRepo{codes: map[string]*model.CustomCode{
		"code-001": {
			CustomCodeID:   "code-001",
			OrganizationID: "org-001",
			Code:           "MKT70",
			URL:            "https://mukhtaser.sa/mkt70",
			Reason:         "营销活动短链",
			Organization: &model.Organization{
				OrganizationID: "org-001",
				Name:           "مؤسسة الاختبار",
				Email:          "org@example.sa",
			},
		},
	}}
}

func (m *mockCustomCodeRepo) GetByID(_ context.Context, id string) (*model.CustomCode, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	if c, ok := m.codes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomCodeRepo) ListByIDs(_ context.Context, ids []string) ([]model.CustomCode, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var result []model.CustomCode
	for _, id := range ids {
		if c, ok := m.codes[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
