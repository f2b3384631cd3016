package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// 矩阵行中文名
var matrixRowNames = map[string]string{
	RowDone:          "已完成",
	RowOnTime:        "按时",
	RowLate:          "迟完成",
	RowPending:       "进行中",
	RowOverdue:       "已超期",
	RowNotApplicable: "不适用",
}

// 台账阶段中文名
var ledgerStageNames = map[string]string{
	LedgerAssigned:      "已分派",
	LedgerApproved:      "已审批",
	LedgerBid:           "已投标",
	LedgerResultAwaited: "待开标",
	LedgerWon:           "中标",
	LedgerLost:          "落标",
	LedgerDisqualified:  "废标",
	LedgerMissed:        "错过",
}

// ExportService 报表导出
type ExportService struct {
	matrix  *MatrixService
	backlog *BacklogService
}

func NewExportService(matrix *MatrixService, backlog *BacklogService) *ExportService {
	return &ExportService{matrix: matrix, backlog: backlog}
}

// ExportTeamMatrix 导出团队阶段矩阵为xlsx
func (s *ExportService) ExportTeamMatrix(ctx context.Context, teamID string, window Window) (*excelize.File, string, error) {
	m, err := s.matrix.GetTeamMatrix(ctx, teamID, window)
	if err != nil {
		return nil, "", fmt.Errorf("get team matrix: %w", err)
	}

	f := excelize.NewFile()
	sheet := "阶段矩阵"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 表头：第一列为行名，之后每阶段一列
	f.SetCellValue(sheet, "A1", "判定")
	f.SetCellStyle(sheet, "A1", "A1", boldStyle)
	stageNames := stageNameIndex()
	for i, key := range m.Stages {
		col, _ := excelize.ColumnNumberToName(i + 2)
		cell := col + "1"
		f.SetCellValue(sheet, cell, stageNames[key])
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, rowKey := range MatrixRowOrder {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), matrixRowNames[rowKey])
		for i, key := range m.Stages {
			col, _ := excelize.ColumnNumberToName(i + 2)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), m.Rows[rowKey][key].Count)
		}
	}

	f.SetColWidth(sheet, "A", "A", 12)

	filename := fmt.Sprintf("阶段矩阵_%s_%s.xlsx",
		window.From.Format("20060102"), window.To.Format("20060102"))
	return f, filename, nil
}

// ExportTeamBacklog 导出团队积压台账为xlsx
func (s *ExportService) ExportTeamBacklog(ctx context.Context, teamID string, window Window) (*excelize.File, string, error) {
	ledger, err := s.backlog.GetTeamBacklog(ctx, teamID, window)
	if err != nil {
		return nil, "", fmt.Errorf("get team backlog: %w", err)
	}

	f := excelize.NewFile()
	sheet := "积压台账"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	headers := []string{"阶段", "期初数", "期初金额", "期中新增", "期中完成", "期中未完", "期末数", "期末金额"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, sl := range ledger.Stages {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ledgerStageNames[sl.StageKey])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sl.Opening.Count)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sl.Opening.Value)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sl.During.Total.Count)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sl.During.Completed.Count)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sl.During.Pending.Count)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sl.Total.Count)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sl.Total.Value)
	}

	colWidths := []float64{12, 10, 14, 10, 10, 10, 10, 14}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("积压台账_%s_%s.xlsx",
		window.From.Format("20060102"), window.To.Format("20060102"))
	return f, filename, nil
}

func stageNameIndex() map[string]string {
	names := make(map[string]string, len(stageRegistry))
	for _, def := range stageRegistry {
		names[def.Key] = def.Name
	}
	return names
}
