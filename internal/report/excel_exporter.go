package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/limepath/pathsys/internal/domain/entity"
)

// ExcelExporter renders the approval register as an xlsx workbook
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

const registerSheet = "Approval Register"

var registerHeaders = []string{
	"Approval Code", "Original Case", "State", "Requested By", "Reason",
	"Tests", "Managed By", "Approved By", "Rejected By",
	"Linked Case", "Created", "Decided",
}

// BuildRegister writes one row per approval request and returns the
// workbook bytes.
func (e *ExcelExporter) BuildRegister(requests []*entity.ApprovalRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell name: %w", err)
		}
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, req := range requests {
		row := i + 2
		values := []interface{}{
			req.ApprovalCode,
			req.OriginalCaseCode,
			req.State,
			req.RequestedBy,
			req.Reason,
			formatTests(req.ComplementaryTests),
			req.ManagedBy,
			req.ApprovedBy,
			req.RejectedBy,
			req.LinkedCaseCode,
			req.CreatedAt.Format(time.RFC3339),
			formatDecided(req),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(registerSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Info("Built approval register workbook", zap.Int("rows", len(requests)))
	return buf.Bytes(), nil
}

func formatTests(tests []entity.ComplementaryTest) string {
	var out string
	for i, test := range tests {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s x%d", test.Code, test.Quantity)
	}
	return out
}

func formatDecided(req *entity.ApprovalRequest) string {
	switch {
	case req.ApprovedAt != nil:
		return req.ApprovedAt.Format(time.RFC3339)
	case req.RejectedAt != nil:
		return req.RejectedAt.Format(time.RFC3339)
	default:
		return ""
	}
}
