package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

const (
	SummarySheet    = "Summary"
	ComplaintsSheet = "Complaints"
	timeLayout      = "2006-01-02 15:04"
)

var complaintHeaders = []interface{}{
	"ID", "Category", "Department", "Citizen", "Status", "Description",
	"Latitude", "Longitude", "Resolution Notes", "Created At",
}

// ComplaintWorkbook renders analytics as an xlsx workbook.
type ComplaintWorkbook struct{}

var _ ports.ReportRenderer = ComplaintWorkbook{}

func NewComplaintWorkbook() ComplaintWorkbook { return ComplaintWorkbook{} }

func (ComplaintWorkbook) RenderComplaints(stats *domain.ComplaintStats, complaints []domain.ComplaintView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ComplaintsSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeSummary(f, stats, headerStyle); err != nil {
		return nil, err
	}
	if err := writeComplaints(f, complaints, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, stats *domain.ComplaintStats, headerStyle int) error {
	rows := [][]interface{}{
		{"Total complaints", stats.Total},
		{},
		{"Status", "Count"},
	}
	statusHeader := len(rows)
	for _, s := range stats.ByStatus {
		rows = append(rows, []interface{}{string(s.Status), s.Count})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Department", "Count"})
	deptHeader := len(rows)
	for _, d := range stats.ByDepartment {
		rows = append(rows, []interface{}{d.Name, d.Count})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	for _, r := range []int{1, statusHeader, deptHeader} {
		if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), headerStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeComplaints(f *excelize.File, complaints []domain.ComplaintView, headerStyle int) error {
	if err := f.SetSheetRow(ComplaintsSheet, "A1", &complaintHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(complaintHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ComplaintsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, c := range complaints {
		row := []interface{}{
			c.ID, c.Category, c.DeptName, c.CitizenName, string(c.Status), c.Description,
			floatOrEmpty(c.Latitude), floatOrEmpty(c.Longitude), stringOrEmpty(c.ResolutionNotes),
			c.CreatedAt.UTC().Format(timeLayout),
		}
		if err := f.SetSheetRow(ComplaintsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ComplaintsSheet, "B", "D", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(ComplaintsSheet, "F", "F", 48); err != nil {
		return err
	}
	return f.SetPanes(ComplaintsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
