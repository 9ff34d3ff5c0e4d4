package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

func TestRenderComplaints(t *testing.T) {
	notes := "pipe replaced"
	lat := 52.37
	stats := &domain.ComplaintStats{
		Total: 2,
		ByStatus: []domain.StatusCount{
			{Status: domain.StatusPending, Count: 1},
			{Status: domain.StatusResolved, Count: 1},
		},
		ByDepartment: []domain.DepartmentCount{
			{Name: "Transport", Count: 0},
			{Name: "Water & Power", Count: 2},
		},
	}
	complaints := []domain.ComplaintView{
		{
			Complaint: domain.Complaint{
				ID: 2, Category: "Water", Description: "leak", Status: domain.StatusResolved,
				Latitude: &lat, ResolutionNotes: &notes,
				CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			},
			CitizenName: "Alice", DeptName: "Water & Power",
		},
		{
			Complaint:   domain.Complaint{ID: 1, Category: "Water", Description: "low pressure", Status: domain.StatusPending},
			CitizenName: "Bob", DeptName: "Water & Power",
		},
	}

	data, err := NewComplaintWorkbook().RenderComplaints(stats, complaints)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, ComplaintsSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total complaints", "2"}, summary[0])
	assert.Equal(t, []string{"Status", "Count"}, summary[2])
	assert.Equal(t, []string{"PENDING", "1"}, summary[3])
	assert.Equal(t, []string{"Transport", "0"}, summary[len(summary)-2])

	rows, err := f.GetRows(ComplaintsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Category", rows[0][1])
	assert.Equal(t, []string{"2", "Water", "Water & Power", "Alice", "RESOLVED", "leak", "52.37", "", "pipe replaced", "2026-03-01 09:30"}, rows[1])
	assert.Equal(t, "low pressure", rows[2][5])
}
