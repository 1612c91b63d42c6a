package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"resume-extract-go/internal/types"
)

func sampleRecords() []*types.CandidateRecord {
	return []*types.CandidateRecord{
		{
			Identity:         "id-1",
			Name:             "John Michael Smith",
			Email:            types.StrPtr("john.smith@example.com"),
			Phone:            types.StrPtr("+1 415 555 0100"),
			ExperienceYears:  "5 years",
			LinkedinURL:      types.StrPtr("https://linkedin.com/in/johnsmith"),
			PrimarySkills:    []string{"Python", "React"},
			SecondarySkills:  []string{"Git"},
			OriginalFilename: "john_smith.pdf",
		},
		{
			Identity:        "id-2",
			Name:            "Priya Sharma",
			ExperienceYears: "Not specified",
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	data, err := WriteWorkbook(sampleRecords())
	require.NoError(t, err, "生成工作簿不应失败")
	require.NotEmpty(t, data, "工作簿字节流不应为空")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "生成的字节流应是合法的xlsx")
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary", "应包含汇总工作表")
	assert.Contains(t, sheets, "Candidates", "应包含候选人工作表")

	name, err := f.GetCellValue("Candidates", "B2")
	require.NoError(t, err)
	assert.Equal(t, "John Michael Smith", name, "候选人行应写入姓名")

	email, err := f.GetCellValue("Candidates", "C3")
	require.NoError(t, err)
	assert.Empty(t, email, "缺失邮箱应渲染为空单元格")
}

func TestExportToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates")

	require.NoError(t, ExportToExcel(sampleRecords(), path), "导出文件不应失败")

	// 无扩展名时应自动补全.xlsx
	_, err := os.Stat(path + ".xlsx")
	assert.NoError(t, err, "导出文件应存在且带xlsx后缀")
}

func TestWriteWorkbookEmpty(t *testing.T) {
	data, err := WriteWorkbook(nil)
	require.NoError(t, err, "空记录集也应生成合法工作簿")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "0", total, "汇总表应显示零候选人")
}
