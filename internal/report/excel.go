package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"resume-extract-go/internal/types"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Candidates"
)

// WriteWorkbook 将候选人记录渲染为xlsx字节流，供导出接口直接下发
func WriteWorkbook(records []*types.CandidateRecord) ([]byte, error) {
	f, err := buildWorkbook(records)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("写入xlsx缓冲区失败: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToExcel 将候选人记录导出为xlsx文件
func ExportToExcel(records []*types.CandidateRecord, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := buildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		// 直接保存失败时退化为缓冲区写入
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("保存xlsx失败: 直接保存(%v)与缓冲写入均失败: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("保存xlsx失败: 直接保存(%v)后落盘失败: %w", err, fileErr)
		}
	}
	return nil
}

func buildWorkbook(records []*types.CandidateRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("创建候选人工作表失败: %w", err)
	}

	if err := fillSummarySheet(f, records); err != nil {
		f.Close()
		return nil, fmt.Errorf("填充汇总工作表失败: %w", err)
	}
	if err := fillCandidatesSheet(f, records); err != nil {
		f.Close()
		return nil, fmt.Errorf("填充候选人工作表失败: %w", err)
	}
	return f, nil
}

func fillSummarySheet(f *excelize.File, records []*types.CandidateRecord) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1
	f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Candidate Extraction Report")
	f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	setLabeled := func(label string, value interface{}) {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), label)
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	setLabeled("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	setLabeled("Total Candidates:", len(records))

	withEmail := 0
	withPhone := 0
	withLinkedin := 0
	for _, r := range records {
		if r.Email != nil {
			withEmail++
		}
		if r.Phone != nil {
			withPhone++
		}
		if r.LinkedinURL != nil {
			withLinkedin++
		}
	}
	setLabeled("With Email:", withEmail)
	setLabeled("With Phone:", withPhone)
	setLabeled("With LinkedIn:", withLinkedin)
	return nil
}

func fillCandidatesSheet(f *excelize.File, records []*types.CandidateRecord) error {
	widths := []float64{38, 22, 28, 20, 14, 34, 34, 34, 28}
	for i, w := range widths {
		col := string(rune('A' + i))
		f.SetColWidth(candidatesSheet, col, col, w)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	headers := []string{"ID", "Name", "Email", "Phone", "Experience", "LinkedIn", "Primary Skills", "Secondary Skills", "Source File"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(candidatesSheet, cell, header)
		f.SetCellStyle(candidatesSheet, cell, cell, headerStyle)
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	for i, r := range records {
		row := i + 2
		f.SetCellValue(candidatesSheet, fmt.Sprintf("A%d", row), r.Identity)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("C%d", row), deref(r.Email))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("D%d", row), deref(r.Phone))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("E%d", row), r.ExperienceYears)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("F%d", row), deref(r.LinkedinURL))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("G%d", row), strings.Join(r.PrimarySkills, ", "))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("H%d", row), strings.Join(r.SecondarySkills, ", "))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("I%d", row), r.OriginalFilename)
	}

	if len(records) > 0 {
		f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:I%d", len(records)+1), []excelize.AutoFilterOptions{})
	}

	// 冻结表头行
	f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}
