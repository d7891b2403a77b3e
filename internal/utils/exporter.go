package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/xuri/excelize/v2"
)

const (
	// DataFileName 数据文件名(固定)
	DataFileName = "customs_data.json"
	// XLSXFileName 可选的Excel导出文件名
	XLSXFileName = "customs_data.xlsx"
	// ReportFileName 运行报告文件名
	ReportFileName = "customs_report.json"
	// RelocationHint 数据文件在仓库中的约定位置(需手动移动)
	RelocationHint = "scrapers/customs_vn/data/customs_data.json"
	// PreviewRecords 完成摘要中预览的记录数
	PreviewRecords = 3

	xlsxSheetName = "HaiQuan"
)

// Exporter 数据导出器
type Exporter struct {
	outputDir string
	writeXLSX bool
}

// NewExporter 创建数据导出器
func NewExporter(outputDir string, writeXLSX bool) *Exporter {
	return &Exporter{outputDir: outputDir, writeXLSX: writeXLSX}
}

// MarshalRecords 将记录序列化为2空格缩进的JSON数组
// 不转义HTML字符,与浏览器JSON.stringify的输出一致。
func MarshalRecords(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("序列化JSON失败: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Export 将记录写入输出目录,并回填result的DataFile/DataSize/XLSXFile
func (e *Exporter) Export(result *models.RunResult) error {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	data, err := MarshalRecords(result.Records)
	if err != nil {
		return err
	}

	path := filepath.Join(e.outputDir, DataFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入数据文件失败: %w", err)
	}
	result.DataFile = path
	result.DataSize = len(data)
	Debugf("保存数据文件: %s (%d bytes)", path, len(data))

	if e.writeXLSX {
		xlsxPath := filepath.Join(e.outputDir, XLSXFileName)
		if err := WriteXLSX(xlsxPath, result.Records); err != nil {
			return err
		}
		result.XLSXFile = xlsxPath
		Debugf("保存Excel文件: %s", xlsxPath)
	}
	return nil
}

// WriteReport 保存运行报告
func (e *Exporter) WriteReport(result *models.RunResult) error {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	data, err := result.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化报告失败: %w", err)
	}
	path := filepath.Join(e.outputDir, ReportFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}
	result.ReportFile = path
	Debugf("保存报告: %s", path)
	return nil
}

// WriteXLSX 以门户的列标题导出Excel文件,缺失的单元格留空
func WriteXLSX(path string, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	for col, title := range models.RecordHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheetName, cell, title); err != nil {
			return fmt.Errorf("写入表头失败: %w", err)
		}
	}

	for i, r := range records {
		values, present := r.Cells()
		for col := range values {
			if !present[col] {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(xlsxSheetName, cell, values[col]); err != nil {
				return fmt.Errorf("写入单元格失败 [%s]: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

// PrintSummary 输出完成摘要: 记录数、耗时、速度、文件大小和前几条记录预览
func PrintSummary(w io.Writer, result *models.RunResult) {
	line := strings.Repeat("=", 60)

	title := "🎉 抓取完成!"
	if result.Status == models.RunStatusAborted {
		title = "⚠️  抓取提前终止 (已导出部分数据)"
	}

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", line, title, line)
	fmt.Fprintf(w, "✓ 记录总数: %d\n", result.TotalRecords)
	fmt.Fprintf(w, "✓ 已处理页数: %d/%d\n", result.PagesProcessed, result.TotalPages)
	fmt.Fprintf(w, "✓ 耗时: %.1fs\n", result.Duration)
	fmt.Fprintf(w, "✓ 速度: %.2f 页/秒\n", result.PagesPerSecond())
	if result.AbortReason != "" {
		fmt.Fprintf(w, "✗ 终止原因: %s\n", result.AbortReason)
	}

	if result.DataFile != "" {
		fmt.Fprintf(w, "\n💾 数据文件: %s\n", result.DataFile)
		fmt.Fprintf(w, "📦 大小: %.2f KB\n", float64(result.DataSize)/1024)
		if result.XLSXFile != "" {
			fmt.Fprintf(w, "📊 Excel文件: %s\n", result.XLSXFile)
		}
		fmt.Fprintf(w, "\n📂 请将文件移动到: %s\n", RelocationHint)
	}

	fmt.Fprintf(w, "\n%s\n数据预览 (前%d条)\n%s\n", line, PreviewRecords, line)
	for i, r := range result.Records {
		if i >= PreviewRecords {
			break
		}
		fmt.Fprintf(w, "\n第%d条: %s\n", i+1, r.String())
	}
}

// NewProgressBar 创建分页进度条
func NewProgressBar(max int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("页"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
