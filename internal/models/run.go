package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RunStatus 抓取任务状态
type RunStatus string

const (
	RunStatusIdle       RunStatus = "idle"       // 未开始
	RunStatusNavigating RunStatus = "navigating" // 正在切换分页
	RunStatusExtracting RunStatus = "extracting" // 正在解析数据表
	RunStatusDone       RunStatus = "done"       // 全部页面处理完成
	RunStatusAborted    RunStatus = "aborted"    // 中途终止(仍导出已采集的数据)
)

// IsTerminal 是否为终止状态
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusDone || s == RunStatusAborted
}

// PageStat 单页统计
type PageStat struct {
	Page    int `json:"page"`    // 页码(从1开始)
	Records int `json:"records"` // 该页有效记录数
}

// RunResult 一次抓取任务的结果
type RunResult struct {
	RunID       string    `json:"run_id"`
	SourceURL   string    `json:"source_url,omitempty"`
	Status      RunStatus `json:"status"`
	AbortReason string    `json:"abort_reason,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	TotalPages     int        `json:"total_pages"`
	PagesProcessed int        `json:"pages_processed"`
	TotalRecords   int        `json:"total_records"`
	Pages          []PageStat `json:"pages"`

	// 输出文件
	DataFile   string `json:"data_file,omitempty"`
	DataSize   int    `json:"data_size"` // 字节
	XLSXFile   string `json:"xlsx_file,omitempty"`
	ReportFile string `json:"-"`

	// Records 按页序、行序排列的全部记录
	Records []Record `json:"-"`
}

// NewRunResult 创建处于idle状态的任务结果
func NewRunResult(sourceURL string) *RunResult {
	return &RunResult{
		RunID:     uuid.New().String(),
		SourceURL: sourceURL,
		Status:    RunStatusIdle,
		StartTime: time.Now(),
		Pages:     make([]PageStat, 0),
		Records:   make([]Record, 0),
	}
}

// AddPage 追加一页的记录
func (r *RunResult) AddPage(page int, records []Record) {
	r.Records = append(r.Records, records...)
	r.Pages = append(r.Pages, PageStat{Page: page, Records: len(records)})
	r.PagesProcessed++
	r.TotalRecords = len(r.Records)
}

// Abort 标记任务中途终止
func (r *RunResult) Abort(reason string) {
	r.Status = RunStatusAborted
	r.AbortReason = reason
}

// Finish 记录结束时间;未被终止的任务标记为done
func (r *RunResult) Finish() {
	if r.Status != RunStatusAborted {
		r.Status = RunStatusDone
	}
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime).Seconds()
}

// PagesPerSecond 吞吐量(页/秒)
func (r *RunResult) PagesPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.TotalPages) / r.Duration
}

// ToJSON 序列化为JSON
func (r *RunResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunResult) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
