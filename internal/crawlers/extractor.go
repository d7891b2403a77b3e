package crawlers

import (
	"context"
	"errors"
	"strings"

	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/RecoveryAshes/customsvn/internal/utils"
)

// Extractor 数据行提取器
type Extractor struct {
	portal Portal
}

// NewExtractor 创建数据行提取器
func NewExtractor(portal Portal) *Extractor {
	return &Extractor{portal: portal}
}

// Extract 读取当前页面的数据表并转换为记录
// 数据表缺失时记录警告并返回空结果(部分页面可能短暂渲染为空)。
func (e *Extractor) Extract(ctx context.Context) ([]models.Record, error) {
	rows, err := e.portal.ReadTableRows(ctx)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			utils.Warn("⚠️  未找到数据表,本页记为0条")
			return []models.Record{}, nil
		}
		return nil, err
	}
	return ExtractRecords(rows), nil
}

// ExtractRecords 将表格行转换为记录
// 第一行(表头)无条件跳过;STT列不是整数的行视为装饰行,静默丢弃。
func ExtractRecords(rows [][]string) []models.Record {
	records := make([]models.Record, 0, len(rows))
	if len(rows) == 0 {
		return records
	}

	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if len(cells) == 0 || !models.IsSequenceNumber(cells[0]) {
			continue
		}
		records = append(records, models.NewRecordFromCells(cells))
	}
	return records
}
