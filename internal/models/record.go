package models

import (
	"encoding/json"
	"strings"
)

// RecordColumns 数据表固定列数
const RecordColumns = 8

// RecordHeaders 门户数据表的越南文列标题(用于XLSX导出)
var RecordHeaders = [RecordColumns]string{
	"STT",
	"Chỉ tiêu",
	"Diễn giải",
	"Kỳ",
	"Trị giá (tỷ USD)",
	"Tăng/giảm so với kỳ trước (%)",
	"Lũy kế (tỷ USD)",
	"Tăng/giảm so với cùng kỳ (%)",
}

// Record 海关统计数据表中的一行
// 所有字段均保持页面原始文本,不做数值转换。
// 除STT外的字段使用指针: 行中缺少对应单元格时为nil,序列化时省略该键。
type Record struct {
	STT                    string  `json:"stt"`                                  // 序号(有效性标记)
	ChiTieu                *string `json:"chi_tieu,omitempty"`                   // 指标名称
	DienGiai               *string `json:"dien_giai,omitempty"`                  // 说明
	Ky                     *string `json:"ky,omitempty"`                         // 期间
	TriGiaTyUSD            *string `json:"tri_gia_ty_usd,omitempty"`             // 金额(十亿美元)
	TangGiamKyTruocPercent *string `json:"tang_giam_ky_truoc_percent,omitempty"` // 环比(%)
	LuyKeTyUSD             *string `json:"luy_ke_ty_usd,omitempty"`              // 累计(十亿美元)
	TangGiamCungKyPercent  *string `json:"tang_giam_cung_ky_percent,omitempty"`  // 同比(%)
}

// NewRecordFromCells 按列位置将单元格映射为Record
// 单元格不足8个时,缺失的字段保持nil;多余的单元格被忽略。
func NewRecordFromCells(cells []string) Record {
	cell := func(i int) *string {
		if i >= len(cells) {
			return nil
		}
		v := cells[i]
		return &v
	}

	r := Record{
		ChiTieu:                cell(1),
		DienGiai:               cell(2),
		Ky:                     cell(3),
		TriGiaTyUSD:            cell(4),
		TangGiamKyTruocPercent: cell(5),
		LuyKeTyUSD:             cell(6),
		TangGiamCungKyPercent:  cell(7),
	}
	if len(cells) > 0 {
		r.STT = cells[0]
	}
	return r
}

// Cells 按列顺序返回字段值,第二个返回值标记该字段是否存在
func (r Record) Cells() ([RecordColumns]string, [RecordColumns]bool) {
	var values [RecordColumns]string
	var present [RecordColumns]bool

	values[0], present[0] = r.STT, true
	for i, p := range []*string{
		r.ChiTieu, r.DienGiai, r.Ky, r.TriGiaTyUSD,
		r.TangGiamKyTruocPercent, r.LuyKeTyUSD, r.TangGiamCungKyPercent,
	} {
		if p != nil {
			values[i+1], present[i+1] = *p, true
		}
	}
	return values, present
}

// MissingFields 返回缺失单元格的数量
func (r Record) MissingFields() int {
	_, present := r.Cells()
	n := 0
	for _, ok := range present {
		if !ok {
			n++
		}
	}
	return n
}

// String 紧凑JSON形式,用于日志和控制台预览
func (r Record) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{stt:" + r.STT + "}"
	}
	return string(data)
}

// IsSequenceNumber 判断STT单元格是否能解析为整数
// 语义与浏览器parseInt一致: 允许前导空白和正负号,
// 只要开头至少有一位数字即视为有效(如 "12."、"3a");
// "0x"前缀按十六进制处理,其后必须至少有一位十六进制数字。
func IsSequenceNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return len(s) > 2 && isHexDigit(s[2])
	}
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
