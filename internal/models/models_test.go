package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"有效的HTTPS URL", "https://www.customs.gov.vn/index.jsp?pageId=444", false},
		{"有效的HTTP URL", "http://example.com", false},
		{"无效的协议", "ftp://example.com", true},
		{"空URL", "", true},
		{"无协议", "customs.gov.vn", true},
		{"本地文件", "file:///tmp/page_001.html", true},
		{"javascript协议", "javascript:alert(1)", true},
		{"缺少主机名", "https:///index.jsp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsSequenceNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"  20 ", true},
		{"007", true},
		{"-3", true},
		{"+4", true},
		{"12.", true},
		{"3a", true},
		{"0x1A", true},
		{"", false},
		{"—", false},
		{"STT", false},
		{"-", false},
		{"0x", false},
		{"a1", false},
	}

	for _, tt := range tests {
		if got := IsSequenceNumber(tt.in); got != tt.want {
			t.Errorf("IsSequenceNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRecordFromCells(t *testing.T) {
	cells := []string{"1", "Xuất khẩu", "Tổng trị giá", "T1/2024", "33,57", "-4,2", "33,57", "42,0"}
	got := NewRecordFromCells(cells)
	want := Record{
		STT:                    "1",
		ChiTieu:                strPtr("Xuất khẩu"),
		DienGiai:               strPtr("Tổng trị giá"),
		Ky:                     strPtr("T1/2024"),
		TriGiaTyUSD:            strPtr("33,57"),
		TangGiamKyTruocPercent: strPtr("-4,2"),
		LuyKeTyUSD:             strPtr("33,57"),
		TangGiamCungKyPercent:  strPtr("42,0"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("记录映射不一致 (-want +got):\n%s", diff)
	}
	if got.MissingFields() != 0 {
		t.Errorf("MissingFields() = %d, want 0", got.MissingFields())
	}
}

func TestNewRecordFromCells_ShortRow(t *testing.T) {
	r := NewRecordFromCells([]string{"5", "Nhập khẩu", "", "T2/2024", "30,1"})

	if r.TangGiamKyTruocPercent != nil || r.LuyKeTyUSD != nil || r.TangGiamCungKyPercent != nil {
		t.Fatalf("缺失的单元格应为nil: %+v", r)
	}
	if r.DienGiai == nil || *r.DienGiai != "" {
		t.Errorf("存在但为空的单元格应保留空字符串")
	}
	if r.MissingFields() != 3 {
		t.Errorf("MissingFields() = %d, want 3", r.MissingFields())
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	for _, key := range []string{"tang_giam_ky_truoc_percent", "luy_ke_ty_usd", "tang_giam_cung_ky_percent"} {
		if strings.Contains(string(data), key) {
			t.Errorf("缺失字段 %s 不应出现在JSON中: %s", key, data)
		}
	}
	if !strings.Contains(string(data), `"dien_giai":""`) {
		t.Errorf("空单元格应序列化为空字符串: %s", data)
	}
}

func TestRecordJSONKeyOrder(t *testing.T) {
	r := NewRecordFromCells([]string{"1", "a", "b", "c", "d", "e", "f", "g"})
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	keys := []string{"stt", "chi_tieu", "dien_giai", "ky", "tri_gia_ty_usd",
		"tang_giam_ky_truoc_percent", "luy_ke_ty_usd", "tang_giam_cung_ky_percent"}
	last := -1
	for _, k := range keys {
		idx := strings.Index(string(data), `"`+k+`"`)
		if idx <= last {
			t.Fatalf("键顺序错误: %s 位于 %d (上一个 %d): %s", k, idx, last, data)
		}
		last = idx
	}
}

func TestRecordRoundTrip(t *testing.T) {
	records := []Record{
		NewRecordFromCells([]string{"1", "Xuất khẩu", "Tổng", "T1/2024", "33,57", "-4,2", "33,57", "42,0"}),
		NewRecordFromCells([]string{"2", "Nhập khẩu <hàng hóa> & dịch vụ", "", "T1/2024", "31,86"}),
		NewRecordFromCells([]string{"003", "", "", "", "", "", "", ""}),
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var decoded []Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}

	if diff := cmp.Diff(records, decoded); diff != "" {
		t.Errorf("往返结果不一致 (-want +got):\n%s", diff)
	}
}

func TestRunResultLifecycle(t *testing.T) {
	r := NewRunResult("https://www.customs.gov.vn")
	if r.RunID == "" {
		t.Error("RunID不应为空")
	}
	if r.Status != RunStatusIdle {
		t.Errorf("Status = %v, want %v", r.Status, RunStatusIdle)
	}

	r.TotalPages = 2
	r.AddPage(1, []Record{{STT: "1"}, {STT: "2"}})
	r.AddPage(2, []Record{{STT: "3"}})
	r.Finish()

	if r.Status != RunStatusDone || !r.Status.IsTerminal() {
		t.Errorf("Status = %v, want done", r.Status)
	}
	if r.TotalRecords != 3 || r.PagesProcessed != 2 {
		t.Errorf("TotalRecords=%d PagesProcessed=%d, want 3/2", r.TotalRecords, r.PagesProcessed)
	}
	want := []PageStat{{Page: 1, Records: 2}, {Page: 2, Records: 1}}
	if diff := cmp.Diff(want, r.Pages); diff != "" {
		t.Errorf("分页统计不一致 (-want +got):\n%s", diff)
	}
}

func TestRunResultAbortKeepsStatus(t *testing.T) {
	r := NewRunResult("")
	r.AddPage(1, []Record{{STT: "1"}})
	r.Abort("第2页切换超时")
	r.Finish()

	if r.Status != RunStatusAborted {
		t.Errorf("Status = %v, want aborted", r.Status)
	}
	if r.TotalRecords != 1 {
		t.Errorf("终止后应保留已采集记录, got %d", r.TotalRecords)
	}

	data, err := r.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	var decoded RunResult
	if err := decoded.FromJSON(data); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if decoded.AbortReason != "第2页切换超时" || decoded.Status != RunStatusAborted {
		t.Errorf("反序列化结果不一致: %+v", decoded)
	}
}

func TestCliHeadersParse(t *testing.T) {
	h, err := CliHeaders{"User-Agent: MyBot/1.0", "Accept-Language:vi-VN"}.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if h.Get("User-Agent") != "MyBot/1.0" || h.Get("Accept-Language") != "vi-VN" {
		t.Errorf("解析结果错误: %v", h)
	}

	if _, err := (CliHeaders{"NoColon"}).Parse(); err == nil {
		t.Error("缺少冒号应返回错误")
	}
	if _, err := (CliHeaders{": value"}).Parse(); err == nil {
		t.Error("空名称应返回错误")
	}
}
