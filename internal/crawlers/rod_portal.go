package crawlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/RecoveryAshes/customsvn/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrBrowserUnavailable 浏览器无法启动或连接
var ErrBrowserUnavailable = errors.New("浏览器不可用")

// RodConfig 浏览器门户配置
type RodConfig struct {
	URL                string
	Headless           bool
	BrowserBin         string        // 浏览器可执行文件路径,为空时由launcher自动下载/查找
	NavigateTimeout    time.Duration // 打开入口页面的超时
	PaginationSelector string
	TableSelector      string
	SnapshotDir        string // 非空时每页保存一份HTML快照
	Headers            models.HeaderProvider
}

// RodPortal 基于go-rod驱动真实浏览器的门户实现
type RodPortal struct {
	config  RodConfig
	browser *rod.Browser
	page    *rod.Page
}

// NewRodPortal 创建浏览器门户(尚未启动浏览器)
func NewRodPortal(config RodConfig) *RodPortal {
	if config.PaginationSelector == "" {
		config.PaginationSelector = DefaultPaginationSelector
	}
	if config.TableSelector == "" {
		config.TableSelector = DefaultTableSelector
	}
	if config.NavigateTimeout <= 0 {
		config.NavigateTimeout = 60 * time.Second
	}
	return &RodPortal{config: config}
}

// Open 启动浏览器并打开门户入口页面
func (rp *RodPortal) Open(ctx context.Context) (err error) {
	// rod内部的Must*调用可能panic,统一转换为错误
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBrowserUnavailable, r)
		}
	}()

	l := launcher.New().Context(ctx).Headless(rp.config.Headless)
	if rp.config.BrowserBin != "" {
		l = l.Bin(rp.config.BrowserBin)
	}
	// 门户偶尔使用过期证书
	l = l.Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: 启动浏览器失败: %v", ErrBrowserUnavailable, err)
	}

	rp.browser = rod.New().ControlURL(controlURL)
	if err := rp.browser.Connect(); err != nil {
		return fmt.Errorf("%w: 连接浏览器失败: %v", ErrBrowserUnavailable, err)
	}
	utils.Debugf("浏览器已启动: %s", controlURL)

	page, err := rp.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("%w: 创建标签页失败: %v", ErrBrowserUnavailable, err)
	}
	rp.page = page

	if err := rp.applyHeaders(); err != nil {
		return err
	}

	utils.Infof("🌐 打开门户页面: %s", rp.config.URL)
	p := rp.page.Context(ctx).Timeout(rp.config.NavigateTimeout)
	if err := p.Navigate(rp.config.URL); err != nil {
		return fmt.Errorf("打开门户页面失败: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("等待门户页面加载失败: %w", err)
	}
	return nil
}

// applyHeaders 将HeaderProvider给出的头部应用到标签页
func (rp *RodPortal) applyHeaders() error {
	if rp.config.Headers == nil {
		return nil
	}
	headers, err := rp.config.Headers.GetHeaders()
	if err != nil {
		return fmt.Errorf("获取HTTP头部失败: %w", err)
	}

	dict := make([]string, 0, len(headers)*2)
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		if name == "User-Agent" {
			if err := rp.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: values[0]}); err != nil {
				return fmt.Errorf("设置User-Agent失败: %w", err)
			}
			continue
		}
		dict = append(dict, name, values[0])
	}
	if len(dict) > 0 {
		if _, err := rp.page.SetExtraHeaders(dict); err != nil {
			return fmt.Errorf("设置额外HTTP头部失败: %w", err)
		}
	}
	utils.Debugf("已应用%d个HTTP头部", len(headers))
	return nil
}

func (rp *RodPortal) eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	if rp.page == nil {
		return nil, fmt.Errorf("%w: 门户尚未打开", ErrBrowserUnavailable)
	}
	return rp.page.Context(ctx).Eval(js, args...)
}

// PaginationOptions 实现Portal接口
func (rp *RodPortal) PaginationOptions(ctx context.Context) ([]string, error) {
	res, err := rp.eval(ctx, `(sel) => {
		const s = document.querySelector(sel);
		return s ? Array.from(s.options).map(o => o.value) : null;
	}`, rp.config.PaginationSelector)
	if err != nil {
		return nil, fmt.Errorf("读取分页选项失败: %w", err)
	}
	if res.Value.Nil() {
		return nil, ErrPaginationNotFound
	}

	arr := res.Value.Arr()
	options := make([]string, 0, len(arr))
	for _, v := range arr {
		options = append(options, v.Str())
	}
	return options, nil
}

// SelectionValue 实现Portal接口
func (rp *RodPortal) SelectionValue(ctx context.Context) (string, error) {
	res, err := rp.eval(ctx, `(sel) => {
		const s = document.querySelector(sel);
		return s ? s.value : null;
	}`, rp.config.PaginationSelector)
	if err != nil {
		return "", fmt.Errorf("读取分页值失败: %w", err)
	}
	if res.Value.Nil() {
		return "", ErrPaginationNotFound
	}
	return res.Value.Str(), nil
}

// SetPageSelection 实现Portal接口
func (rp *RodPortal) SetPageSelection(ctx context.Context, value string) error {
	res, err := rp.eval(ctx, `(sel, v) => {
		const s = document.querySelector(sel);
		if (!s) return false;
		s.value = v;
		return true;
	}`, rp.config.PaginationSelector, value)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return ErrPaginationNotFound
	}
	return nil
}

// TriggerSelectionChanged 实现Portal接口
// 优先调用页面自带的onchange,否则派发change事件。
func (rp *RodPortal) TriggerSelectionChanged(ctx context.Context) error {
	res, err := rp.eval(ctx, `(sel) => {
		const s = document.querySelector(sel);
		if (!s) return false;
		if (s.onchange) s.onchange();
		else s.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`, rp.config.PaginationSelector)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return ErrPaginationNotFound
	}
	return nil
}

// ReadTableRows 实现Portal接口
// 单元格文本直接取浏览器的innerText,<br>等换行与页面显示一致。
func (rp *RodPortal) ReadTableRows(ctx context.Context) ([][]string, error) {
	res, err := rp.eval(ctx, `(sel) => {
		const t = document.querySelector(sel);
		if (!t) return null;
		return Array.from(t.querySelectorAll('tr')).map(tr =>
			Array.from(tr.querySelectorAll('td')).map(td => td.innerText.trim()));
	}`, rp.config.TableSelector)
	if err != nil {
		return nil, fmt.Errorf("读取数据表失败: %w", err)
	}
	if res.Value.Nil() {
		return nil, ErrTableNotFound
	}

	trs := res.Value.Arr()
	rows := make([][]string, 0, len(trs))
	for _, tr := range trs {
		tds := tr.Arr()
		cells := make([]string, 0, len(tds))
		for _, td := range tds {
			cells = append(cells, td.Str())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// Snapshot 实现Snapshotter接口,将当前页面HTML保存到SnapshotDir
// 保存前把下拉框的当前选项写回selected属性,离线重放时据此还原分页值。
func (rp *RodPortal) Snapshot(ctx context.Context, page int) (string, error) {
	if rp.config.SnapshotDir == "" {
		return "", nil
	}
	res, err := rp.eval(ctx, `(sel) => {
		const s = document.querySelector(sel);
		if (s) {
			for (const o of s.options) {
				if (o.selected) o.setAttribute('selected', 'selected');
				else o.removeAttribute('selected');
			}
		}
		return document.documentElement.outerHTML;
	}`, rp.config.PaginationSelector)
	if err != nil {
		return "", fmt.Errorf("读取页面HTML失败: %w", err)
	}

	if err := os.MkdirAll(rp.config.SnapshotDir, 0755); err != nil {
		return "", fmt.Errorf("创建快照目录失败: %w", err)
	}
	path := filepath.Join(rp.config.SnapshotDir, SnapshotFileName(page))
	if err := os.WriteFile(path, []byte("<!DOCTYPE html>\n"+res.Value.Str()), 0644); err != nil {
		return "", fmt.Errorf("写入快照失败: %w", err)
	}
	return path, nil
}

// Close 关闭浏览器
func (rp *RodPortal) Close() error {
	if rp.browser == nil {
		return nil
	}
	err := rp.browser.Close()
	rp.browser, rp.page = nil, nil
	utils.Debugf("浏览器已关闭")
	return err
}
