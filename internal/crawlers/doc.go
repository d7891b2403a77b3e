// Package crawlers 提供海关统计门户的分页导航和数据表提取
//
// # 概述
//
// 门户把统计数据分页展示在一个表格中,分页由一个下拉框(默认 #slPages)控制,
// 下拉框的值为 (页码-1)*20。抓取流程严格串行: 翻页会修改页面上唯一的分页状态,
// 不能并发。
//
// # 核心组件
//
// ## Portal
//
// 门户页面的能力接口,屏蔽具体的渲染环境:
//
//   - RodPortal: 通过go-rod驱动真实Chrome
//   - SnapshotPortal: 通过Colly的file://传输读取已保存的HTML快照,用于离线重放
//
// ## Navigator
//
// 设置分页值、触发change,然后每100ms轮询一次(最多50次)等待下拉框的值发生变化,
// 确认后再等待300ms让表格重新渲染。
//
//	nav := NewNavigator(portal, DefaultTiming())
//	ok, err := nav.GoToPage(ctx, 3) // 分页值设为 "40"
//
// 找不到下拉框返回ErrPaginationNotFound;等待超时返回(false, nil)。
//
// ## Extractor
//
// 读取当前数据表,跳过表头行,按列位置映射为models.Record。
// STT列不是整数的行被静默丢弃;数据表缺失只记录警告。
//
//	records, err := NewExtractor(portal).Extract(ctx)
package crawlers
