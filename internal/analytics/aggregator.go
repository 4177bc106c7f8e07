// Package analytics 记录扫描事件并基于事件表做统计。
//
// 按天分组统一使用 UTC：最近 7 天指 UTC 日历上的今天及之前 6 天，
// 只返回有事件的日期，按日期倒序。
package analytics

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/internal/model"
	"qrcontact-platform/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DailyWindowDays 按天统计的窗口，包含今天
	DailyWindowDays = 7
	// RecentLimit 单个联系人的最近事件条数
	RecentLimit = 10
	// GlobalRecentLimit 全局最近事件条数
	GlobalRecentLimit = 20
	// TopContactsLimit 扫描量排行条数
	TopContactsLimit = 10

	dateLayout = "2006-01-02"
)

// EventAttributes 记录事件时由调用方提供的属性。地理位置只接受调用方传入，服务端不做解析。
type EventAttributes struct {
	IPAddress string
	UserAgent string
	Referer   string
	Action    string
	Country   string
	City      string
	Latitude  *float64
	Longitude *float64
	// Timestamp 为 nil 时使用写入时间
	Timestamp *time.Time
}

// Stats 统计结果
type Stats struct {
	TotalScans     int64        `json:"totalScans"`
	UniqueVisitors int64        `json:"uniqueVisitors"`
	MobileScans    int64        `json:"mobileScans"`
	DesktopScans   int64        `json:"desktopScans"`
	TabletScans    int64        `json:"tabletScans"`
	UnknownScans   int64        `json:"unknownScans"`
	FirstScan      *time.Time   `json:"firstScan"`
	LastScan       *time.Time   `json:"lastScan"`
	RecentScans    []RecentScan `json:"recentScans"`
	DailyScans     []DailyCount `json:"dailyScans"`
}

// ContactStats 单个联系人的统计
type ContactStats struct {
	ContactID   string `json:"vcardId"`
	ContactName string `json:"vcardName"`
	Stats
}

// GlobalStats 全局统计
type GlobalStats struct {
	Stats
	TopContacts []TopContact `json:"topVcards"`
}

// RecentScan 最近事件
type RecentScan struct {
	ScanTime    time.Time `json:"scanTime"`
	Country     *string   `json:"country"`
	City        *string   `json:"city"`
	DeviceType  string    `json:"deviceType"`
	IPAddress   string    `json:"ipAddress"`
	Action      string    `json:"action"`
	ContactName string    `json:"vcardName,omitempty"`
}

// DailyCount 某一天的事件数
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TopContact 扫描量排行
type TopContact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ScanCount int64  `json:"scanCount"`
}

// Aggregator 扫描事件的写入与统计
type Aggregator struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewAggregator 创建 Aggregator
func NewAggregator(db *gorm.DB, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		db:     db,
		logger: logger.Named("analytics"),
		now:    time.Now,
	}
}

// RecordEvent 追加一条事件。contactID 可以是 model.GlobalContactID。
// 不去重，也不校验联系人是否存在。
func (a *Aggregator) RecordEvent(ctx context.Context, contactID string, attrs EventAttributes) (*model.ScanEvent, error) {
	action := strings.TrimSpace(attrs.Action)
	if action == "" {
		action = model.ActionScan
	}
	scanTime := a.now()
	if attrs.Timestamp != nil && !attrs.Timestamp.IsZero() {
		scanTime = *attrs.Timestamp
	}

	event := model.ScanEvent{
		ContactID:  contactID,
		ScanTime:   scanTime.UTC(),
		IPAddress:  attrs.IPAddress,
		UserAgent:  attrs.UserAgent,
		DeviceType: ClassifyDevice(attrs.UserAgent),
		Country:    optional(attrs.Country),
		City:       optional(attrs.City),
		Latitude:   attrs.Latitude,
		Longitude:  attrs.Longitude,
		Referer:    optional(attrs.Referer),
		Action:     action,
	}
	if err := a.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, apperr.Persistence("Failed to record scan event", err)
	}

	metrics.ScanEvents.WithLabelValues(event.Action, event.DeviceType).Inc()
	return &event, nil
}

// TryRecord 尽力记录事件，失败只写日志，不影响主流程
func (a *Aggregator) TryRecord(ctx context.Context, contactID string, attrs EventAttributes) {
	if _, err := a.RecordEvent(ctx, contactID, attrs); err != nil {
		a.logger.Warnw("记录事件失败", "contact_id", contactID, "action", attrs.Action, "error", err)
	}
}

// Summarize 单个联系人的统计，联系人不存在时返回 NotFound
func (a *Aggregator) Summarize(ctx context.Context, contactID string) (*ContactStats, error) {
	c, err := a.lookupContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	stats, err := a.summarize(ctx, contactID)
	if err != nil {
		return nil, err
	}

	recent, err := a.recent(ctx, contactID, RecentLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentScans = recent

	return &ContactStats{ContactID: c.ID, ContactName: c.Name, Stats: *stats}, nil
}

// SummarizeGlobal 全部事件的统计，附带跨联系人的最近事件和扫描量排行
func (a *Aggregator) SummarizeGlobal(ctx context.Context) (*GlobalStats, error) {
	stats, err := a.summarize(ctx, "")
	if err != nil {
		return nil, err
	}

	recent, err := a.recentWithNames(ctx, GlobalRecentLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentScans = recent

	top, err := a.topContacts(ctx, TopContactsLimit)
	if err != nil {
		return nil, err
	}

	return &GlobalStats{Stats: *stats, TopContacts: top}, nil
}

func (a *Aggregator) lookupContact(ctx context.Context, contactID string) (*model.Contact, error) {
	var c model.Contact
	err := a.db.WithContext(ctx).Select("id", "name").Where("id = ?", contactID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vCard not found")
		}
		return nil, apperr.Persistence("Failed to load vCard", err)
	}
	return &c, nil
}

// scoped contactID 为空表示不过滤
func (a *Aggregator) scoped(ctx context.Context, contactID string) *gorm.DB {
	q := a.db.WithContext(ctx).Model(&model.ScanEvent{})
	if contactID != "" {
		q = q.Where("contact_id = ?", contactID)
	}
	return q
}

func (a *Aggregator) summarize(ctx context.Context, contactID string) (*Stats, error) {
	var totals struct {
		TotalScans     int64
		UniqueVisitors int64
		MobileScans    int64
		DesktopScans   int64
		TabletScans    int64
		UnknownScans   int64
	}
	err := a.scoped(ctx, contactID).Select(`
		COUNT(*) AS total_scans,
		COUNT(DISTINCT ip_address) AS unique_visitors,
		COUNT(CASE WHEN device_type = 'mobile' THEN 1 END) AS mobile_scans,
		COUNT(CASE WHEN device_type = 'desktop' THEN 1 END) AS desktop_scans,
		COUNT(CASE WHEN device_type = 'tablet' THEN 1 END) AS tablet_scans,
		COUNT(CASE WHEN device_type = 'unknown' THEN 1 END) AS unknown_scans`).
		Scan(&totals).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to aggregate scans", err)
	}

	stats := &Stats{
		TotalScans:     totals.TotalScans,
		UniqueVisitors: totals.UniqueVisitors,
		MobileScans:    totals.MobileScans,
		DesktopScans:   totals.DesktopScans,
		TabletScans:    totals.TabletScans,
		UnknownScans:   totals.UnknownScans,
		RecentScans:    []RecentScan{},
		DailyScans:     []DailyCount{},
	}
	if stats.TotalScans == 0 {
		return stats, nil
	}

	if stats.FirstScan, err = a.edgeScanTime(ctx, contactID, "scan_time ASC, id ASC"); err != nil {
		return nil, err
	}
	if stats.LastScan, err = a.edgeScanTime(ctx, contactID, "scan_time DESC, id DESC"); err != nil {
		return nil, err
	}
	if stats.DailyScans, err = a.daily(ctx, contactID); err != nil {
		return nil, err
	}
	return stats, nil
}

// edgeScanTime 取最早或最晚的事件时间。没有用 MIN/MAX，部分驱动对聚合结果不做时间类型转换。
func (a *Aggregator) edgeScanTime(ctx context.Context, contactID, order string) (*time.Time, error) {
	var events []model.ScanEvent
	if err := a.scoped(ctx, contactID).Order(order).Limit(1).Find(&events).Error; err != nil {
		return nil, apperr.Persistence("Failed to load scan time", err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	t := events[0].ScanTime.UTC()
	return &t, nil
}

func (a *Aggregator) daily(ctx context.Context, contactID string) ([]DailyCount, error) {
	today := a.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(DailyWindowDays - 1))
	until := today.AddDate(0, 0, 1)

	var times []time.Time
	err := a.scoped(ctx, contactID).
		Where("scan_time >= ? AND scan_time < ?", from, until).
		Pluck("scan_time", &times).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to load daily scans", err)
	}

	counts := make(map[string]int64, DailyWindowDays)
	for _, t := range times {
		counts[t.UTC().Format(dateLayout)]++
	}

	daily := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		daily = append(daily, DailyCount{Date: date, Count: n})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date })
	return daily, nil
}

func (a *Aggregator) recent(ctx context.Context, contactID string, limit int) ([]RecentScan, error) {
	var events []model.ScanEvent
	err := a.scoped(ctx, contactID).Order("scan_time DESC, id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to load recent scans", err)
	}

	recent := make([]RecentScan, 0, len(events))
	for _, e := range events {
		recent = append(recent, RecentScan{
			ScanTime:   e.ScanTime.UTC(),
			Country:    e.Country,
			City:       e.City,
			DeviceType: e.DeviceType,
			IPAddress:  e.IPAddress,
			Action:     e.Action,
		})
	}
	return recent, nil
}

// recentWithNames 只包含属于某个联系人的事件
func (a *Aggregator) recentWithNames(ctx context.Context, limit int) ([]RecentScan, error) {
	var rows []struct {
		ScanTime    time.Time
		Country     *string
		City        *string
		DeviceType  string
		IPAddress   string
		Action      string
		ContactName string
	}
	err := a.db.WithContext(ctx).
		Table("scan_events AS s").
		Select("s.scan_time, s.country, s.city, s.device_type, s.ip_address, s.action, c.name AS contact_name").
		Joins("JOIN contacts c ON c.id = s.contact_id").
		Order("s.scan_time DESC, s.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to load recent scans", err)
	}

	recent := make([]RecentScan, 0, len(rows))
	for _, r := range rows {
		recent = append(recent, RecentScan{
			ScanTime:    r.ScanTime.UTC(),
			Country:     r.Country,
			City:        r.City,
			DeviceType:  r.DeviceType,
			IPAddress:   r.IPAddress,
			Action:      r.Action,
			ContactName: r.ContactName,
		})
	}
	return recent, nil
}

// topContacts 扫描量相同时按创建先后排序
func (a *Aggregator) topContacts(ctx context.Context, limit int) ([]TopContact, error) {
	top := []TopContact{}
	err := a.db.WithContext(ctx).
		Table("contacts AS c").
		Select("c.id, c.name, COUNT(s.id) AS scan_count").
		Joins("LEFT JOIN scan_events s ON s.contact_id = c.id").
		Group("c.id, c.name, c.created_at").
		Order("scan_count DESC, c.created_at ASC, c.id ASC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, apperr.Persistence("Failed to rank vCards", err)
	}
	return top, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
