package model

import (
	"time"
)

// GlobalContactID 不属于任何联系人的事件（例如自定义二维码下载）使用的占位 ID
const GlobalContactID = "custom_qr"

// 常用的事件动作
const (
	ActionScan               = "scan"
	ActionGenerated          = "generated"
	ActionVCardDownloaded    = "vcard_downloaded"
	ActionQRDownloaded       = "qr_downloaded"
	ActionCustomQRDownloaded = "custom_qr_downloaded"
)

// 设备类型
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// ScanEvent 扫描/下载/生成事件，只追加不更新
type ScanEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ContactID  string    `gorm:"size:36;not null;index" json:"contactId"`
	ScanTime   time.Time `gorm:"not null;index" json:"scanTime"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"type:text" json:"userAgent"`
	DeviceType string    `gorm:"size:16;index" json:"deviceType"`
	Country    *string   `gorm:"size:100" json:"country"`
	City       *string   `gorm:"size:100" json:"city"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Referer    *string   `gorm:"type:text" json:"referer"`
	Action     string    `gorm:"size:64;default:scan" json:"action"`
}

// TableName 指定表名
func (ScanEvent) TableName() string {
	return "scan_events"
}
