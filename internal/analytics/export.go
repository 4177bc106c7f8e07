package analytics

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/internal/model"
)

// CSVHeader 导出文件的表头
const CSVHeader = "Scan Time,IP Address,User Agent,Country,City,Latitude,Longitude,Referer,Device Type,Action"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Export 导出结果
type Export struct {
	Filename string
	Content  string
}

// ExportCSV 按写入顺序导出联系人的全部事件，所有字段加双引号，缺失字段输出为 ""
func (a *Aggregator) ExportCSV(ctx context.Context, contactID string) (*Export, error) {
	c, err := a.lookupContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	var events []model.ScanEvent
	if err := a.scoped(ctx, contactID).Order("id ASC").Find(&events).Error; err != nil {
		return nil, apperr.Persistence("Failed to load scans", err)
	}

	return &Export{
		Filename: ExportFilename(c.Name, a.now()),
		Content:  renderCSV(events),
	}, nil
}

// ExportFilename analytics_<姓名>_<UTC 日期>.csv，姓名中的空白替换为下划线
func ExportFilename(name string, at time.Time) string {
	return "analytics_" + whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_") + "_" + at.UTC().Format(dateLayout) + ".csv"
}

func renderCSV(events []model.ScanEvent) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	for _, e := range events {
		b.WriteByte('\n')
		fields := []string{
			e.ScanTime.UTC().Format(time.RFC3339),
			e.IPAddress,
			e.UserAgent,
			deref(e.Country),
			deref(e.City),
			formatFloat(e.Latitude),
			formatFloat(e.Longitude),
			deref(e.Referer),
			e.DeviceType,
			e.Action,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(f))
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
