package analytics

import (
	"regexp"

	"qrcontact-platform/internal/model"
)

// 按顺序匹配：先手机，再平板，最后桌面
var devicePatterns = []struct {
	device  string
	pattern *regexp.Regexp
}{
	{model.DeviceMobile, regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPod|BlackBerry|IEMobile|Opera Mini`)},
	{model.DeviceTablet, regexp.MustCompile(`(?i)Tablet|iPad|PlayBook|Silk`)},
	{model.DeviceDesktop, regexp.MustCompile(`(?i)Windows|Macintosh|Linux|X11`)},
}

// ClassifyDevice 根据 User-Agent 判断设备类型，结果总是 mobile/tablet/desktop/unknown 之一
func ClassifyDevice(userAgent string) string {
	for _, p := range devicePatterns {
		if p.pattern.MatchString(userAgent) {
			return p.device
		}
	}
	return model.DeviceUnknown
}
