package qrimage

import (
	"fmt"
	"strings"

	"qrcontact-platform/internal/apperr"
)

// Encoding 输出格式
type Encoding string

const (
	Raster   Encoding = "raster"
	Vector   Encoding = "vector"
	Document Encoding = "document"
	// VectorFallback 用于 EPS 等尚未支持的打印矢量格式，实际输出 SVG。
	// 这是一个已知的能力缺口，调用方会拿到 SVG 内容。
	VectorFallback Encoding = "vector-fallback"
)

// AllEncodings 按生成顺序列出全部格式
var AllEncodings = []Encoding{Raster, Vector, VectorFallback, Document}

var encodingInfo = map[Encoding]struct {
	format      string
	contentType string
}{
	Raster:         {"png", "image/png"},
	Vector:         {"svg", "image/svg+xml"},
	Document:       {"pdf", "application/pdf"},
	VectorFallback: {"eps", "application/postscript"},
}

// ContentType 传输时使用的 MIME 类型
func (e Encoding) ContentType() string {
	if info, ok := encodingInfo[e]; ok {
		return info.contentType
	}
	return "application/octet-stream"
}

// Format 对外使用的格式名（文件扩展名）
func (e Encoding) Format() string {
	if info, ok := encodingInfo[e]; ok {
		return info.format
	}
	return string(e)
}

// Valid 是否为已知格式
func (e Encoding) Valid() bool {
	_, ok := encodingInfo[e]
	return ok
}

// ParseFormat 把 png/svg/pdf/eps（或格式本名）转换为 Encoding
func ParseFormat(s string) (Encoding, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for enc, info := range encodingInfo {
		if s == info.format || s == string(enc) {
			return enc, nil
		}
	}
	return "", apperr.Validation("format", fmt.Sprintf("Invalid format: %q", s))
}

// ValidFormats 返回全部格式名
func ValidFormats() []string {
	formats := make([]string, 0, len(AllEncodings))
	for _, enc := range AllEncodings {
		formats = append(formats, enc.Format())
	}
	return formats
}
