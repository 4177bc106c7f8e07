package qrimage

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"

	"qrcontact-platform/internal/apperr"
)

// Level 纠错等级
type Level string

const (
	LevelLow      Level = "L"
	LevelMedium   Level = "M"
	LevelQuartile Level = "Q"
	LevelHigh     Level = "H"
)

// 各纠错等级的最大容量（字符数），取自 QR 版本 40 的字节模式容量
var maxLengths = map[Level]int{
	LevelLow:      2953,
	LevelMedium:   2331,
	LevelQuartile: 1663,
	LevelHigh:     1273,
}

const (
	DefaultWidth  = 300
	DefaultMargin = 4
	DefaultLevel  = LevelMedium
	DefaultDark   = "#000000"
	DefaultLight  = "#FFFFFF"

	// MaxWidth 输出宽度上限（像素 / pt）
	MaxWidth = 4000

	// MaxMargin 静区上限（模块数）
	MaxMargin = 40

	// documentPadding PDF 页面四周留白（pt）
	documentPadding = 20
)

// ParseLevel 解析纠错等级，大小写不敏感
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := maxLengths[l]; !ok {
		return "", apperr.Validation("errorCorrectionLevel", fmt.Sprintf("Invalid error correction level: %q", s))
	}
	return l, nil
}

// MaxLength 返回指定纠错等级下的最大字符数，未知等级按 M 处理
func MaxLength(level Level) int {
	if n, ok := maxLengths[level]; ok {
		return n
	}
	return maxLengths[DefaultLevel]
}

// ValidateLength 检查内容长度是否在容量以内。空内容视为不合法。
// 这只是一个建议性检查，Produce 并不会调用它。
func ValidateLength(payload string, level Level) bool {
	if payload == "" {
		return false
	}
	return utf8.RuneCountInString(payload) <= MaxLength(level)
}

// Options 渲染参数，零值字段会使用默认值
type Options struct {
	// Width 输出宽度（像素，PDF 中为 pt），默认 300，最大 MaxWidth
	Width int
	// Margin 静区宽度（模块数），默认 4，范围 0..MaxMargin；NoMargin 为 true 时使用 0
	Margin int
	// NoMargin 显式要求无静区
	NoMargin bool
	// Level 纠错等级，默认 M
	Level Level
	// Dark 前景色，#RRGGBB 或 #RGB，默认黑色
	Dark string
	// Light 背景色，默认白色
	Light string
}

// DefaultOptions 默认渲染参数
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Margin: DefaultMargin,
		Level:  DefaultLevel,
		Dark:   DefaultDark,
		Light:  DefaultLight,
	}
}

// merge 用 base 填充 o 中未设置的字段
func (o Options) merge(base Options) Options {
	if o.Width <= 0 {
		o.Width = base.Width
	}
	if o.Margin <= 0 && !o.NoMargin {
		o.Margin = base.Margin
	}
	if o.NoMargin {
		o.Margin = 0
	}
	if o.Level == "" {
		o.Level = base.Level
	}
	if o.Dark == "" {
		o.Dark = base.Dark
	}
	if o.Light == "" {
		o.Light = base.Light
	}
	return o
}

// normalize 校验参数并把颜色统一为 #RRGGBB
func (o Options) normalize() (Options, error) {
	if _, err := ParseLevel(string(o.Level)); err != nil {
		return o, err
	}
	if o.Width > MaxWidth {
		return o, apperr.Validation("width", fmt.Sprintf("Width must not exceed %d", MaxWidth))
	}
	if o.Margin < 0 || o.Margin > MaxMargin {
		return o, apperr.Validation("margin", fmt.Sprintf("Margin must be between 0 and %d", MaxMargin))
	}
	dark, err := parseHexColor(o.Dark)
	if err != nil {
		return o, apperr.Validation("dark", err.Error())
	}
	light, err := parseHexColor(o.Light)
	if err != nil {
		return o, apperr.Validation("light", err.Error())
	}
	o.Dark, o.Light = hexString(dark), hexString(light)
	return o, nil
}

// parseHexColor 解析 #RRGGBB / #RGB
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func hexString(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
