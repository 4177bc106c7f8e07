package qrimage

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	svg "github.com/ajstarks/svgo"
	goqrcode "github.com/skip2/go-qrcode"
)

// SymbolEncoder 把文本编码成二维码模块矩阵（不含静区），true 表示深色模块
type SymbolEncoder interface {
	Encode(payload string, level Level) ([][]bool, error)
}

var errEmptySymbol = errors.New("encoder returned an empty symbol")

var recoveryLevels = map[Level]goqrcode.RecoveryLevel{
	LevelLow:      goqrcode.Low,
	LevelMedium:   goqrcode.Medium,
	LevelQuartile: goqrcode.High,
	LevelHigh:     goqrcode.Highest,
}

type skipEncoder struct{}

func (skipEncoder) Encode(payload string, level Level) ([][]bool, error) {
	rl, ok := recoveryLevels[level]
	if !ok {
		rl = goqrcode.Medium
	}
	q, err := goqrcode.New(payload, rl)
	if err != nil {
		return nil, err
	}
	// 静区由 Options.Margin 控制
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// rasterize 输出 Width x Width 的 PNG；宽度小于模块总数时按每模块 1 像素输出
func rasterize(matrix [][]bool, opts Options) ([]byte, error) {
	size := len(matrix)
	if size == 0 {
		return nil, errEmptySymbol
	}
	dark, err := parseHexColor(opts.Dark)
	if err != nil {
		return nil, err
	}
	light, err := parseHexColor(opts.Light)
	if err != nil {
		return nil, err
	}

	total := size + 2*opts.Margin
	width := opts.Width
	if width < total {
		width = total
	}

	img := image.NewRGBA(image.Rect(0, 0, width, width))
	for y := 0; y < width; y++ {
		my := y*total/width - opts.Margin
		for x := 0; x < width; x++ {
			mx := x*total/width - opts.Margin
			if my >= 0 && my < size && mx >= 0 && mx < size && matrix[my][mx] {
				img.SetRGBA(x, y, dark)
			} else {
				img.SetRGBA(x, y, light)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// vectorize 每个深色模块输出一个 1x1 的矩形，viewBox 以模块为单位
func vectorize(matrix [][]bool, opts Options) ([]byte, error) {
	size := len(matrix)
	if size == 0 {
		return nil, errEmptySymbol
	}
	total := size + 2*opts.Margin

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(opts.Width, opts.Width, 0, 0, total, total)
	canvas.Rect(0, 0, total, total, "fill:"+opts.Light)
	canvas.Gstyle("fill:" + opts.Dark + ";shape-rendering:crispEdges")
	for y, row := range matrix {
		for x, on := range row {
			if on {
				canvas.Rect(x+opts.Margin, y+opts.Margin, 1, 1)
			}
		}
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}
