package qrimage

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"qrcontact-platform/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePayload = "BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nN:Doe;John;;;\nEND:VCARD"

func newTestProducer(opts ...Option) *Producer {
	return NewProducer(zap.NewNop().Sugar(), opts...)
}

type failingEncoder struct{}

func (failingEncoder) Encode(string, Level) ([][]bool, error) {
	return nil, errors.New("symbol encoder exploded")
}

func TestProduce_Raster(t *testing.T) {
	p := newTestProducer()

	out, err := p.Produce(samplePayload, Raster, Options{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultWidth, img.Bounds().Dy())

	// 左上角位于静区内，应为背景色
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestProduce_RasterCustomWidthAndColors(t *testing.T) {
	p := newTestProducer()

	out, err := p.Produce(samplePayload, Raster, Options{Width: 120, NoMargin: true, Dark: "#f00", Light: "#00FF00"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())

	// 无静区时左上角是定位图案的深色模块
	r, g, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
}

func TestProduce_Vector(t *testing.T) {
	p := newTestProducer()

	out, err := p.Produce(samplePayload, Vector, Options{})
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "fill:#000000")
	assert.Contains(t, svg, "fill:#FFFFFF")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(svg), "</svg>"))
}

func TestProduce_VectorFallbackReturnsSVG(t *testing.T) {
	p := newTestProducer()

	vector, err := p.Produce(samplePayload, Vector, Options{})
	require.NoError(t, err)
	fallback, err := p.Produce(samplePayload, VectorFallback, Options{})
	require.NoError(t, err)

	assert.Equal(t, vector, fallback)
	assert.Equal(t, "application/postscript", VectorFallback.ContentType())
}

func TestProduce_Document(t *testing.T) {
	p := newTestProducer()

	out, err := p.Produce(samplePayload, Document, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/Image")
}

func TestProduce_DocumentPropagatesRasterFailure(t *testing.T) {
	p := newTestProducer(WithEncoder(failingEncoder{}))

	_, err := p.Produce(samplePayload, Document, Options{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindEncoding))
	assert.Contains(t, err.Error(), "symbol encoder exploded")
}

func TestProduce_InvalidOptions(t *testing.T) {
	p := newTestProducer()

	_, err := p.Produce(samplePayload, Raster, Options{Level: "X"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = p.Produce(samplePayload, Raster, Options{Dark: "black"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = p.Produce(samplePayload, Encoding("gif"), Options{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestProduce_SizeLimits(t *testing.T) {
	p := newTestProducer()

	_, err := p.Produce(samplePayload, Raster, Options{Width: MaxWidth + 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	for _, margin := range []int{MaxMargin + 1, 1 << 30} {
		assert.NotPanics(t, func() {
			_, err = p.Produce(samplePayload, Raster, Options{Margin: margin})
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "margin %d", margin)
	}

	out, err := p.Produce(samplePayload, Raster, Options{Width: MaxWidth, Margin: MaxMargin})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, img.Bounds().Dx())
}

func TestProduce_VectorNormalizesColors(t *testing.T) {
	p := newTestProducer()

	out, err := p.Produce(samplePayload, Vector, Options{Dark: "000000", Light: "#fff"})
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, "fill:#000000")
	assert.Contains(t, svg, "fill:#FFFFFF")
	assert.NotContains(t, svg, "fill:000000")
}

func TestProduce_PayloadTooLargeIsEncodingError(t *testing.T) {
	p := newTestProducer()

	_, err := p.Produce(strings.Repeat("x", 5000), Raster, Options{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindEncoding))
}

func TestProduceMany_AllSucceed(t *testing.T) {
	p := newTestProducer()

	results := p.ProduceMany(samplePayload, []Encoding{Raster, Vector}, Options{})
	require.Len(t, results, 2)
	assert.NotNil(t, results[Raster])
	assert.NotNil(t, results[Vector])
}

func TestProduceMany_IsolatesFailures(t *testing.T) {
	p := newTestProducer(WithRenderer(Vector, func(string, Options) ([]byte, error) {
		return nil, errors.New("vector writer unavailable")
	}))

	results := p.ProduceMany(samplePayload, []Encoding{Raster, Vector, VectorFallback}, Options{})
	require.Len(t, results, 3)
	assert.NotNil(t, results[Raster])

	v, ok := results[Vector]
	assert.True(t, ok)
	assert.Nil(t, v)

	// 回退格式依赖矢量渲染，同样失败
	assert.Nil(t, results[VectorFallback])
}

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength(strings.Repeat("a", 2331), LevelMedium))
	assert.False(t, ValidateLength(strings.Repeat("a", 2332), LevelMedium))
	assert.True(t, ValidateLength(strings.Repeat("a", 2953), LevelLow))
	assert.False(t, ValidateLength(strings.Repeat("a", 1664), LevelQuartile))
	assert.True(t, ValidateLength(strings.Repeat("a", 1273), LevelHigh))
	assert.False(t, ValidateLength(strings.Repeat("a", 1274), LevelHigh))
	assert.False(t, ValidateLength("", LevelMedium))
	// 未知等级按 M 处理
	assert.False(t, ValidateLength(strings.Repeat("a", 2332), Level("Z")))
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Encoding{
		"png":             Raster,
		"SVG":             Vector,
		"pdf":             Document,
		"eps":             VectorFallback,
		"raster":          Raster,
		"vector-fallback": VectorFallback,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("gif")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestEncoding_ContentTypes(t *testing.T) {
	assert.Equal(t, "image/png", Raster.ContentType())
	assert.Equal(t, "image/svg+xml", Vector.ContentType())
	assert.Equal(t, "application/pdf", Document.ContentType())
	assert.Equal(t, []string{"png", "svg", "eps", "pdf"}, ValidFormats())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" q ")
	require.NoError(t, err)
	assert.Equal(t, LevelQuartile, l)

	_, err = ParseLevel("medium")
	assert.Error(t, err)
}
