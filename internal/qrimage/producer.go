// Package qrimage 把任意文本渲染成二维码图片：PNG、SVG，以及嵌入 PNG 的 PDF。
package qrimage

import (
	"bytes"
	"fmt"

	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/pkg/metrics"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// RenderFunc 生成单一格式的输出
type RenderFunc func(payload string, opts Options) ([]byte, error)

// Producer 负责生成各种格式的二维码
type Producer struct {
	encoder   SymbolEncoder
	renderers map[Encoding]RenderFunc
	defaults  Options
	logger    *zap.SugaredLogger
}

// Option 配置 Producer
type Option func(*Producer)

// WithEncoder 替换二维码符号编码器
func WithEncoder(enc SymbolEncoder) Option {
	return func(p *Producer) { p.encoder = enc }
}

// WithRenderer 替换某一格式的渲染函数
func WithRenderer(enc Encoding, fn RenderFunc) Option {
	return func(p *Producer) { p.renderers[enc] = fn }
}

// WithDefaults 设置调用方未指定参数时使用的默认值
func WithDefaults(opts Options) Option {
	return func(p *Producer) { p.defaults = opts.merge(DefaultOptions()) }
}

// NewProducer 创建 Producer
func NewProducer(logger *zap.SugaredLogger, opts ...Option) *Producer {
	p := &Producer{
		encoder:   skipEncoder{},
		renderers: make(map[Encoding]RenderFunc),
		defaults:  DefaultOptions(),
		logger:    logger.Named("qr_producer"),
	}
	p.renderers[Raster] = p.renderRaster
	p.renderers[Vector] = p.renderVector
	p.renderers[Document] = p.renderDocument
	p.renderers[VectorFallback] = p.renderVectorFallback

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Defaults 返回当前默认参数
func (p *Producer) Defaults() Options {
	return p.defaults
}

// Produce 生成单一格式。参数非法返回校验错误，渲染失败返回编码错误。
func (p *Producer) Produce(payload string, enc Encoding, opts Options) ([]byte, error) {
	render, ok := p.renderers[enc]
	if !ok {
		return nil, apperr.Validation("format", fmt.Sprintf("Unsupported format: %q", enc))
	}
	opts = opts.merge(p.defaults)
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	out, err := render(payload, opts)
	if err != nil {
		metrics.QRRenders.WithLabelValues(string(enc), "error").Inc()
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, apperr.Encoding(fmt.Sprintf("Failed to generate %s QR code", enc.Format()), err)
	}
	metrics.QRRenders.WithLabelValues(string(enc), "ok").Inc()
	return out, nil
}

// ProduceMany 逐个生成多种格式。单个格式失败只记录日志，结果中对应值为 nil。
func (p *Producer) ProduceMany(payload string, encodings []Encoding, opts Options) map[Encoding][]byte {
	results := make(map[Encoding][]byte, len(encodings))
	for _, enc := range encodings {
		out, err := p.Produce(payload, enc, opts)
		if err != nil {
			p.logger.Warnw("生成二维码失败", "encoding", enc, "error", err)
			results[enc] = nil
			continue
		}
		results[enc] = out
	}
	return results
}

func (p *Producer) renderRaster(payload string, opts Options) ([]byte, error) {
	matrix, err := p.encoder.Encode(payload, opts.Level)
	if err != nil {
		return nil, err
	}
	return rasterize(matrix, opts)
}

func (p *Producer) renderVector(payload string, opts Options) ([]byte, error) {
	matrix, err := p.encoder.Encode(payload, opts.Level)
	if err != nil {
		return nil, err
	}
	return vectorize(matrix, opts)
}

func (p *Producer) renderVectorFallback(payload string, opts Options) ([]byte, error) {
	return p.renderers[Vector](payload, opts)
}

// renderDocument 先生成 PNG，再放进一个比图片大 2*documentPadding 的单页 PDF
func (p *Producer) renderDocument(payload string, opts Options) ([]byte, error) {
	png, err := p.renderers[Raster](payload, opts)
	if err != nil {
		return nil, fmt.Errorf("raster step: %w", err)
	}
	out, err := wrapDocument(png, float64(opts.Width))
	if err != nil {
		return nil, fmt.Errorf("layout step: %w", err)
	}
	return out, nil
}

func wrapDocument(png []byte, width float64) ([]byte, error) {
	side := width + 2*documentPadding
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: side, Ht: side},
	})
	pdf.SetMargins(documentPadding, documentPadding, documentPadding)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(png))
	pdf.ImageOptions("qr", documentPadding, documentPadding, width, width, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
