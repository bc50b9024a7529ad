// Package media 处理商品图片规范化与媒体文件存储
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	CanvasWidth  = 450
	CanvasHeight = 563

	// MaxPixels 解码前按图片头声明的尺寸拒绝超大图片
	MaxPixels = 50_000_000
)

// ErrTooLarge 图片声明的像素数超过 MaxPixels
var ErrTooLarge = errors.New("image exceeds pixel limit")

// Normalizer 将任意尺寸的图片缩放并居中到白底 450x563 画布，输出 PNG
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize 返回新文件名与 PNG 数据；解码失败时返回错误，由调用方决定回退
func (n *Normalizer) Normalize(name string, data []byte) (string, []byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", nil, fmt.Errorf("decode %s: %dx%d: %w", name, cfg.Width, cfg.Height, ErrTooLarge)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", name, err)
	}

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return "", nil, fmt.Errorf("decode %s: empty image", name)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	w, h := FitWithin(sb.Dx(), sb.Dy(), CanvasWidth, CanvasHeight)
	x := (CanvasWidth - w) / 2
	y := (CanvasHeight - h) / 2
	dst := image.Rect(x, y, x+w, y+h)

	// Over 合成即把透明与调色板透明色压平到白底
	if w == sb.Dx() && h == sb.Dy() {
		xdraw.Draw(canvas, dst, src, sb.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(canvas, dst, src, sb, xdraw.Over, nil)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, canvas); err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return NormalizedName(name), buf.Bytes(), nil
}

// FitWithin 计算等比缩小到 maxW x maxH 以内的尺寸，不放大
func FitWithin(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}
	var w, h int
	if srcW*maxH <= srcH*maxW {
		h = maxH
		w = (2*srcW*maxH + srcH) / (2 * srcH)
	} else {
		w = maxW
		h = (2*srcH*maxW + srcW) / (2 * srcW)
	}
	return max(w, 1), max(h, 1)
}

// NormalizedName 生成 <原文件名>_450x563.png
func NormalizedName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return fmt.Sprintf("%s_%dx%d.png", base, CanvasWidth, CanvasHeight)
}
