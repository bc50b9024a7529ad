package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withDimensions 改写 PNG IHDR 中的宽高并重算 CRC，像素数据保持不变
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))
	out := bytes.Clone(data)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return img
}

func assertRGB(t *testing.T, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	assert.Equal(t, want, got, "pixel (%d,%d)", x, y)
}

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{"tall source", 1000, 2000, 282, 563},
		{"wide source", 2000, 500, 450, 113},
		{"same aspect", 900, 1126, 450, 563},
		{"never upscales", 100, 50, 100, 50},
		{"thin line", 5000, 1, 450, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.srcW, tt.srcH, CanvasWidth, CanvasHeight)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer()

	t.Run("tall image is scaled and centered", func(t *testing.T) {
		name, out, err := n.Normalize("products/shirt.jpg", encodePNG(t, solid(1000, 2000, red)))
		require.NoError(t, err)
		assert.Equal(t, "shirt_450x563.png", name)

		img := decode(t, out)
		assert.Equal(t, image.Rect(0, 0, CanvasWidth, CanvasHeight), img.Bounds())
		// 282 像素宽，x 偏移 (450-282)/2 = 84
		assertRGB(t, img, 83, 281, white)
		assertRGB(t, img, 84+141, 281, red)
		assertRGB(t, img, 84+282, 281, white)
		assertRGB(t, img, 225, 0, red)
		assertRGB(t, img, 225, 562, red)
	})

	t.Run("small image is not upscaled", func(t *testing.T) {
		_, out, err := n.Normalize("logo.png", encodePNG(t, solid(100, 50, blue)))
		require.NoError(t, err)

		img := decode(t, out)
		// 偏移 (175, 256)
		assertRGB(t, img, 175, 256, blue)
		assertRGB(t, img, 274, 305, blue)
		assertRGB(t, img, 174, 256, white)
		assertRGB(t, img, 275, 306, white)
	})

	t.Run("transparency is flattened onto white", func(t *testing.T) {
		transparent := image.NewNRGBA(image.Rect(0, 0, 40, 40))
		_, out, err := n.Normalize("ghost.png", encodePNG(t, transparent))
		require.NoError(t, err)
		assertRGB(t, decode(t, out), 225, 281, white)
	})

	t.Run("palette image", func(t *testing.T) {
		pal := image.NewPaletted(image.Rect(0, 0, 20, 20), color.Palette{color.Transparent, blue})
		for x := 0; x < 10; x++ {
			for y := 0; y < 20; y++ {
				pal.SetColorIndex(x, y, 1)
			}
		}
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, pal, nil))

		name, out, err := n.Normalize("dots.gif", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "dots_450x563.png", name)

		img := decode(t, out)
		// 偏移 (215, 271)
		assertRGB(t, img, 215, 271, blue)
		assertRGB(t, img, 230, 271, white)
	})

	t.Run("corrupt input is an error", func(t *testing.T) {
		_, _, err := n.Normalize("broken.jpg", []byte("not an image"))
		assert.Error(t, err)
	})

	t.Run("oversized header is rejected before decoding", func(t *testing.T) {
		forged := withDimensions(t, encodePNG(t, solid(2, 2, red)), 20000, 20000)
		cfg, err := png.DecodeConfig(bytes.NewReader(forged))
		require.NoError(t, err)
		require.Equal(t, 20000, cfg.Width)

		_, out, err := n.Normalize("bomb.png", forged)
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.Nil(t, out)
	})

	t.Run("limit counts pixels not sides", func(t *testing.T) {
		wide := withDimensions(t, encodePNG(t, solid(2, 2, red)), 60000, 1000)
		_, _, err := n.Normalize("banner.png", wide)
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestNormalizedName(t *testing.T) {
	assert.Equal(t, "shirt.photo_450x563.png", NormalizedName("shirt.photo.JPG"))
	assert.Equal(t, "image_450x563.png", NormalizedName(".jpg"))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s := NewStore(fs, "media", "/media")

	first, err := s.Save(ctx, "products", "shirt_450x563.png", []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "products/shirt_450x563.png", first)

	second, err := s.Save(ctx, "products", "shirt_450x563.png", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "products/shirt_450x563_"))
	assert.True(t, strings.HasSuffix(second, ".png"))

	data, err := afero.ReadFile(fs, "media/products/shirt_450x563.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	assert.Equal(t, "/media/products/shirt_450x563.png", s.URL(first))
	assert.Equal(t, "", s.URL(""))

	t.Run("names are sanitized", func(t *testing.T) {
		rel, err := s.Save(ctx, "brands", "../../etc/my logo.png", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "brands/my_logo.png", rel)
	})

	t.Run("remove tolerates missing files", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, first))
		require.NoError(t, s.Remove(ctx, first))
		require.NoError(t, s.Remove(ctx, ""))
	})
}
