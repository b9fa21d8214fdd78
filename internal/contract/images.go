package contract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/heic"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"

	"rental-backoffice/internal/logger"
)

const (
	maxImageEdge = 1200
	jpegQuality  = 85
)

var supportedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
}

// Image is a decoded photo normalized to JPEG, ready to embed.
type Image struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// ImageLoader reads photos and diagrams from the upload storage. Load never fails:
// anything that cannot be read or decoded yields nil and is drawn as a placeholder.
type ImageLoader struct {
	fs afero.Fs
}

func NewImageLoader(fs afero.Fs) *ImageLoader {
	return &ImageLoader{fs: fs}
}

func (l *ImageLoader) Load(path string) *Image {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	img, err := l.load(path)
	if err != nil {
		logger.Warn("Image skipped", "path", path, "error", err)
		return nil
	}
	return img
}

func (l *ImageLoader) load(path string) (*Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedImageExt[ext] {
		return nil, fmt.Errorf("unsupported image extension %q", ext)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return DecodeImage(data)
}

// DecodeImage decodes JPEG, PNG, GIF or HEIC bytes and re-encodes them as a JPEG no
// larger than maxImageEdge on either side. Transparent areas are flattened onto white.
func DecodeImage(data []byte) (*Image, error) {
	var (
		src image.Image
		err error
	)
	if isHEIC(data) {
		src, err = heic.Decode(bytes.NewReader(data))
	} else {
		src, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	w, h := scaledSize(b.Dx(), b.Dy(), maxImageEdge)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return &Image{
		Name:   "img-" + hex.EncodeToString(sum[:8]),
		Data:   buf.Bytes(),
		Width:  w,
		Height: h,
	}, nil
}

func scaledSize(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		return maxEdge, max(1, h*maxEdge/w)
	}
	return max(1, w*maxEdge/h), maxEdge
}

// isHEIC checks the ISO-BMFF ftyp brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}
