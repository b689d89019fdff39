package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"os"
	"path/filepath"

	// Register decoders for the supported formats beyond png/jpeg.
	_ "image/gif"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/readfeed/readfeed-mcp/internal/log"
)

const (
	// DefaultMaxImageDim is the largest width or height emitted when
	// auto-resize is enabled.
	DefaultMaxImageDim = 2000

	// DefaultMaxImageBytes is the largest encoded image size emitted when
	// auto-resize is enabled.
	DefaultMaxImageBytes = 4 * 1024 * 1024
)

// ImageResult is a transport-ready image payload.
type ImageResult struct {
	Data     string // base64-encoded image bytes
	MimeType string

	// DimensionNote describes original vs. final pixel dimensions. It is
	// non-empty exactly when a resize occurred.
	DimensionNote string
}

// Ingestor decodes image bytes and, when auto-resize is requested, downsizes
// images exceeding the pixel and byte thresholds while preserving aspect
// ratio. The resize pipeline is fully deterministic for a given input.
type Ingestor struct {
	MaxDim   int // 0 means DefaultMaxImageDim
	MaxBytes int // 0 means DefaultMaxImageBytes

	// TrustExtension resolves disagreements between the sniffed content type
	// and the file extension in favor of the extension. The default trusts
	// the sniffed type: content decides what the bytes are, the extension is
	// only a claim.
	TrustExtension bool

	// DebugDir, when non-empty, receives a copy of resized bytes named by the
	// source file's base name. This is a diagnostic side channel: write
	// failures are logged and swallowed, never surfaced to the caller.
	DebugDir string
}

func (g *Ingestor) maxDim() int {
	if g.MaxDim > 0 {
		return g.MaxDim
	}
	return DefaultMaxImageDim
}

func (g *Ingestor) maxBytes() int {
	if g.MaxBytes > 0 {
		return g.MaxBytes
	}
	return DefaultMaxImageBytes
}

// Ingest turns raw image bytes into a transport-ready part payload. With
// autoResize disabled, or when the image is already inside both thresholds,
// the source bytes pass through untouched with their MIME type unchanged and
// no dimension note.
func (g *Ingestor) Ingest(ctx context.Context, data []byte, sniffedMIME, name string, autoResize bool) (ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return ImageResult{}, err
	}
	if len(data) == 0 {
		return ImageResult{}, fmt.Errorf("empty image data")
	}

	mimeType := g.effectiveMIME(sniffedMIME, name)

	if !autoResize {
		return ImageResult{Data: base64.StdEncoding.EncodeToString(data), MimeType: mimeType}, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageResult{}, fmt.Errorf("reading image dimensions: %w", err)
	}

	if cfg.Width <= g.maxDim() && cfg.Height <= g.maxDim() && len(data) <= g.maxBytes() {
		return ImageResult{Data: base64.StdEncoding.EncodeToString(data), MimeType: mimeType}, nil
	}

	out, w, h, outMIME, err := g.resize(ctx, data, cfg.Width, cfg.Height)
	if err != nil {
		return ImageResult{}, err
	}

	g.writeDebugCopy(name, out)

	return ImageResult{
		Data:          base64.StdEncoding.EncodeToString(out),
		MimeType:      outMIME,
		DimensionNote: fmt.Sprintf("original %dx%d, resized to %dx%d", cfg.Width, cfg.Height, w, h),
	}, nil
}

// effectiveMIME picks between the sniffed type and the extension-based guess
// when they disagree. Sniffing wins unless TrustExtension is set and the
// extension maps to a known type.
func (g *Ingestor) effectiveMIME(sniffed, name string) string {
	if !g.TrustExtension {
		return sniffed
	}
	byExt := mime.TypeByExtension(filepath.Ext(name))
	if byExt == "" {
		return sniffed
	}
	return byExt
}

// resize scales the image to fit within the dimension threshold, then encodes
// it, shrinking further until the byte threshold is met or the scale ladder is
// exhausted.
func (g *Ingestor) resize(ctx context.Context, data []byte, origW, origH int) ([]byte, int, int, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, "", fmt.Errorf("decoding image: %w", err)
	}

	targetW, targetH := fitDimensions(origW, origH, g.maxDim())

	out, outMIME, err := encodeWithFallback(scaleImage(img, targetW, targetH), g.maxBytes())
	if err != nil {
		return nil, 0, 0, "", err
	}
	if len(out) <= g.maxBytes() {
		return out, targetW, targetH, outMIME, nil
	}

	w, h := targetW, targetH
	for _, scale := range []float64{0.75, 0.5, 0.35, 0.25} {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, "", err
		}
		w = max(1, int(float64(targetW)*scale))
		h = max(1, int(float64(targetH)*scale))
		out, outMIME, err = encodeWithFallback(scaleImage(img, w, h), g.maxBytes())
		if err != nil {
			return nil, 0, 0, "", err
		}
		if len(out) <= g.maxBytes() {
			break
		}
	}

	// Smallest attempt, even if still over the byte threshold.
	return out, w, h, outMIME, nil
}

// fitDimensions shrinks w x h to fit within maxDim, preserving aspect ratio.
func fitDimensions(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, h * maxDim / w
	}
	return w * maxDim / h, maxDim
}

// scaleImage resamples src to w x h with CatmullRom interpolation.
func scaleImage(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// encodeWithFallback tries PNG first, then JPEG at decreasing quality levels
// until the result fits maxBytes. The last JPEG attempt is returned even when
// it is still too large.
func encodeWithFallback(img image.Image, maxBytes int) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encoding PNG: %w", err)
	}
	if buf.Len() <= maxBytes {
		return buf.Bytes(), "image/png", nil
	}

	for _, q := range []int{85, 70, 55, 40} {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, "", fmt.Errorf("encoding JPEG: %w", err)
		}
		if buf.Len() <= maxBytes {
			break
		}
	}
	return buf.Bytes(), "image/jpeg", nil
}

// writeDebugCopy persists resized bytes under DebugDir for diagnostics.
// Failure here must never fail the read.
func (g *Ingestor) writeDebugCopy(name string, data []byte) {
	if g.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(g.DebugDir, 0o755); err != nil {
		log.Warn("debug image copy: %v", err)
		return
	}
	dest := filepath.Join(g.DebugDir, filepath.Base(name))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		log.Warn("debug image copy: %v", err)
	}
}
