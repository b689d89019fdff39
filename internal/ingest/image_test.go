package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest_PassThroughWhenDisabled(t *testing.T) {
	data := testPNG(t, 16, 16)
	g := Ingestor{}

	res, err := g.Ingest(context.Background(), data, "image/png", "pic.png", false)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Empty(t, res.DimensionNote)

	raw, err := base64.StdEncoding.DecodeString(res.Data)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestIngest_PassThroughUnderThresholds(t *testing.T) {
	data := testPNG(t, 32, 32)
	g := Ingestor{MaxDim: 100, MaxBytes: 1 << 20}

	res, err := g.Ingest(context.Background(), data, "image/png", "pic.png", true)
	require.NoError(t, err)
	assert.Empty(t, res.DimensionNote)
	assert.Equal(t, "image/png", res.MimeType)

	raw, err := base64.StdEncoding.DecodeString(res.Data)
	require.NoError(t, err)
	assert.Equal(t, data, raw, "under-threshold images must be byte-identical")
}

func TestIngest_ResizeOversizedImage(t *testing.T) {
	data := testPNG(t, 200, 80)
	g := Ingestor{MaxDim: 100, MaxBytes: 1 << 20}

	res, err := g.Ingest(context.Background(), data, "image/png", "wide.png", true)
	require.NoError(t, err)
	assert.Equal(t, "original 200x80, resized to 100x40", res.DimensionNote)

	raw, err := base64.StdEncoding.DecodeString(res.Data)
	require.NoError(t, err)
	assert.Less(t, len(raw), len(data), "resized image should shrink")

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestIngest_ResizePreservesAspectRatioPortrait(t *testing.T) {
	data := testPNG(t, 80, 200)
	g := Ingestor{MaxDim: 100, MaxBytes: 1 << 20}

	res, err := g.Ingest(context.Background(), data, "image/png", "tall.png", true)
	require.NoError(t, err)
	assert.Equal(t, "original 80x200, resized to 40x100", res.DimensionNote)
}

func TestIngest_Deterministic(t *testing.T) {
	data := testPNG(t, 300, 300)
	g := Ingestor{MaxDim: 128, MaxBytes: 1 << 20}

	first, err := g.Ingest(context.Background(), data, "image/png", "a.png", true)
	require.NoError(t, err)
	second, err := g.Ingest(context.Background(), data, "image/png", "a.png", true)
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.DimensionNote, second.DimensionNote)
}

func TestIngest_DebugCopyWritten(t *testing.T) {
	debugDir := t.TempDir()
	data := testPNG(t, 200, 200)
	g := Ingestor{MaxDim: 100, MaxBytes: 1 << 20, DebugDir: debugDir}

	_, err := g.Ingest(context.Background(), data, "image/png", "/somewhere/shot.png", true)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(debugDir, "shot.png"))
}

func TestIngest_DebugWriteFailureIsSwallowed(t *testing.T) {
	// Pointing the debug dir at a file path makes MkdirAll fail; the read
	// must still succeed.
	data := testPNG(t, 200, 200)
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	g := Ingestor{MaxDim: 100, MaxBytes: 1 << 20, DebugDir: blocker}
	res, err := g.Ingest(context.Background(), data, "image/png", "shot.png", true)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data)
}

func TestIngest_EmptyData(t *testing.T) {
	g := Ingestor{}
	_, err := g.Ingest(context.Background(), nil, "image/png", "x.png", true)
	require.Error(t, err)
}

func TestIngest_TrustExtension(t *testing.T) {
	data := testPNG(t, 4, 4)

	sniffFirst := Ingestor{}
	res, err := sniffFirst.Ingest(context.Background(), data, "image/png", "pic.webp", false)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType, "default trusts the sniffed type")

	extFirst := Ingestor{TrustExtension: true}
	res, err = extFirst.Ingest(context.Background(), data, "image/png", "pic.webp", false)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", res.MimeType)
}
