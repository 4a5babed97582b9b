package sail

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/happy-sea-fox/sail/config"
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := NewContext(nil, nil)
	if err != nil {
		t.Fatalf("NewContext() failed: %v", err)
	}
	t.Cleanup(ctx.Finish)
	return ctx
}

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 128, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 40})

	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, src); err != nil {
		t.Fatalf("building the test PNG failed: %v", err)
	}
	return buf.Bytes()
}

func TestCodecLookup(t *testing.T) {
	ctx := newTestContext(t)

	for _, ext := range []string{"gif", ".png", "WEBP"} {
		if _, ok := ctx.CodecByExtension(ext); !ok {
			t.Errorf("no codec found for extension %q", ext)
		}
	}
	if _, ok := ctx.CodecByExtension("tiff"); ok {
		t.Error("unexpected codec for tiff")
	}

	info, ok := ctx.CodecByMIME("image/png")
	if !ok || info.Name != "png" {
		t.Errorf("CodecByMIME(image/png) = %v, %v", info, ok)
	}
}

func TestReadMemDetectsAndNormalizes(t *testing.T) {
	ctx := newTestContext(t)

	img, err := ctx.ReadMem(encodeTestPNG(t), nil)
	if err != nil {
		t.Fatalf("ReadMem() failed: %v", err)
	}
	if img.PixelFormat != core.BPP32RGBA {
		t.Errorf("format = %v, want the default BPP32-RGBA", img.PixelFormat)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", img.Width, img.Height)
	}
	if !bytes.Equal(img.Pixels[:4], []byte{255, 0, 128, 255}) {
		t.Errorf("first pixel = %v", img.Pixels[:4])
	}
}

func TestReadMemRequestedOutputFormat(t *testing.T) {
	ctx := newTestContext(t)

	img, err := ctx.ReadMem(encodeTestPNG(t), &core.LoadOptions{OutputPixelFormat: core.BPP64BGRA})
	if err != nil {
		t.Fatalf("ReadMem() failed: %v", err)
	}
	if img.PixelFormat != core.BPP64BGRA {
		t.Errorf("format = %v, want BPP64-BGRA", img.PixelFormat)
	}
	// First pixel (255, 0, 128) in BGRA order with ×257 promotion.
	want := []byte{0x80, 0x80, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(img.Pixels[:8], want) {
		t.Errorf("first pixel = %#v, want %#v", img.Pixels[:8], want)
	}
}

func TestReadMemUnknownData(t *testing.T) {
	ctx := newTestContext(t)

	_, err := ctx.ReadMem([]byte{0x00, 0x01, 0x02, 0x03}, nil)
	if !apperrors.IsCode(err, apperrors.CodeUnsupportedCodecSchema) {
		t.Errorf("error = %v, want unsupported-codec-schema", err)
	}
}

func TestWriteMemReadMemRoundtrip(t *testing.T) {
	ctx := newTestContext(t)

	src, err := ctx.ReadMem(encodeTestPNG(t), nil)
	if err != nil {
		t.Fatalf("ReadMem() failed: %v", err)
	}

	encoded, err := ctx.WriteMem("png", src, nil)
	if err != nil {
		t.Fatalf("WriteMem() failed: %v", err)
	}

	back, err := ctx.ReadMem(encoded, nil)
	if err != nil {
		t.Fatalf("ReadMem() of the written data failed: %v", err)
	}
	if back.Width != src.Width || back.Height != src.Height {
		t.Errorf("dimensions changed: %dx%d -> %dx%d", src.Width, src.Height, back.Width, back.Height)
	}
	if !bytes.Equal(back.Pixels, src.Pixels) {
		t.Error("pixels changed across the roundtrip")
	}
}

func TestWriteMemConvertsForTheCodec(t *testing.T) {
	ctx := newTestContext(t)

	// PNG does not accept BPP64-BGRA directly; the context must convert.
	img, err := ctx.ReadMem(encodeTestPNG(t), &core.LoadOptions{OutputPixelFormat: core.BPP64BGRA})
	if err != nil {
		t.Fatalf("ReadMem() failed: %v", err)
	}

	encoded, err := ctx.WriteMem("png", img, nil)
	if err != nil {
		t.Fatalf("WriteMem() failed: %v", err)
	}

	back, err := ctx.ReadMem(encoded, nil)
	if err != nil {
		t.Fatalf("ReadMem() of the written data failed: %v", err)
	}
	if !bytes.Equal(back.Pixels[:4], []byte{255, 0, 128, 255}) {
		t.Errorf("first pixel = %v", back.Pixels[:4])
	}
}

func TestFileRoundtrip(t *testing.T) {
	ctx := newTestContext(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "in.png")
	if err := os.WriteFile(path, encodeTestPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := ctx.ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}

	outPath := filepath.Join(dir, "out.png")
	if err := ctx.WriteFile(outPath, img, nil); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	back, err := ctx.ReadFile(outPath, nil)
	if err != nil {
		t.Fatalf("ReadFile() of the written file failed: %v", err)
	}
	if !bytes.Equal(back.Pixels, img.Pixels) {
		t.Error("pixels changed across the file roundtrip")
	}
}

func TestProbe(t *testing.T) {
	ctx := newTestContext(t)

	img, info, err := ctx.ProbeMem(encodeTestPNG(t))
	if err != nil {
		t.Fatalf("ProbeMem() failed: %v", err)
	}
	if info.Name != "png" {
		t.Errorf("codec = %q, want png", info.Name)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", img.Width, img.Height)
	}
	if img.Pixels != nil {
		t.Error("probing must not return pixel data")
	}
	if img.Source == nil || img.Source.Compression != core.CompressionDeflate {
		t.Errorf("source not recorded: %+v", img.Source)
	}
}

func TestUnknownExtension(t *testing.T) {
	ctx := newTestContext(t)

	if _, err := ctx.ReadFile("image.xyz", nil); !apperrors.IsCode(err, apperrors.CodeUnsupportedCodecSchema) {
		t.Errorf("ReadFile: error = %v, want unsupported-codec-schema", err)
	}
	if err := ctx.WriteFile("image.xyz", &core.Image{}, nil); !apperrors.IsCode(err, apperrors.CodeUnsupportedCodecSchema) {
		t.Errorf("WriteFile: error = %v, want unsupported-codec-schema", err)
	}
}

func TestWriteToReadOnlyCodec(t *testing.T) {
	ctx := newTestContext(t)

	img, err := ctx.ReadMem(encodeTestPNG(t), nil)
	if err != nil {
		t.Fatalf("ReadMem() failed: %v", err)
	}
	_, err = ctx.WriteMem("webp", img, nil)
	if !apperrors.IsCode(err, apperrors.CodeNotImplemented) {
		t.Errorf("error = %v, want not-implemented", err)
	}
}

func TestExternalDeclarationDir(t *testing.T) {
	dir := t.TempDir()
	decl := `[codec]
layout=2
name=qoi
extensions=qoi
mime-types=image/qoi

[read-features]
input-pixel-formats=BPP32-RGBA
output-pixel-formats=BPP32-RGBA
`
	if err := os.WriteFile(filepath.Join(dir, "qoi.codec.info"), []byte(decl), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.CodecInfoDir = dir
	ctx, err := NewContext(cfg, nil)
	if err != nil {
		t.Fatalf("NewContext() failed: %v", err)
	}
	defer ctx.Finish()

	info, ok := ctx.CodecByExtension("qoi")
	if !ok {
		t.Fatal("external declaration not registered")
	}
	if info.Name != "qoi" {
		t.Errorf("codec = %q, want qoi", info.Name)
	}

	// Declaration-only records fail at resolution time, not registration.
	rec, _ := ctx.Registry().FindByExtension("qoi")
	if _, err := ctx.Registry().Resolve(rec); !apperrors.IsCode(err, apperrors.CodeCodecLoadFailed) {
		t.Errorf("error = %v, want codec-load-failed", err)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := &config.Config{LogLevel: "shouting"}
	cfg.DefaultOutputPixelFormat = core.BPP32RGBA
	if _, err := NewContext(cfg, nil); err == nil {
		t.Error("invalid log level accepted")
	}
}
