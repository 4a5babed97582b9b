package png

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"testing"

	"github.com/happy-sea-fox/sail/core"
	"github.com/happy-sea-fox/sail/driver"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/stream"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		t.Fatalf("building the test PNG failed: %v", err)
	}
	return buf.Bytes()
}

func loadSingleFrame(t *testing.T, data []byte) *core.Image {
	t.Helper()

	codec := New().(core.ReadCodec)
	loader := driver.NewLoader(codec)
	if err := loader.Init(stream.OpenMem(data), nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	img, err := loader.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame() failed: %v", err)
	}
	if err := loader.ReadFrame(img); err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if _, err := loader.NextFrame(); !apperrors.IsNoMoreFrames(err) {
		t.Errorf("second NextFrame(): error = %v, want no-more-frames", err)
	}
	if err := loader.Finish(); err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	return img
}

func TestLoadGray8(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.Pix[0], src.Pix[1] = 0x12, 0xFE

	img := loadSingleFrame(t, encodePNG(t, src))
	if img.PixelFormat != core.BPP8Grayscale {
		t.Fatalf("format = %v, want BPP8-GRAYSCALE", img.PixelFormat)
	}
	if img.Pixels[0] != 0x12 || img.Pixels[1] != 0xFE {
		t.Errorf("pixels = %v", img.Pixels[:2])
	}
	if img.Source == nil || img.Source.Compression != core.CompressionDeflate {
		t.Errorf("source not recorded: %+v", img.Source)
	}
}

func TestLoadGray16SwapsToLittleEndian(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 1, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 0x1234})

	img := loadSingleFrame(t, encodePNG(t, src))
	if img.PixelFormat != core.BPP16Grayscale {
		t.Fatalf("format = %v, want BPP16-GRAYSCALE", img.PixelFormat)
	}
	// Canonical buffers are little-endian.
	if img.Pixels[0] != 0x34 || img.Pixels[1] != 0x12 {
		t.Errorf("pixels = %#v, want [0x34 0x12]", img.Pixels[:2])
	}
}

func TestLoadNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	img := loadSingleFrame(t, encodePNG(t, src))
	if img.PixelFormat != core.BPP32RGBA {
		t.Fatalf("format = %v, want BPP32-RGBA", img.PixelFormat)
	}
	if !bytes.Equal(img.Pixels[:4], []byte{10, 20, 30, 40}) {
		t.Errorf("pixels = %v", img.Pixels[:4])
	}
}

func TestLoadNRGBA64SwapsToLittleEndian(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0x1001, G: 0x2002, B: 0x3003, A: 0x4004})

	img := loadSingleFrame(t, encodePNG(t, src))
	if img.PixelFormat != core.BPP64RGBA {
		t.Fatalf("format = %v, want BPP64-RGBA", img.PixelFormat)
	}
	want := []byte{0x01, 0x10, 0x02, 0x20, 0x03, 0x30, 0x04, 0x40}
	if !bytes.Equal(img.Pixels[:8], want) {
		t.Errorf("pixels = %#v, want %#v", img.Pixels[:8], want)
	}
}

func TestLoadPaletted(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		color.NRGBA{R: 255, G: 0, B: 128, A: 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.Pix[0], src.Pix[1] = 1, 0

	img := loadSingleFrame(t, encodePNG(t, src))
	if img.PixelFormat != core.BPP8Indexed {
		t.Fatalf("format = %v, want BPP8-INDEXED", img.PixelFormat)
	}
	if img.Palette == nil || img.Palette.ColorCount != 2 {
		t.Fatalf("palette not carried over: %+v", img.Palette)
	}
	if img.Pixels[0] != 1 || img.Pixels[1] != 0 {
		t.Errorf("pixels = %v", img.Pixels[:2])
	}
}

func TestSaveRoundtrip(t *testing.T) {
	codec := New().(core.WriteCodec)
	st := stream.CreateMem()

	saver := driver.NewSaver(codec)
	if err := saver.Init(st, nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	img := &core.Image{
		Width:        1,
		Height:       1,
		PixelFormat:  core.BPP64RGBA,
		BytesPerLine: 8,
		// Little-endian 0x1001, 0x2002, 0x3003, 0x4004.
		Pixels: []byte{0x01, 0x10, 0x02, 0x20, 0x03, 0x30, 0x04, 0x40},
	}
	if err := saver.NextFrame(img); err != nil {
		t.Fatalf("NextFrame() failed: %v", err)
	}
	if err := saver.WriteFrame(img); err != nil {
		t.Fatalf("WriteFrame() failed: %v", err)
	}
	if err := saver.Finish(); err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}

	decoded, err := stdpng.Decode(bytes.NewReader(st.Bytes()))
	if err != nil {
		t.Fatalf("decoding the written PNG failed: %v", err)
	}
	out, ok := decoded.(*image.NRGBA64)
	if !ok {
		t.Fatalf("decoded type = %T, want *image.NRGBA64", decoded)
	}
	got := out.NRGBA64At(0, 0)
	want := color.NRGBA64{R: 0x1001, G: 0x2002, B: 0x3003, A: 0x4004}
	if got != want {
		t.Errorf("pixel = %+v, want %+v", got, want)
	}
}

func TestSaveRejectsUnsupportedFormat(t *testing.T) {
	codec := New().(core.WriteCodec)
	saver := driver.NewSaver(codec)
	if err := saver.Init(stream.CreateMem(), nil); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	img := &core.Image{
		Width: 1, Height: 1, PixelFormat: core.BPP24BGR, BytesPerLine: 3, Pixels: []byte{0, 0, 0},
	}
	err := saver.NextFrame(img)
	if !apperrors.IsCode(err, apperrors.CodeUnsupportedPixelFormat) {
		t.Errorf("error = %v, want unsupported-pixel-format", err)
	}
}

func TestSaveSecondFrameRejected(t *testing.T) {
	codec := New().(core.WriteCodec)
	st := stream.CreateMem()
	if err := codec.SaveInit(st, &core.SaveOptions{}); err != nil {
		t.Fatalf("SaveInit() failed: %v", err)
	}

	img := &core.Image{
		Width: 1, Height: 1, PixelFormat: core.BPP8Grayscale, BytesPerLine: 1, Pixels: []byte{7},
	}
	if err := codec.SaveSeekNextFrame(img); err != nil {
		t.Fatalf("first SaveSeekNextFrame() failed: %v", err)
	}
	if err := codec.SaveWriteFrame(img); err != nil {
		t.Fatalf("SaveWriteFrame() failed: %v", err)
	}
	if err := codec.SaveSeekNextFrame(img); !apperrors.IsNoMoreFrames(err) {
		t.Errorf("second seek: error = %v, want no-more-frames", err)
	}
}
