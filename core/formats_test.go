package core

import "testing"

func TestPixelFormatRoundtrip(t *testing.T) {
	for format, name := range pixelFormatNames {
		if got := format.String(); got != name {
			t.Errorf("String(%d) = %q, want %q", int(format), got, name)
		}
		back, err := PixelFormatFromString(name)
		if err != nil || back != format {
			t.Errorf("PixelFormatFromString(%q) = %v, %v", name, back, err)
		}
	}

	if _, err := PixelFormatFromString("BPP96-RGB"); err == nil {
		t.Error("unknown token accepted")
	}
}

func TestBytesPerLine(t *testing.T) {
	tests := []struct {
		format PixelFormat
		width  int
		want   int
	}{
		{BPP1Grayscale, 1, 1},
		{BPP1Grayscale, 8, 1},
		{BPP1Grayscale, 9, 2},
		{BPP2Indexed, 5, 2},
		{BPP4Indexed, 3, 2},
		{BPP8Grayscale, 10, 10},
		{BPP16Grayscale, 10, 20},
		{BPP24RGB, 10, 30},
		{BPP32RGBA, 10, 40},
		{BPP48BGR, 10, 60},
		{BPP64ABGR, 10, 80},
	}

	for _, tt := range tests {
		got, err := BytesPerLine(tt.width, tt.format)
		if err != nil {
			t.Errorf("BytesPerLine(%d, %v) failed: %v", tt.width, tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("BytesPerLine(%d, %v) = %d, want %d", tt.width, tt.format, got, tt.want)
		}
	}

	if _, err := BytesPerLine(0, BPP8Grayscale); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := BytesPerLine(10, PixelFormatUnknown); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestIsIndexed(t *testing.T) {
	for _, f := range []PixelFormat{BPP1Indexed, BPP2Indexed, BPP4Indexed, BPP8Indexed} {
		if !f.IsIndexed() {
			t.Errorf("%v must be indexed", f)
		}
	}
	for _, f := range []PixelFormat{BPP8Grayscale, BPP24RGB, BPP32RGBA} {
		if f.IsIndexed() {
			t.Errorf("%v must not be indexed", f)
		}
	}
}

func TestImageValidate(t *testing.T) {
	valid := func() *Image {
		return &Image{Width: 2, Height: 2, PixelFormat: BPP24RGB, BytesPerLine: 6, Pixels: make([]byte, 12)}
	}

	if err := valid().ValidateWithPixels(); err != nil {
		t.Fatalf("valid image rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Image)
	}{
		{"zero width", func(img *Image) { img.Width = 0 }},
		{"negative height", func(img *Image) { img.Height = -1 }},
		{"unknown format", func(img *Image) { img.PixelFormat = PixelFormatUnknown }},
		{"zero stride", func(img *Image) { img.BytesPerLine = 0 }},
		{"short pixel buffer", func(img *Image) { img.Pixels = img.Pixels[:5] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := valid()
			tt.mutate(img)
			if err := img.ValidateWithPixels(); err == nil {
				t.Error("invalid image accepted")
			}
		})
	}

	var nilImage *Image
	if err := nilImage.Validate(); err == nil {
		t.Error("nil image accepted")
	}
}

func TestCloneSkeleton(t *testing.T) {
	src := &Image{
		Width:        3,
		Height:       2,
		PixelFormat:  BPP8Indexed,
		BytesPerLine: 3,
		Pixels:       []byte{1, 2, 3, 4, 5, 6},
		Palette:      &Palette{PixelFormat: BPP24RGB, ColorCount: 1, Data: []byte{9, 9, 9}},
		Source:       &SourceImage{PixelFormat: BPP8Indexed, Compression: CompressionLZW},
		DelayMs:      40,
	}

	out := src.CloneSkeleton()
	if out.Pixels != nil {
		t.Error("skeleton must not carry pixels")
	}
	if out.Width != 3 || out.Height != 2 || out.DelayMs != 40 {
		t.Errorf("skeleton fields wrong: %+v", out)
	}

	out.Palette.Data[0] = 7
	if src.Palette.Data[0] == 7 {
		t.Error("palette must be deep copied")
	}
	out.Source.Compression = CompressionNone
	if src.Source.Compression == CompressionNone {
		t.Error("source must be deep copied")
	}
}
