// Package utils provides small helpers shared by the built-in codecs.
package utils

import (
	"image/color"
	"net/http"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// DetectFormat sniffs the leading bytes of data and returns the matching
// file extension ("gif", "png", ...) or "" when the content is unknown.
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	// GIF: GIF87a / GIF89a
	if data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' {
		return "gif"
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "png"
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg"
	}
	// WebP: RIFF....WEBP
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return "webp"
	}
	// BMP: BM
	if data[0] == 'B' && data[1] == 'M' {
		return "bmp"
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/gif":
		return "gif"
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/webp":
		return "webp"
	}
	return ""
}

// PaletteToColors expands a raw palette into color.Color entries. Only
// 24-bit RGB and 32-bit RGBA palettes are supported.
func PaletteToColors(p *core.Palette) (color.Palette, error) {
	if p == nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "utils.palette", "nil palette")
	}

	out := make(color.Palette, p.ColorCount)
	switch p.PixelFormat {
	case core.BPP24RGB:
		for i := 0; i < p.ColorCount; i++ {
			e := p.Data[i*3:]
			out[i] = color.NRGBA{R: e[0], G: e[1], B: e[2], A: 255}
		}
	case core.BPP32RGBA:
		for i := 0; i < p.ColorCount; i++ {
			e := p.Data[i*4:]
			out[i] = color.NRGBA{R: e[0], G: e[1], B: e[2], A: e[3]}
		}
	default:
		return nil, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, "utils.palette",
			"palette pixel format %s is not supported", p.PixelFormat)
	}
	return out, nil
}

// ColorsToPalette packs color entries into a raw 32-bit RGBA palette.
func ColorsToPalette(colors []color.Color) *core.Palette {
	data := make([]byte, 0, len(colors)*4)
	for _, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		data = append(data, nrgba.R, nrgba.G, nrgba.B, nrgba.A)
	}
	return &core.Palette{PixelFormat: core.BPP32RGBA, ColorCount: len(colors), Data: data}
}

// CloneBytes returns a copy of b.
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
