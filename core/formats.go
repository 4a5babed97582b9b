package core

import (
	"fmt"

	apperrors "github.com/happy-sea-fox/sail/errors"
)

// PixelFormat identifies one of the framework's canonical in-memory pixel
// layouts. The set is closed: conversion and codec negotiation only ever
// deal with formats enumerated here.
//
// Multi-byte channel samples (16-bit channels, packed 555) are stored
// little-endian in canonical buffers.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota

	BPP1Indexed
	BPP2Indexed
	BPP4Indexed
	BPP8Indexed

	BPP1Grayscale
	BPP2Grayscale
	BPP4Grayscale
	BPP8Grayscale
	BPP16Grayscale

	BPP16GrayscaleAlpha // 8-bit gray + 8-bit alpha
	BPP32GrayscaleAlpha // 16-bit gray + 16-bit alpha

	BPP16RGB555
	BPP16BGR555

	BPP24RGB
	BPP24BGR
	BPP48RGB
	BPP48BGR

	BPP32RGBX
	BPP32BGRX
	BPP32XRGB
	BPP32XBGR
	BPP32RGBA
	BPP32BGRA
	BPP32ARGB
	BPP32ABGR

	BPP64RGBX
	BPP64BGRX
	BPP64XRGB
	BPP64XBGR
	BPP64RGBA
	BPP64BGRA
	BPP64ARGB
	BPP64ABGR

	BPP32CMYK
	BPP24YCbCr
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUnknown:  "UNKNOWN",
	BPP1Indexed:         "BPP1-INDEXED",
	BPP2Indexed:         "BPP2-INDEXED",
	BPP4Indexed:         "BPP4-INDEXED",
	BPP8Indexed:         "BPP8-INDEXED",
	BPP1Grayscale:       "BPP1-GRAYSCALE",
	BPP2Grayscale:       "BPP2-GRAYSCALE",
	BPP4Grayscale:       "BPP4-GRAYSCALE",
	BPP8Grayscale:       "BPP8-GRAYSCALE",
	BPP16Grayscale:      "BPP16-GRAYSCALE",
	BPP16GrayscaleAlpha: "BPP16-GRAYSCALE-ALPHA",
	BPP32GrayscaleAlpha: "BPP32-GRAYSCALE-ALPHA",
	BPP16RGB555:         "BPP16-RGB555",
	BPP16BGR555:         "BPP16-BGR555",
	BPP24RGB:            "BPP24-RGB",
	BPP24BGR:            "BPP24-BGR",
	BPP48RGB:            "BPP48-RGB",
	BPP48BGR:            "BPP48-BGR",
	BPP32RGBX:           "BPP32-RGBX",
	BPP32BGRX:           "BPP32-BGRX",
	BPP32XRGB:           "BPP32-XRGB",
	BPP32XBGR:           "BPP32-XBGR",
	BPP32RGBA:           "BPP32-RGBA",
	BPP32BGRA:           "BPP32-BGRA",
	BPP32ARGB:           "BPP32-ARGB",
	BPP32ABGR:           "BPP32-ABGR",
	BPP64RGBX:           "BPP64-RGBX",
	BPP64BGRX:           "BPP64-BGRX",
	BPP64XRGB:           "BPP64-XRGB",
	BPP64XBGR:           "BPP64-XBGR",
	BPP64RGBA:           "BPP64-RGBA",
	BPP64BGRA:           "BPP64-BGRA",
	BPP64ARGB:           "BPP64-ARGB",
	BPP64ABGR:           "BPP64-ABGR",
	BPP32CMYK:           "BPP32-CMYK",
	BPP24YCbCr:          "BPP24-YCBCR",
}

var pixelFormatValues = func() map[string]PixelFormat {
	m := make(map[string]PixelFormat, len(pixelFormatNames))
	for f, name := range pixelFormatNames {
		m[name] = f
	}
	return m
}()

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// PixelFormatFromString resolves a declaration token like "BPP24-RGB".
func PixelFormatFromString(s string) (PixelFormat, error) {
	if f, ok := pixelFormatValues[s]; ok {
		return f, nil
	}
	return PixelFormatUnknown, apperrors.Newf(apperrors.CodeFileParse,
		"pixel-format", "unknown pixel format %q", s)
}

var pixelFormatBits = map[PixelFormat]int{
	BPP1Indexed:         1,
	BPP2Indexed:         2,
	BPP4Indexed:         4,
	BPP8Indexed:         8,
	BPP1Grayscale:       1,
	BPP2Grayscale:       2,
	BPP4Grayscale:       4,
	BPP8Grayscale:       8,
	BPP16Grayscale:      16,
	BPP16GrayscaleAlpha: 16,
	BPP32GrayscaleAlpha: 32,
	BPP16RGB555:         16,
	BPP16BGR555:         16,
	BPP24RGB:            24,
	BPP24BGR:            24,
	BPP48RGB:            48,
	BPP48BGR:            48,
	BPP32RGBX:           32,
	BPP32BGRX:           32,
	BPP32XRGB:           32,
	BPP32XBGR:           32,
	BPP32RGBA:           32,
	BPP32BGRA:           32,
	BPP32ARGB:           32,
	BPP32ABGR:           32,
	BPP64RGBX:           64,
	BPP64BGRX:           64,
	BPP64XRGB:           64,
	BPP64XBGR:           64,
	BPP64RGBA:           64,
	BPP64BGRA:           64,
	BPP64ARGB:           64,
	BPP64ABGR:           64,
	BPP32CMYK:           32,
	BPP24YCbCr:          24,
}

// BitsPerPixel returns the storage size of one pixel in bits.
func BitsPerPixel(f PixelFormat) (int, error) {
	bits, ok := pixelFormatBits[f]
	if !ok {
		return 0, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat,
			"bits-per-pixel", "no pixel size defined for %s", f)
	}
	return bits, nil
}

// BytesPerLine computes the row stride for width pixels of format f.
// Sub-byte formats are padded to a whole byte per row.
func BytesPerLine(width int, f PixelFormat) (int, error) {
	if width <= 0 {
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument,
			"bytes-per-line", "invalid width %d", width)
	}
	bits, err := BitsPerPixel(f)
	if err != nil {
		return 0, err
	}
	return (width*bits + 7) / 8, nil
}

// IsIndexed reports whether f resolves pixels through a palette.
func (f PixelFormat) IsIndexed() bool {
	switch f {
	case BPP1Indexed, BPP2Indexed, BPP4Indexed, BPP8Indexed:
		return true
	}
	return false
}

// Compression enumerates the compression types codecs may declare.
type Compression int

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionRLE
	CompressionDeflate
	CompressionLZW
	CompressionJPEG
	CompressionVP8
	CompressionQOI
)

var compressionNames = map[Compression]string{
	CompressionUnknown: "UNKNOWN",
	CompressionNone:    "NONE",
	CompressionRLE:     "RLE",
	CompressionDeflate: "DEFLATE",
	CompressionLZW:     "LZW",
	CompressionJPEG:    "JPEG",
	CompressionVP8:     "VP8",
	CompressionQOI:     "QOI",
}

var compressionValues = func() map[string]Compression {
	m := make(map[string]Compression, len(compressionNames))
	for c, name := range compressionNames {
		m[name] = c
	}
	return m
}()

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// CompressionFromString resolves a declaration token like "DEFLATE".
func CompressionFromString(s string) (Compression, error) {
	if c, ok := compressionValues[s]; ok {
		return c, nil
	}
	return CompressionUnknown, apperrors.Newf(apperrors.CodeFileParse,
		"compression", "unknown compression type %q", s)
}
