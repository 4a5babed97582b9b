package codecinfo

import (
	"fmt"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// SupportedLayout is the single declaration schema version this framework
// accepts. Any other value rejects the whole declaration.
const SupportedLayout = 2

// Feature is a set of capability flags a codec declares per direction.
type Feature int

const (
	FeatureStatic Feature = 1 << iota
	FeatureAnimated
	FeatureMultiPaged
	FeatureMetadata
	FeatureInterlaced
	FeatureICCP
)

var featureValues = map[string]Feature{
	"STATIC":     FeatureStatic,
	"ANIMATED":   FeatureAnimated,
	"MULTIPAGED": FeatureMultiPaged,
	"METADATA":   FeatureMetadata,
	"INTERLACED": FeatureInterlaced,
	"ICCP":       FeatureICCP,
}

// FeatureFromString resolves a declaration token like "STATIC".
func FeatureFromString(s string) (Feature, error) {
	if f, ok := featureValues[s]; ok {
		return f, nil
	}
	return 0, apperrors.Newf(apperrors.CodeFileParse, "feature",
		"unknown feature %q", s)
}

// Property is a set of write-direction image property flags.
type Property int

const (
	PropertyInterlaced Property = 1 << iota
	PropertyFlippedVertically
)

var propertyValues = map[string]Property{
	"INTERLACED":         PropertyInterlaced,
	"FLIPPED-VERTICALLY": PropertyFlippedVertically,
}

// PropertyFromString resolves a declaration token like "INTERLACED".
func PropertyFromString(s string) (Property, error) {
	if p, ok := propertyValues[s]; ok {
		return p, nil
	}
	return 0, apperrors.Newf(apperrors.CodeFileParse, "property",
		"unknown property %q", s)
}

// ReadFeatures describes a codec's declared decoding abilities.
// Empty InputPixelFormats means "cannot read".
type ReadFeatures struct {
	// Formats the codec can decode into.
	InputPixelFormats []core.PixelFormat

	// Canonical formats the codec can normalize to, and the preferred one.
	OutputPixelFormats         []core.PixelFormat
	PreferredOutputPixelFormat core.PixelFormat

	Features Feature
}

// WriteFeatures describes a codec's declared encoding abilities.
// Empty InputPixelFormats means "cannot write".
type WriteFeatures struct {
	InputPixelFormats []core.PixelFormat

	OutputPixelFormats         []core.PixelFormat
	PreferredOutputPixelFormat core.PixelFormat

	Features   Feature
	Properties Property

	InterlacedPasses int

	CompressionTypes         []core.Compression
	PreferredCompressionType core.Compression

	CompressionMin     int
	CompressionMax     int
	CompressionDefault int
}

// Info is a parsed codec registration record.
type Info struct {
	// Declared schema version; must equal SupportedLayout.
	Layout int

	Version     string
	Name        string
	Description string

	// Case-normalized to lowercase.
	Extensions []string
	MIMETypes  []string

	Read  ReadFeatures
	Write WriteFeatures

	// Declaration path this record was parsed from; named in errors.
	Path string
}

// validate runs the cross-field consistency checks. A direction with output
// formats must declare input formats and vice versa; a direction declaring
// static/animated/multi-paged must declare input formats.
func (info *Info) validate() error {
	const op = "codecinfo.validate"
	frameFeatures := FeatureStatic | FeatureAnimated | FeatureMultiPaged

	check := func(direction string, in, out []core.PixelFormat, features Feature) error {
		if len(in) == 0 && len(out) != 0 {
			return apperrors.Newf(apperrors.CodeIncompleteCapabilities, op,
				"codec %q declares %s output pixel formats but no input pixel formats", info.Path, direction)
		}
		if len(in) != 0 && len(out) == 0 {
			return apperrors.Newf(apperrors.CodeIncompleteCapabilities, op,
				"codec %q declares %s input pixel formats but no output pixel formats", info.Path, direction)
		}
		if features&frameFeatures != 0 && len(in) == 0 {
			return apperrors.Newf(apperrors.CodeIncompleteCapabilities, op,
				"codec %q declares %s frame features but no input pixel formats", info.Path, direction)
		}
		return nil
	}

	if err := check("read", info.Read.InputPixelFormats, info.Read.OutputPixelFormats, info.Read.Features); err != nil {
		return err
	}
	return check("write", info.Write.InputPixelFormats, info.Write.OutputPixelFormats, info.Write.Features)
}

// CanRead reports whether the declaration claims the read direction.
func (info *Info) CanRead() bool { return len(info.Read.InputPixelFormats) > 0 }

// CanWrite reports whether the declaration claims the write direction.
func (info *Info) CanWrite() bool { return len(info.Write.InputPixelFormats) > 0 }

func (info *Info) String() string {
	return fmt.Sprintf("%s %s (%s)", info.Name, info.Version, info.Description)
}
