package codecinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// Declarations are a closed contract: anything not enumerated below fails
// parsing instead of being silently ignored.
var (
	ErrUnsupportedSection = errors.New("unsupported section")
	ErrUnsupportedKey     = errors.New("unsupported key")
)

const (
	sectionCodec         = "codec"
	sectionReadFeatures  = "read-features"
	sectionWriteFeatures = "write-features"
)

// ParseFile parses the declaration file at path.
func ParseFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileOpen, "codecinfo.parse", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses a sectioned key/value declaration into an Info. The path is
// only used to name the declaration in errors.
//
// The declaration must carry the supported layout version and pass the
// cross-field consistency checks; on any failure the whole declaration is
// discarded, never partially accepted.
func Parse(r io.Reader, path string) (*Info, error) {
	const op = "codecinfo.parse"

	info := &Info{Path: path}
	section := ""
	line := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		switch {
		case text == "" || text[0] == '#' || text[0] == ';':
			continue
		case text[0] == '[':
			if !strings.HasSuffix(text, "]") {
				return nil, apperrors.Newf(apperrors.CodeFileParse, op,
					"%s:%d: malformed section header %q", path, line, text)
			}
			section = text[1 : len(text)-1]
			switch section {
			case sectionCodec, sectionReadFeatures, sectionWriteFeatures:
			default:
				return nil, apperrors.Newf(apperrors.CodeFileParse, op,
					"%s:%d: %w %q", path, line, ErrUnsupportedSection, section)
			}
		default:
			key, value, ok := strings.Cut(text, "=")
			if !ok {
				return nil, apperrors.Newf(apperrors.CodeFileParse, op,
					"%s:%d: expected key=value, got %q", path, line, text)
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)

			// Empty values mean "not declared" and are silently skipped.
			if value == "" {
				continue
			}
			if err := info.handleKey(section, key, value); err != nil {
				return nil, apperrors.Newf(apperrors.CodeFileParse, op,
					"%s:%d: %w", path, line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileParse, op, err)
	}

	if info.Layout != SupportedLayout {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"unsupported layout version %d in %q", info.Layout, path)
	}
	if err := info.validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func (info *Info) handleKey(section, key, value string) error {
	switch section {
	case sectionCodec:
		return info.handleCodecKey(key, value)
	case sectionReadFeatures:
		return info.handleReadKey(key, value)
	case sectionWriteFeatures:
		return info.handleWriteKey(key, value)
	}
	return fmt.Errorf("key %q outside of any section", key)
}

func (info *Info) handleCodecKey(key, value string) error {
	switch key {
	case "layout":
		return parseInt(value, &info.Layout)
	case "version":
		info.Version = value
	case "name":
		info.Name = value
	case "description":
		info.Description = value
	case "extensions":
		info.Extensions = splitLower(value)
	case "mime-types":
		info.MIMETypes = splitLower(value)
	default:
		return fmt.Errorf("%w %q in [%s]", ErrUnsupportedKey, key, sectionCodec)
	}
	return nil
}

func (info *Info) handleReadKey(key, value string) error {
	r := &info.Read
	switch key {
	case "input-pixel-formats":
		return parseList(value, &r.InputPixelFormats, core.PixelFormatFromString)
	case "output-pixel-formats":
		return parseList(value, &r.OutputPixelFormats, core.PixelFormatFromString)
	case "preferred-output-pixel-format":
		f, err := core.PixelFormatFromString(value)
		if err != nil {
			return err
		}
		r.PreferredOutputPixelFormat = f
	case "features":
		return parseFlags(value, &r.Features, FeatureFromString)
	default:
		return fmt.Errorf("%w %q in [%s]", ErrUnsupportedKey, key, sectionReadFeatures)
	}
	return nil
}

func (info *Info) handleWriteKey(key, value string) error {
	w := &info.Write
	switch key {
	case "input-pixel-formats":
		return parseList(value, &w.InputPixelFormats, core.PixelFormatFromString)
	case "output-pixel-formats":
		return parseList(value, &w.OutputPixelFormats, core.PixelFormatFromString)
	case "preferred-output-pixel-format":
		f, err := core.PixelFormatFromString(value)
		if err != nil {
			return err
		}
		w.PreferredOutputPixelFormat = f
	case "features":
		return parseFlags(value, &w.Features, FeatureFromString)
	case "properties":
		return parseFlags(value, &w.Properties, PropertyFromString)
	case "interlaced-passes":
		return parseInt(value, &w.InterlacedPasses)
	case "compression-types":
		return parseList(value, &w.CompressionTypes, core.CompressionFromString)
	case "preferred-compression-type":
		c, err := core.CompressionFromString(value)
		if err != nil {
			return err
		}
		w.PreferredCompressionType = c
	case "compression-min":
		return parseInt(value, &w.CompressionMin)
	case "compression-max":
		return parseInt(value, &w.CompressionMax)
	case "compression-default":
		return parseInt(value, &w.CompressionDefault)
	default:
		return fmt.Errorf("%w %q in [%s]", ErrUnsupportedKey, key, sectionWriteFeatures)
	}
	return nil
}

// parseInt parses a decimal integer value. Non-numeric text is an explicit
// error here, not a silent zero.
func parseInt(value string, target *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*target = n
	return nil
}

// parseList resolves every semicolon-delimited element through the supplied
// converter. A single unresolvable element fails the whole key.
func parseList[T any](value string, target *[]T, convert func(string) (T, error)) error {
	elements := Split(value)
	out := make([]T, 0, len(elements))
	for _, element := range elements {
		v, err := convert(element)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*target = out
	return nil
}

// parseFlags ORs every semicolon-delimited element into target.
func parseFlags[T ~int](value string, target *T, convert func(string) (T, error)) error {
	*target = 0
	for _, element := range Split(value) {
		flag, err := convert(element)
		if err != nil {
			return err
		}
		*target |= flag
	}
	return nil
}

func splitLower(value string) []string {
	elements := Split(value)
	for i, e := range elements {
		elements[i] = strings.ToLower(e)
	}
	return elements
}
