// Package sail is an image decoding and encoding framework built around
// declared codec capabilities. Codecs publish what they can read and
// write; the library negotiates formats, drives the per-frame codec
// lifecycle, and normalizes pixels into canonical interleaved layouts.
//
// The one-call helpers on Context cover the common cases; the driver,
// registry, and convert packages expose the individual stages for callers
// that need frame-by-frame control.
package sail

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/happy-sea-fox/sail/codecinfo"
	"github.com/happy-sea-fox/sail/codecs/gif"
	"github.com/happy-sea-fox/sail/codecs/png"
	"github.com/happy-sea-fox/sail/codecs/webp"
	"github.com/happy-sea-fox/sail/config"
	"github.com/happy-sea-fox/sail/convert"
	"github.com/happy-sea-fox/sail/core"
	"github.com/happy-sea-fox/sail/driver"
	apperrors "github.com/happy-sea-fox/sail/errors"
	"github.com/happy-sea-fox/sail/registry"
	"github.com/happy-sea-fox/sail/stream"
	"github.com/happy-sea-fox/sail/utils"
)

// ─────────────────────────────────────────────────────────────────────────────
// Context
// ─────────────────────────────────────────────────────────────────────────────

// Context owns a codec registry and the configuration the high-level
// helpers run with. Contexts are safe for concurrent use; each helper
// call drives its own codec state.
type Context struct {
	cfg *config.Config
	reg *registry.Registry
	log core.Logger
}

// builtinDeclarations lists the codecs compiled into the library, in
// lookup priority order.
func builtinDeclarations() []registry.Declaration {
	return []registry.Declaration{
		{Path: "builtin:gif", Text: gif.Declaration, Factory: gif.New},
		{Path: "builtin:png", Text: png.Declaration, Factory: png.New},
		{Path: "builtin:webp", Text: webp.Declaration, Factory: webp.New},
	}
}

// NewContext builds a context with the built-in codecs registered. A nil
// config uses config.Default(); a nil logger discards output. When the
// config names a codec-info directory, its declarations are registered
// after the built-ins.
func NewContext(cfg *config.Config, log core.Logger) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = core.NopLogger{}
	}

	decls := builtinDeclarations()
	if cfg.CodecInfoDir != "" {
		extra, err := externalDeclarations(cfg.CodecInfoDir, log)
		if err != nil {
			return nil, err
		}
		decls = append(decls, extra...)
	}

	return &Context{
		cfg: cfg,
		reg: registry.Build(decls, log),
		log: log,
	}, nil
}

// externalDeclarations reads *.codec.info files from dir. External
// declarations carry no factory; they resolve only if a caller registers
// an implementation through the registry directly.
func externalDeclarations(dir string, log core.Logger) ([]registry.Declaration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileOpen, "context.new", err)
	}

	var decls []registry.Declaration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".codec.info") {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		text, err := os.ReadFile(p)
		if err != nil {
			log.Warn("context.declarations.skip", "path", p, "error", err.Error())
			continue
		}
		decls = append(decls, registry.Declaration{Path: p, Text: string(text)})
	}
	return decls, nil
}

// Registry exposes the codec registry for frame-by-frame workflows.
func (c *Context) Registry() *registry.Registry { return c.reg }

// CodecByExtension looks up a codec declaration by file extension, with
// or without the leading dot.
func (c *Context) CodecByExtension(ext string) (*codecinfo.Info, bool) {
	rec, ok := c.reg.FindByExtension(ext)
	if !ok {
		return nil, false
	}
	return rec.Info, true
}

// CodecByMIME looks up a codec declaration by MIME type.
func (c *Context) CodecByMIME(mime string) (*codecinfo.Info, bool) {
	rec, ok := c.reg.FindByMIME(mime)
	if !ok {
		return nil, false
	}
	return rec.Info, true
}

// Finish tears the context down. The context must not be used afterwards.
func (c *Context) Finish() {
	c.reg.Teardown()
}

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

// ReadFile decodes the first frame of the file at path, choosing the
// codec by file extension, and normalizes it to the requested output
// pixel format (or the configured default).
func (c *Context) ReadFile(path string, opts *core.LoadOptions) (*core.Image, error) {
	const op = "context.read-file"

	rec, ok := c.reg.FindByExtension(filepath.Ext(path))
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec claims the extension of %q", path)
	}

	st, err := stream.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return c.readFirstFrame(rec, st, opts)
}

// ReadMem decodes the first frame of an in-memory encoded image, choosing
// the codec by sniffing the leading bytes.
func (c *Context) ReadMem(data []byte, opts *core.LoadOptions) (*core.Image, error) {
	const op = "context.read-mem"

	name := utils.DetectFormat(data)
	if name == "" {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"could not detect the image format from the data")
	}
	rec, ok := c.reg.FindByExtension(name)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec registered for detected format %q", name)
	}

	return c.readFirstFrame(rec, stream.OpenMem(data), opts)
}

func (c *Context) readFirstFrame(rec *registry.Record, st stream.Stream, opts *core.LoadOptions) (*core.Image, error) {
	handle, err := c.reg.Resolve(rec)
	if err != nil {
		return nil, err
	}
	codec, err := handle.NewReadState()
	if err != nil {
		return nil, err
	}

	loader := driver.NewLoader(codec)
	if err := loader.Init(st, opts); err != nil {
		return nil, err
	}

	img, err := loader.NextFrame()
	if err != nil {
		loader.Finish()
		return nil, err
	}
	if err := loader.ReadFrame(img); err != nil {
		loader.Finish()
		return nil, err
	}
	if err := loader.Finish(); err != nil {
		return nil, err
	}

	desired := c.cfg.DefaultOutputPixelFormat
	if opts != nil && opts.OutputPixelFormat != core.PixelFormatUnknown {
		desired = opts.OutputPixelFormat
	}
	if img.PixelFormat == desired {
		return img, nil
	}
	return convert.Convert(img, desired)
}

// Probe reads the properties of the first frame of the file at path
// without decoding pixel data. It returns the frame descriptor and the
// codec declaration that handled it.
func (c *Context) Probe(path string) (*core.Image, *codecinfo.Info, error) {
	const op = "context.probe"

	rec, ok := c.reg.FindByExtension(filepath.Ext(path))
	if !ok {
		return nil, nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec claims the extension of %q", path)
	}

	st, err := stream.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	return c.probe(rec, st)
}

// ProbeMem probes an in-memory encoded image.
func (c *Context) ProbeMem(data []byte) (*core.Image, *codecinfo.Info, error) {
	const op = "context.probe-mem"

	name := utils.DetectFormat(data)
	if name == "" {
		return nil, nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"could not detect the image format from the data")
	}
	rec, ok := c.reg.FindByExtension(name)
	if !ok {
		return nil, nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec registered for detected format %q", name)
	}
	return c.probe(rec, stream.OpenMem(data))
}

func (c *Context) probe(rec *registry.Record, st stream.Stream) (*core.Image, *codecinfo.Info, error) {
	handle, err := c.reg.Resolve(rec)
	if err != nil {
		return nil, nil, err
	}
	codec, err := handle.NewReadState()
	if err != nil {
		return nil, nil, err
	}

	loader := driver.NewLoader(codec)
	if err := loader.Init(st, nil); err != nil {
		return nil, nil, err
	}
	img, err := loader.NextFrame()
	if err != nil {
		loader.Finish()
		return nil, nil, err
	}
	if err := loader.Finish(); err != nil {
		return nil, nil, err
	}

	// Properties only; the pixels were never read.
	img.Pixels = nil
	return img, rec.Info, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Saving
// ─────────────────────────────────────────────────────────────────────────────

// WriteFile encodes img into the file at path, choosing the codec by file
// extension. When the codec does not accept the image's pixel format
// directly, the image is converted to a format the codec declares.
func (c *Context) WriteFile(path string, img *core.Image, opts *core.SaveOptions) error {
	const op = "context.write-file"

	rec, ok := c.reg.FindByExtension(filepath.Ext(path))
	if !ok {
		return apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec claims the extension of %q", path)
	}

	st, err := stream.CreateFile(path)
	if err != nil {
		return err
	}
	if err := c.writeSingleFrame(rec, st, img, opts); err != nil {
		st.Close()
		return err
	}
	return st.Close()
}

// WriteMem encodes img into memory. ext names the target format the same
// way a file extension would ("png", ".gif").
func (c *Context) WriteMem(ext string, img *core.Image, opts *core.SaveOptions) ([]byte, error) {
	const op = "context.write-mem"

	rec, ok := c.reg.FindByExtension(ext)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedCodecSchema, op,
			"no codec registered for format %q", ext)
	}

	st := stream.CreateMem()
	if err := c.writeSingleFrame(rec, st, img, opts); err != nil {
		return nil, err
	}
	return st.Bytes(), nil
}

func (c *Context) writeSingleFrame(rec *registry.Record, st stream.Stream, img *core.Image, opts *core.SaveOptions) error {
	const op = "context.write"

	if !rec.Info.CanWrite() {
		return apperrors.Newf(apperrors.CodeNotImplemented, op,
			"codec %q cannot write", rec.Info.Name)
	}
	if err := img.ValidateWithPixels(); err != nil {
		return err
	}

	prepared, err := c.prepareForCodec(img, rec.Info)
	if err != nil {
		return err
	}

	handle, err := c.reg.Resolve(rec)
	if err != nil {
		return err
	}
	codec, err := handle.NewWriteState()
	if err != nil {
		return err
	}

	saver := driver.NewSaver(codec)
	if err := saver.Init(st, opts); err != nil {
		return err
	}
	if err := saver.NextFrame(prepared); err != nil {
		saver.Finish()
		return err
	}
	if err := saver.WriteFrame(prepared); err != nil {
		saver.Finish()
		return err
	}
	return saver.Finish()
}

// prepareForCodec returns img unchanged when the codec declares its pixel
// format as a write input; otherwise it converts to the first declared
// input format the conversion engine can produce.
func (c *Context) prepareForCodec(img *core.Image, info *codecinfo.Info) (*core.Image, error) {
	for _, f := range info.Write.InputPixelFormats {
		if f == img.PixelFormat {
			return img, nil
		}
	}
	for _, f := range info.Write.InputPixelFormats {
		out, err := convert.Convert(img, f)
		if err == nil {
			c.log.Debug("context.write.converted", "from", img.PixelFormat.String(), "to", f.String())
			return out, nil
		}
		if !apperrors.IsCode(err, apperrors.CodeUnsupportedPixelFormat) {
			return nil, err
		}
	}
	return nil, apperrors.Newf(apperrors.CodeUnsupportedPixelFormat, "context.write",
		"codec %q accepts none of the pixel formats reachable from %s",
		info.Name, img.PixelFormat)
}
