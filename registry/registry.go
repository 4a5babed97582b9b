// Package registry enumerates codec registration records, indexes them by
// extension and MIME type, and lazily resolves executable codec handles.
package registry

import (
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/happy-sea-fox/sail/codecinfo"
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// Declaration is one entry of the codec-declaration source set passed to
// Build. Text is the sectioned key/value declaration; Factory creates the
// executable codec states and may be nil for declaration-only records
// (resolution then fails with CodeCodecLoadFailed).
type Declaration struct {
	Path    string
	Text    string
	Factory core.CodecFactory
}

// Record is a single codec registration. Constructed once at registry build
// time; the executable handle is populated on first use and cached for the
// registry's lifetime.
type Record struct {
	Info    *codecinfo.Info
	factory core.CodecFactory
	handle  *Handle // guarded by the owning registry's mutex
}

// Handle is a resolved, validated executable codec. It creates fresh
// per-stream codec states.
type Handle struct {
	factory  core.CodecFactory
	canRead  bool
	canWrite bool
}

// NewReadState creates a fresh codec state for one load operation.
func (h *Handle) NewReadState() (core.ReadCodec, error) {
	if !h.canRead {
		return nil, apperrors.Newf(apperrors.CodeNotImplemented,
			"registry.read-state", "codec does not implement the read direction")
	}
	c, ok := h.factory().(core.ReadCodec)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed,
			"registry.read-state", "factory stopped producing read codecs")
	}
	return c, nil
}

// NewWriteState creates a fresh codec state for one save operation.
func (h *Handle) NewWriteState() (core.WriteCodec, error) {
	if !h.canWrite {
		return nil, apperrors.Newf(apperrors.CodeNotImplemented,
			"registry.write-state", "codec does not implement the write direction")
	}
	c, ok := h.factory().(core.WriteCodec)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed,
			"registry.write-state", "factory stopped producing write codecs")
	}
	return c, nil
}

// Registry is an ordered sequence of codec registration records. It is
// built once and is safe for concurrent lookup; handle resolution and
// release serialize through an internal lock.
type Registry struct {
	mu      sync.RWMutex
	records []*Record
	log     core.Logger
}

// Build parses each declaration into a registration record. Individually
// failing declarations are skipped and logged without aborting the whole
// build; one bad codec must not prevent loading the rest.
func Build(decls []Declaration, log core.Logger) *Registry {
	if log == nil {
		log = core.NopLogger{}
	}
	r := &Registry{log: log}

	for _, decl := range decls {
		info, err := codecinfo.Parse(strings.NewReader(decl.Text), decl.Path)
		if err != nil {
			log.Warn("registry.build.skip", "path", decl.Path, "error", err.Error())
			continue
		}
		log.Debug("registry.build.codec", "path", decl.Path, "name", info.Name)
		r.records = append(r.records, &Record{Info: info, factory: decl.Factory})
	}
	return r
}

// BuildFromFS scans dir in fsys for *.codec.info declarations and builds a
// registry from them, resolving factories by declared codec name. It fails
// only when the declaration source itself is unreachable.
func BuildFromFS(fsys fs.FS, dir string, factories map[string]core.CodecFactory, log core.Logger) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFileOpen, "registry.build", err)
	}

	var decls []Declaration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".codec.info") {
			continue
		}
		p := path.Join(dir, entry.Name())
		text, err := fs.ReadFile(fsys, p)
		if err != nil {
			if log != nil {
				log.Warn("registry.build.skip", "path", p, "error", err.Error())
			}
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".codec.info")
		decls = append(decls, Declaration{Path: p, Text: string(text), Factory: factories[name]})
	}
	return Build(decls, log), nil
}

// Records returns the registration records in registration order.
func (r *Registry) Records() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records
}

// FindByExtension returns the first record, in registration order, whose
// declared extensions contain ext (case-insensitive). The second return is
// false when no codec claims the extension; that is not an error.
func (r *Registry) FindByExtension(ext string) (*Record, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		for _, e := range rec.Info.Extensions {
			if e == ext {
				return rec, true
			}
		}
	}
	return nil, false
}

// FindByMIME returns the first record whose declared MIME types contain
// mime (case-insensitive).
func (r *Registry) FindByMIME(mime string) (*Record, bool) {
	mime = strings.ToLower(mime)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		for _, m := range rec.Info.MIMETypes {
			if m == mime {
				return rec, true
			}
		}
	}
	return nil, false
}

// Resolve returns the record's executable handle, loading and validating it
// on first use. The handle is cached for the registry's lifetime; a failure
// is fatal for this record only.
func (r *Registry) Resolve(rec *Record) (*Handle, error) {
	const op = "registry.resolve"

	if rec == nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, op, "nil record")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.handle != nil {
		return rec.handle, nil
	}
	if rec.factory == nil {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed, op,
			"no codec implementation registered for %q", rec.Info.Path)
	}

	probe := rec.factory()
	if probe == nil {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed, op,
			"factory for %q produced no codec", rec.Info.Path)
	}
	_, canRead := probe.(core.ReadCodec)
	_, canWrite := probe.(core.WriteCodec)

	// A codec missing the entry points for a direction it declares
	// support for is malformed.
	if rec.Info.CanRead() && !canRead {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed, op,
			"codec %q declares read support but lacks the load entry points", rec.Info.Path)
	}
	if rec.Info.CanWrite() && !canWrite {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed, op,
			"codec %q declares write support but lacks the save entry points", rec.Info.Path)
	}
	if !canRead && !canWrite {
		return nil, apperrors.Newf(apperrors.CodeCodecLoadFailed, op,
			"codec %q implements neither direction", rec.Info.Path)
	}

	rec.handle = &Handle{factory: rec.factory, canRead: canRead, canWrite: canWrite}
	r.log.Debug("registry.resolve.loaded", "codec", rec.Info.Name)
	return rec.handle, nil
}

// ReleaseAll drops all cached executable handles but keeps the registration
// records; subsequent Resolve calls re-resolve.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		rec.handle = nil
	}
}

// Teardown destroys the registry: handles and records together. The
// registry must not be used afterwards.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
