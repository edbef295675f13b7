// Package viewer owns the mount lifecycle of one zoomable image: it probes the
// image size, then builds a zoom.Controller for it. A new image URI always
// gets a fresh controller.
package viewer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jakecoffman/zoom"
)

type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "empty"
}

// Resolver looks up the pixel size of the image at uri. *probe.Prober is
// the usual implementation.
type Resolver interface {
	Resolve(ctx context.Context, uri string) (zoom.Size, error)
}

type ResolverFunc func(ctx context.Context, uri string) (zoom.Size, error)

func (f ResolverFunc) Resolve(ctx context.Context, uri string) (zoom.Size, error) {
	return f(ctx, uri)
}

type result struct {
	uri  string
	size zoom.Size
	err  error
}

// Viewer is not safe for concurrent use. The probe runs on its own
// goroutine, but its result is only applied by Poll or Wait on the caller's
// goroutine.
type Viewer struct {
	container zoom.Size
	config    zoom.Config
	resolver  Resolver
	log       *log.Logger

	state      State
	uri        string
	size       zoom.Size
	err        error
	controller *zoom.Controller
	mountID    uuid.UUID

	pending chan result
	cancel  context.CancelFunc
}

func New(container zoom.Size, config zoom.Config, resolver Resolver) *Viewer {
	config = config.WithDefaults()
	return &Viewer{
		container: container,
		config:    config,
		resolver:  resolver,
		log:       config.Logger,
	}
}

func (v *Viewer) State() State {
	return v.state
}

func (v *Viewer) URI() string {
	return v.uri
}

// Err is the reason the last load failed.
func (v *Viewer) Err() error {
	return v.err
}

// Controller is nil unless the viewer is ready.
func (v *Viewer) Controller() *zoom.Controller {
	return v.controller
}

// MountID identifies the current controller. It is uuid.Nil when nothing is
// mounted.
func (v *Viewer) MountID() uuid.UUID {
	return v.mountID
}

// ImageSize is the probed size of the mounted image.
func (v *Viewer) ImageSize() zoom.Size {
	return v.size
}

// Load starts resolving uri in the background and unmounts the current
// image. Loading the URI that is already mounted or loading does nothing.
func (v *Viewer) Load(ctx context.Context, uri string) {
	if uri == v.uri && (v.state == StateLoading || v.state == StateReady) {
		return
	}
	v.Unmount()

	ctx, cancel := context.WithCancel(ctx)
	pending := make(chan result, 1)
	v.state = StateLoading
	v.uri = uri
	v.pending = pending
	v.cancel = cancel

	go func() {
		size, err := v.resolver.Resolve(ctx, uri)
		pending <- result{uri: uri, size: size, err: err}
	}()
}

// Mount shows uri at a size the caller already knows, without probing. It
// abandons any load in flight and returns with the viewer ready or failed.
// Mounting the URI that is already mounted does nothing.
func (v *Viewer) Mount(uri string, size zoom.Size) error {
	if uri == v.uri && v.state == StateReady {
		return nil
	}
	v.Unmount()
	v.uri = uri
	v.mount(uri, size)
	return v.err
}

// Poll applies a finished probe, if any, and reports whether the viewer left
// the loading state. It never blocks.
func (v *Viewer) Poll() bool {
	if v.pending == nil {
		return false
	}
	select {
	case r := <-v.pending:
		v.apply(r)
		return true
	default:
		return false
	}
}

// Wait blocks until the current load finishes and returns its error.
func (v *Viewer) Wait(ctx context.Context) error {
	if v.pending == nil {
		return v.err
	}
	select {
	case r := <-v.pending:
		v.apply(r)
		return v.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Show loads uri and waits for it.
func (v *Viewer) Show(ctx context.Context, uri string) error {
	v.Load(ctx, uri)
	return v.Wait(ctx)
}

// Unmount discards the controller and abandons any load in flight.
func (v *Viewer) Unmount() {
	if v.cancel != nil {
		v.cancel()
	}
	if v.controller != nil {
		v.log.Debug("unmounted", "mount", v.mountID, "uri", v.uri)
	}
	v.state = StateEmpty
	v.uri = ""
	v.size = zoom.Size{}
	v.err = nil
	v.controller = nil
	v.mountID = uuid.Nil
	v.pending = nil
	v.cancel = nil
}

func (v *Viewer) apply(r result) {
	v.pending = nil
	v.cancel()
	v.cancel = nil

	if r.err != nil {
		v.fail(r.uri, r.err)
		return
	}
	v.mount(r.uri, r.size)
}

func (v *Viewer) mount(uri string, size zoom.Size) {
	c, err := zoom.NewController(size, v.container, v.config)
	if err != nil {
		v.fail(uri, err)
		return
	}

	v.state = StateReady
	v.size = size
	v.controller = c
	v.mountID = uuid.New()
	v.log.Info("mounted", "mount", v.mountID, "uri", uri, "size", size, "container", v.container)
}

func (v *Viewer) fail(uri string, err error) {
	v.state = StateFailed
	v.err = fmt.Errorf("viewer: resolve %s: %w", uri, err)
	v.log.Warn("image failed", "uri", uri, "err", err)
}
