package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/pls/pkg/log"
	"github.com/macropower/pls/pkg/pls"
)

// Event represents a change in the watched playlist.
type Event any

type (
	// EventStart indicates that the playlist is being re-read.
	EventStart struct {
		Path string
	}

	// EventEnd carries the result of re-reading the playlist.
	EventEnd struct {
		Err      error
		Path     string
		Elements []pls.Element
	}
)

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithParseOpts sets the options used when parsing the playlist.
func WithParseOpts(opts ...pls.ParseOpt) Opt {
	return func(w *Watcher) {
		w.parseOpts = opts
	}
}

// WithDecoder replaces the function used to read the playlist.
func WithDecoder(fn func(data []byte) ([]pls.Element, error)) Opt {
	return func(w *Watcher) {
		w.decode = fn
	}
}

// Watcher re-parses a playlist file on change.
type Watcher struct {
	tracer    trace.Tracer
	watcher   *fsnotify.Watcher
	decode    func(data []byte) ([]pls.Element, error)
	path      string
	listeners []chan<- Event
	parseOpts []pls.ParseOpt
	mu        sync.Mutex
}

// New creates a [Watcher] for the playlist at path.
func New(path string, opts ...Opt) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		tracer:  otel.Tracer("playlist-watcher"),
		watcher: fw,
		path:    absPath,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.decode == nil {
		w.decode = func(data []byte) ([]pls.Element, error) {
			return pls.Parse(bytes.NewReader(data), w.parseOpts...)
		}
	}

	// Watch the directory so that editors replacing the file are noticed.
	err = fw.Add(filepath.Dir(absPath))
	if err != nil {
		closeErr := fw.Close()

		return nil, errors.Join(fmt.Errorf("add path to watcher: %w", err), closeErr)
	}

	return w, nil
}

// Path returns the absolute path of the watched playlist.
func (w *Watcher) Path() string {
	return w.path
}

// Subscribe registers ch to receive [Event]s.
func (w *Watcher) Subscribe(ch chan<- Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.listeners = append(w.listeners, ch)
}

// Load reads the playlist once, broadcasting the result.
func (w *Watcher) Load(ctx context.Context) EventEnd {
	ctx, span := w.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("path", w.path),
	))
	defer span.End()

	w.broadcast(ctx, EventStart{Path: w.path})

	end := EventEnd{Path: w.path}

	data, err := os.ReadFile(w.path)
	if err != nil {
		end.Err = fmt.Errorf("read playlist: %w", err)
	} else {
		end.Elements, end.Err = w.decode(data)
	}

	if end.Err != nil {
		span.RecordError(end.Err)
		span.SetStatus(codes.Error, "load failed")
	} else {
		span.SetAttributes(attribute.Int("entries", len(end.Elements)))
	}

	w.broadcast(ctx, end)

	return end
}

// Run handles filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger := log.WithContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "playlist changed",
				slog.String("event", evt.String()),
			)

			w.Load(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch playlist", slog.Any("error", err))
			w.broadcast(ctx, EventEnd{Path: w.path, Err: fmt.Errorf("watch: %w", err)})
		}
	}
}

// Close stops watching. A blocked [Watcher.Run] returns.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

func (w *Watcher) broadcast(ctx context.Context, evt Event) {
	w.mu.Lock()
	listeners := w.listeners
	w.mu.Unlock()

	log.WithContext(ctx).DebugContext(ctx, "broadcasting event",
		slog.String("event", fmt.Sprintf("%T", evt)),
	)

	for _, ch := range listeners {
		select {
		case ch <- evt:
		case <-ctx.Done():
			return
		}
	}
}
