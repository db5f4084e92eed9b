package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileProvider loads Config from a local file and watches it for changes.
//
// Watches the containing directory rather than the file itself, since some
// filesystems (and most editors' save-via-rename behavior) don't support
// watching a single file path directly, then debounces reload events.
type FileProvider struct {
	path string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

func NewFileProvider(path string) (*FileProvider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve path: %w", err)
	}
	return &FileProvider{path: absPath}, nil
}

// Load reads and validates the config file.
func (p *FileProvider) Load() (*Config, error) {
	return Load(p.path)
}

// Watch starts watching the config file for changes, sending the reloaded
// Config on the returned channel. The channel closes when ctx is done.
func (p *FileProvider) Watch(ctx context.Context) (<-chan *Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("config: provider is closed")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create file watcher: %w", err)
	}
	p.watcher = watcher

	dir := filepath.Dir(p.path)
	file := filepath.Base(p.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watch directory %s: %w", dir, err)
	}

	ch := make(chan *Config, 1)
	go p.watchLoop(ctx, watcher, file, ch)

	slog.Info("config: watching for changes", "path", p.path)
	return ch, nil
}

func (p *FileProvider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, file string, ch chan<- *Config) {
	defer close(ch)
	defer watcher.Close()

	var debounce *time.Timer
	const delay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(delay, func() {
				cfg, err := p.Load()
				if err != nil {
					slog.Warn("config: reload failed, keeping previous config", "path", p.path, "error", err)
					return
				}
				select {
				case ch <- cfg:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config: watcher error", "error", err)
		}
	}
}

// Close stops watching and releases resources.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.watcher != nil {
		err := p.watcher.Close()
		p.watcher = nil
		return err
	}
	return nil
}
