// Package manifest loads and hot-reloads the region manifest the board
// simulation CLI uses to decide how many regions to provision and how big
// each should be. It never drives a live heap: heap.InitRegions may run at
// most once per heap.Heap, so a manifest reload only affects the next
// process/board-sim startup, not a running allocator.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// RegionDescriptor is one entry of a region manifest: the size, in bytes,
// of a board memory region to provision. Addresses are assigned by the
// arena provisioner at board-sim startup; the manifest only carries sizes
// and a human-readable name.
type RegionDescriptor struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Manifest is the parsed contents of a region-manifest file.
type Manifest struct {
	// ABI is a semver constraint (see heap.WithABI) the running build's
	// header-layout version must satisfy before trusting this manifest.
	ABI     string             `json:"abi"`
	Regions []RegionDescriptor `json:"regions"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	return &m, nil
}

// Watcher reloads a manifest file whenever it changes on disk, the way
// board bring-up configuration gets iterated on during development.
type Watcher struct {
	mu      sync.Mutex
	current *Manifest
	path    string
	w       *fsnotify.Watcher
	changed chan struct{}
}

// Watch loads path and begins watching it for changes.
func Watch(path string) (*Watcher, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("manifest: create watcher: %w", err)
	}

	if err := fw.Add(path); err != nil {
		_ = fw.Close()

		return nil, fmt.Errorf("manifest: watch %s: %w", path, err)
	}

	watcher := &Watcher{current: m, path: path, w: fw, changed: make(chan struct{}, 1)}
	go watcher.loop()

	return watcher, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			m, err := Load(w.path)
			if err != nil {
				continue
			}

			w.mu.Lock()
			w.current = m
			w.mu.Unlock()

			select {
			case w.changed <- struct{}{}:
			default:
			}
		case _, ok := <-w.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Current returns the most recently loaded manifest.
func (w *Watcher) Current() *Manifest {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.current
}

// Changed signals whenever a new manifest has been loaded.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Close stops watching the manifest file.
func (w *Watcher) Close() error { return w.w.Close() }
