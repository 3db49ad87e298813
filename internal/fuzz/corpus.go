package fuzz

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// LoadCorpusFile reads one input per line. Lines that decode as hex
// (optionally 0x-prefixed) are taken as binary; everything else is raw bytes.
func LoadCorpusFile(path string) ([]CorpusEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []CorpusEntry
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l := strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X")
		if decoded, errh := hex.DecodeString(l); errh == nil && len(decoded) > 0 {
			out = append(out, decoded)
		} else {
			out = append(out, []byte(line))
		}
	}
	return out, nil
}

// LoadCorpusDir reads every regular file in dir as one input.
func LoadCorpusDir(dir string) ([]CorpusEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []CorpusEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err == nil && len(b) > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

// SaveEntry persists data under a content-hash name so identical inputs
// dedupe. It returns the file path.
func SaveEntry(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	path := filepath.Join(dir, hex.EncodeToString(sum[:])+".bin")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// CorpusWatcher streams inputs written to a corpus directory while a campaign
// runs, so seeds collected elsewhere join the mutation pool without a restart.
type CorpusWatcher struct {
	w       *fsnotify.Watcher
	entries chan CorpusEntry
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

// WatchCorpus starts watching dir for created or rewritten input files.
func WatchCorpus(dir string) (*CorpusWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	cw := &CorpusWatcher{
		w:       w,
		entries: make(chan CorpusEntry, 128),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

func (cw *CorpusWatcher) loop() {
	defer close(cw.entries)
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			b, err := os.ReadFile(ev.Name)
			if err != nil || len(b) == 0 {
				continue
			}
			select {
			case cw.entries <- b:
			case <-cw.done:
				return
			default:
				// campaign is saturated; drop rather than stall the watcher
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			select {
			case cw.errs <- err:
			default:
			}
		case <-cw.done:
			return
		}
	}
}

// Entries returns the stream of new corpus inputs. It is closed by Close.
func (cw *CorpusWatcher) Entries() <-chan CorpusEntry { return cw.entries }

// Errors returns watcher errors. The channel holds at most one pending error.
func (cw *CorpusWatcher) Errors() <-chan error { return cw.errs }

// Close stops the watcher and closes the entry stream.
func (cw *CorpusWatcher) Close() error {
	cw.once.Do(func() { close(cw.done) })
	return cw.w.Close()
}
