// Package fuzz implements a small byte-level fuzzing engine used to soak the
// deque against a reference model. Inputs are opaque byte strings; the caller
// supplies a Target that interprets them.
package fuzz

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// CorpusEntry is a single seed input.
type CorpusEntry []byte

// Target runs one input. A non-nil error or a panic counts as a crash.
type Target func(data []byte) error

// Mutator derives a candidate input from a parent.
type Mutator func(r *rand.Rand, in []byte) []byte

// errInputBudget marks inputs that exceeded the per-input time budget.
var errInputBudget = errors.New("input budget exceeded")

// Options controls a fuzzing campaign.
type Options struct {
	Duration          time.Duration      // total fuzz time (default 3s)
	Seed              int64              // PRNG seed (0 = time)
	MaxInput          int                // max candidate size in bytes
	Concurrency       int                // parallel workers
	InputBudget       time.Duration      // per-input time budget (0 = none)
	MutationIntensity float64            // 1.0 = baseline; <=0 uses default
	AutoTune          bool               // adapt intensity to the crash rate
	MaxExecs          uint64             // stop after this many executions (0 = unlimited)
	Stream            <-chan CorpusEntry // live seed feed, e.g. from a corpus watcher
}

// Stats holds aggregate counters for a campaign.
type Stats struct {
	Executions uint64
	Crashes    uint64
}

// Run executes a time-bounded fuzzing campaign, discarding counters.
func Run(ctx context.Context, opts Options, corpus []CorpusEntry, target Target, mut Mutator, crashes io.Writer) {
	_ = RunWithStats(ctx, opts, corpus, target, mut, crashes)
}

// RunWithStats executes a fuzzing campaign and returns aggregate counters.
// Each crash is written to crashes as one line: RFC3339Nano timestamp, the
// hex-encoded input with a 0x prefix, and the error text, tab-separated.
func RunWithStats(ctx context.Context, opts Options, corpus []CorpusEntry, target Target, mut Mutator, crashes io.Writer) Stats {
	if opts.Duration <= 0 {
		opts.Duration = 3 * time.Second
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.MaxInput <= 0 {
		opts.MaxInput = 1 << 12
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	var level atomic.Uint64
	if opts.MutationIntensity > 0 {
		level.Store(uint64(opts.MutationIntensity * 100))
	} else {
		level.Store(100)
	}
	if mut == nil {
		if opts.AutoTune || opts.MutationIntensity > 0 {
			mut = AdaptiveMutator(&level)
		} else {
			mut = DefaultMutator()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	jobs := make(chan []byte, 1024)
	go func() {
		for _, c := range corpus {
			if len(c) == 0 {
				continue
			}
			select {
			case jobs <- append([]byte(nil), c...):
			case <-ctx.Done():
				return
			}
		}
		select {
		case jobs <- []byte("deque-fuzz-seed"):
		case <-ctx.Done():
		}
	}()
	if opts.Stream != nil {
		go func() {
			for {
				select {
				case e, ok := <-opts.Stream:
					if !ok {
						return
					}
					if len(e) == 0 {
						continue
					}
					select {
					case jobs <- append([]byte(nil), e...):
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	var (
		execs   atomic.Uint64
		crashed atomic.Uint64
		crashMu sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Concurrency; w++ {
		r := rand.New(rand.NewSource(deriveSeed(opts.Seed, w)))
		g.Go(func() error {
			cur := []byte("deque")
			for gctx.Err() == nil {
				select {
				case j := <-jobs:
					cur = j
				default:
				}

				cand := mut(r, cur)
				if len(cand) > opts.MaxInput {
					cand = cand[:opts.MaxInput]
				}

				err := runOne(target, cand, opts.InputBudget)
				n := execs.Add(1)
				if err != nil {
					crashed.Add(1)
					if crashes != nil {
						crashMu.Lock()
						fmt.Fprintf(crashes, "%s\t0x%s\t%s\n",
							time.Now().Format(time.RFC3339Nano), hex.EncodeToString(cand), err.Error())
						crashMu.Unlock()
					}
					if opts.AutoTune {
						retune(&level, execs.Load(), crashed.Load())
					}
				}
				if opts.MaxExecs > 0 && n >= opts.MaxExecs {
					cancel()
					return nil
				}
				cur = cand
			}
			return nil
		})
	}
	_ = g.Wait()

	return Stats{Executions: execs.Load(), Crashes: crashed.Load()}
}

// runOne executes a single input, optionally racing it against a time budget.
func runOne(target Target, data []byte, budget time.Duration) error {
	if budget <= 0 {
		return callTargetSafe(target, data)
	}
	ch := make(chan error, 1)
	go func(d []byte) { ch <- callTargetSafe(target, d) }(data)
	select {
	case err := <-ch:
		return err
	case <-time.After(budget):
		return errInputBudget
	}
}

// callTargetSafe invokes the target and converts panics into errors.
func callTargetSafe(t Target, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t(data)
}

// retune nudges mutation intensity every 1000 executions: up when crashes are
// rare, down when they dominate the run.
func retune(level *atomic.Uint64, execs, crashes uint64) {
	if execs == 0 || execs%1000 != 0 {
		return
	}
	rate := float64(crashes) / float64(execs)
	cur := level.Load()
	switch {
	case rate < 0.0005 && cur < 300:
		level.Store(cur + 10)
	case rate > 0.01 && cur > 80:
		level.Store(cur - 10)
	}
}

// deriveSeed mixes a base seed with a worker index so workers explore
// different trajectories while the whole run stays reproducible.
func deriveSeed(base int64, salt int) int64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(base))
	binary.LittleEndian.PutUint64(b[8:16], uint64(salt))
	sum := sha256.Sum256(b[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
