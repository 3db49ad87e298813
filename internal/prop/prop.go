// Package prop is a small property-testing runner: generate random inputs,
// check a predicate over many trials, and shrink the first failing input to
// a minimal counterexample. Trial seeds derive deterministically from the
// base seed so failures reproduce from the reported seed alone.
package prop

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"runtime"
	"time"
)

// Generator produces a value of type T from a PRNG and a size hint.
type Generator[T any] func(r *rand.Rand, size int) T

// Shrinker produces candidate smaller values that aim to preserve failure.
type Shrinker[T any] func(v T) []T

// Property is a predicate over a generated value.
type Property[A any] func(a A) bool

// Options control property checking.
type Options struct {
	Trials          int           // number of trials; default 200
	Seed            int64         // base random seed; 0 means time.Now().UnixNano()
	Size            int           // size hint passed to generators
	Parallelism     int           // trial workers; <=0 means GOMAXPROCS
	MaxShrinkRounds int           // limit for shrinking attempts
	MaxShrinkTime   time.Duration // wall time limit for shrinking; 0 to disable
}

// Result is the outcome of a property check.
type Result struct {
	PassedTrials int
	Failed       bool
	FailingInput any
	ShrunkInput  any
	Seed         int64
	Duration     time.Duration
	ShrinkRounds int
}

// ForAll checks a property with the provided generator and optional shrinker.
// Trials run in parallel; the first failure cancels the rest and is shrunk
// synchronously.
func ForAll[A any](gen Generator[A], shrink Shrinker[A], check Property[A], opts Options) Result {
	start := time.Now()
	if opts.Trials <= 0 {
		opts.Trials = 200
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Size <= 0 {
		opts.Size = 30
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = max(runtime.GOMAXPROCS(0), 1)
	}
	if opts.MaxShrinkRounds <= 0 {
		opts.MaxShrinkRounds = 200
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	type outcome struct {
		a  A
		ok bool
	}
	trials := make(chan int)
	outs := make(chan outcome)

	for w := 0; w < opts.Parallelism; w++ {
		go func() {
			for idx := range trials {
				// deterministic seed per trial
				r := rand.New(rand.NewSource(deriveSeed(opts.Seed, idx)))
				a := gen(r, opts.Size)
				select {
				case outs <- outcome{a: a, ok: check(a)}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		defer close(trials)
		for i := 0; i < opts.Trials; i++ {
			select {
			case trials <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	res := Result{Seed: opts.Seed}
	for completed := 0; completed < opts.Trials; completed++ {
		o := <-outs
		if o.ok {
			res.PassedTrials++
			continue
		}
		res.Failed = true
		res.FailingInput = o.a
		cancel()
		if shrink != nil {
			res.ShrunkInput, res.ShrinkRounds = shrinkInput(o.a, shrink, check, opts)
		}
		break
	}
	res.Duration = time.Since(start)
	return res
}

// shrinkInput walks shrink candidates greedily, keeping the first candidate
// that still fails the property, until no candidate fails or a budget runs
// out.
func shrinkInput[A any](failing A, shrink Shrinker[A], check Property[A], opts Options) (A, int) {
	var deadline time.Time
	if opts.MaxShrinkTime > 0 {
		deadline = time.Now().Add(opts.MaxShrinkTime)
	}
	best := failing
	rounds := 0
	for rounds < opts.MaxShrinkRounds {
		if opts.MaxShrinkTime > 0 && time.Now().After(deadline) {
			break
		}
		progressed := false
		for _, c := range shrink(best) {
			if !check(c) {
				best = c
				progressed = true
				break
			}
		}
		rounds++
		if !progressed {
			break
		}
	}
	return best, rounds
}

// deriveSeed deterministically mixes the base seed with the trial index via
// SHA-256 so trial streams are independent.
func deriveSeed(base int64, idx int) int64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(base))
	binary.LittleEndian.PutUint64(b[8:16], uint64(idx))
	h := sha256.Sum256(b[:])
	return int64(binary.LittleEndian.Uint64(h[0:8]))
}
