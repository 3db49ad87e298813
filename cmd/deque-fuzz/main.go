// Command deque-fuzz soaks the deque against a slice model by interpreting
// mutated byte strings as operation scripts.
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/orizon-lang/deque/internal/fuzz"
)

func main() {
	var (
		dur        time.Duration
		seed       int64
		maxInput   int
		workers    int
		corpusPath string
		corpusDir  string
		corpusOut  string
		watch      bool
		outPath    string
		crashDir   string
		targetKind string
		soak       bool
		lang       string
		minimize   string
		minOnCrash bool
		minDir     string
		minBudget  time.Duration
		per        time.Duration
		saveSeed   string
		printStats bool
		jsonStats  string
		covOut     string
		covStats   bool
		intensity  float64
		autotune   bool
		maxExecs   uint64
		verbose    bool
		debugMode  bool
	)

	flag.DurationVar(&dur, "duration", 5*time.Second, "fuzzing duration")
	flag.Int64Var(&seed, "seed", 0, "random seed (0=time)")
	flag.IntVar(&maxInput, "max", 4096, "max input size")
	flag.IntVar(&workers, "p", defaultWorkers(), "parallel workers")
	flag.StringVar(&corpusPath, "corpus", "", "optional corpus file (one input per line, hex or raw)")
	flag.StringVar(&corpusDir, "corpus-dir", "", "optional corpus directory (each file is an input)")
	flag.StringVar(&corpusOut, "corpus-out", "", "directory to save inputs that reach new state edges")
	flag.BoolVar(&watch, "watch", false, "watch -corpus-dir and feed new files into the running campaign")
	flag.StringVar(&outPath, "out", "", "optional crashes output file")
	flag.StringVar(&crashDir, "crash-dir", "", "optional directory to save each crashing input as a file")
	flag.StringVar(&targetKind, "target", "ops", "target selector (ops|noop)")
	flag.BoolVar(&soak, "soak", false, "generate fresh random scripts instead of mutating prior inputs")
	flag.StringVar(&lang, "lang", "en", "message language (ja|en)")
	flag.StringVar(&minimize, "minimize", "", "minimize a crashing input from file to -out (skips fuzz loop)")
	flag.BoolVar(&minOnCrash, "min-on-crash", false, "minimize crashing inputs to -min-dir")
	flag.StringVar(&minDir, "min-dir", "", "directory to write minimized crashes (default=./crashes_min)")
	flag.DurationVar(&minBudget, "min-budget", 2*time.Second, "time budget for per-crash minimization")
	flag.DurationVar(&per, "per", 0, "per-input timeout (0=none)")
	flag.StringVar(&saveSeed, "save-seed", "", "optional path to write the used random seed")
	flag.BoolVar(&printStats, "stats", false, "print execution/crash statistics at end")
	flag.StringVar(&jsonStats, "json-stats", "", "write execution/crash stats as JSON to file")
	flag.StringVar(&covOut, "covout", "", "write visited state edges to file during fuzzing")
	flag.BoolVar(&covStats, "covstats", false, "print state-edge coverage summary")
	flag.Float64Var(&intensity, "intensity", 0, "mutation intensity factor (1.0=default). 0=auto")
	flag.BoolVar(&autotune, "autotune", false, "enable adaptive mutation intensity")
	flag.Uint64Var(&maxExecs, "max-execs", 0, "stop after this many executions (0=unlimited)")
	flag.BoolVar(&verbose, "v", false, "verbose progress output")
	flag.BoolVar(&debugMode, "debug", false, "debug output")
	flag.Parse()

	L := getLocale(lang)
	lg := logger{out: os.Stderr, verbose: verbose, debug: debugMode}

	// Fix the seed here so it is known to the user and reproducible.
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if saveSeed != "" {
		_ = os.WriteFile(saveSeed, []byte(fmt.Sprintf("%d\n", seed)), 0o644)
	}
	lg.Info("seed=%d workers=%d", seed, workers)

	target := chooseTarget(targetKind)

	if minimize != "" {
		if outPath == "" {
			fatal("-minimize requires an -out destination")
		}
		b, err := os.ReadFile(minimize)
		if err != nil {
			fatal("failed to read input: ", err)
		}
		lg.Info("minimizing %d bytes from %s", len(b), minimize)
		small := fuzz.Minimize(seed, b, target, dur)
		if err := os.WriteFile(outPath, small, 0o644); err != nil {
			fatal("failed to write output: ", err)
		}
		lg.Info("wrote %d bytes to %s", len(small), outPath)
		fmt.Println(L.done())
		return
	}

	var corpus []fuzz.CorpusEntry
	if corpusPath != "" {
		entries, err := fuzz.LoadCorpusFile(corpusPath)
		if err != nil {
			fatal("failed to read corpus: ", err)
		}
		corpus = append(corpus, entries...)
	}
	if corpusDir != "" {
		entries, err := fuzz.LoadCorpusDir(corpusDir)
		if err != nil {
			fatal("failed to read corpus dir: ", err)
		}
		corpus = append(corpus, entries...)
	}
	if corpusPath != "" || corpusDir != "" {
		lg.Info("loaded %d corpus entries", len(corpus))
	}

	opts := fuzz.Options{
		Duration:          dur,
		Seed:              seed,
		MaxInput:          maxInput,
		Concurrency:       workers,
		InputBudget:       per,
		MutationIntensity: intensity,
		AutoTune:          autotune,
		MaxExecs:          maxExecs,
	}

	if watch {
		if corpusDir == "" {
			fatal("-watch requires -corpus-dir")
		}
		cw, err := fuzz.WatchCorpus(corpusDir)
		if err != nil {
			fatal("failed to watch corpus dir: ", err)
		}
		defer cw.Close()
		lg.Info("watching %s", corpusDir)
		go func() {
			for err := range cw.Errors() {
				fmt.Fprintln(os.Stderr, "corpus watch:", err)
			}
		}()
		opts.Stream = cw.Entries()
	}

	var out io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fatal("failed to open output: ", err)
		}
		defer f.Close()
		out = f
	}

	// Optional coverage collection wrapper (thread-safe log + unique set).
	wrapped := target
	var covMu sync.Mutex
	covSeen := make(map[uint64]struct{})
	if covOut != "" || covStats || corpusOut != "" {
		var logf io.Writer
		if covOut != "" {
			f, err := os.Create(covOut)
			if err != nil {
				fatal("failed to open covout: ", err)
			}
			defer f.Close()
			logf = f
		}

		wrapped = func(data []byte) error {
			edges := computeCoverage(data)

			covMu.Lock()
			if logf != nil {
				for _, e := range edges {
					fmt.Fprintf(logf, "%016x\n", e)
				}
			}
			base := len(covSeen)
			for _, e := range edges {
				covSeen[e] = struct{}{}
			}
			grew := len(covSeen) > base
			covMu.Unlock()

			if grew && corpusOut != "" {
				if _, err := fuzz.SaveEntry(corpusOut, data); err != nil {
					fmt.Fprintln(os.Stderr, "corpus save:", err)
				}
			}
			return target(data)
		}
	}

	// Optional on-crash minimization wrapper. Minimization uses the raw
	// target so wrapper side effects do not steer the shrink.
	effective := wrapped
	if minOnCrash {
		if minDir == "" {
			minDir = "crashes_min"
		}
		baseTarget := target
		effective = func(data []byte) error {
			err := wrapped(data)
			if err != nil {
				_ = os.MkdirAll(minDir, 0o755)
				small := fuzz.Minimize(seed, data, baseTarget, minBudget)
				name := time.Now().Format("20060102_150405.000000000") + ".min"
				_ = os.WriteFile(filepath.Join(minDir, name), small, 0o644)
				lg.Debug("minimized crash: %d -> %d bytes (%s)", len(data), len(small), name)
			}
			return err
		}
	}

	var crashWriter io.Writer = out
	if crashDir != "" {
		if err := os.MkdirAll(crashDir, 0o755); err != nil {
			fatal("failed to create crash dir: ", err)
		}
		crashWriter = &crashFileWriter{base: out, dir: crashDir}
	}

	var mut fuzz.Mutator
	if soak {
		mut = freshScriptMutator(maxInput)
	}

	start := time.Now()
	stats := fuzz.RunWithStats(context.Background(), opts, corpus, effective, mut, crashWriter)
	elapsed := time.Since(start)

	if covStats {
		covMu.Lock()
		n := len(covSeen)
		covMu.Unlock()
		fmt.Println(L.cov(n))
	}
	if printStats {
		execsPerSec := float64(stats.Executions) / elapsed.Seconds()
		fmt.Printf("executions=%d crashes=%d duration=%s execs_per_sec=%.2f\n",
			stats.Executions, stats.Crashes, elapsed.Truncate(time.Millisecond), execsPerSec)
	}
	if jsonStats != "" {
		_ = os.WriteFile(jsonStats, []byte(fmt.Sprintf("{\"executions\":%d,\"crashes\":%d,\"duration_ms\":%d}\n",
			stats.Executions, stats.Crashes, elapsed.Milliseconds())), 0o644)
	}
	fmt.Println(L.done())
}

// freshScriptMutator ignores the parent and returns a brand new random script.
func freshScriptMutator(maxInput int) fuzz.Mutator {
	if maxInput <= 0 {
		maxInput = 1 << 12
	}
	return func(r *rand.Rand, _ []byte) []byte {
		b := make([]byte, 1+r.Intn(maxInput))
		r.Read(b)
		return b
	}
}

// defaultWorkers reads DEQUE_FUZZ_WORKERS if set, otherwise 1.
func defaultWorkers() int {
	if v := os.Getenv("DEQUE_FUZZ_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return min(n, 256)
		}
	}
	return 1
}

// logger gates progress output, verbose and debug separately. Progress goes
// to stderr so stdout stays clean for stats.
type logger struct {
	out     io.Writer
	verbose bool
	debug   bool
}

func (l logger) Info(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.out, "[INFO] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

func (l logger) Debug(format string, args ...any) {
	if l.debug {
		fmt.Fprintf(l.out, "[DEBUG] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

type locale struct {
	done func() string
	cov  func(n int) string
}

func getLocale(lang string) locale {
	switch strings.ToLower(lang) {
	case "ja", "jp", "japanese":
		return locale{
			done: func() string { return "ファズ終了" },
			cov:  func(n int) string { return fmt.Sprintf("カバレッジユニークエッジ数: %d", n) },
		}
	default:
		return locale{
			done: func() string { return "Fuzzing finished" },
			cov:  func(n int) string { return fmt.Sprintf("Coverage unique edges: %d", n) },
		}
	}
}

// crashFileWriter passes crash lines through to an underlying writer and also
// extracts each crashing input into its own timestamped file.
type crashFileWriter struct {
	base io.Writer
	dir  string
	buf  []byte
}

func (w *crashFileWriter) Write(p []byte) (int, error) {
	if w.base != nil {
		_, _ = w.base.Write(p)
	}
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(w.buf[:idx])
		w.buf = w.buf[idx+1:]

		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			continue
		}
		raw := strings.TrimPrefix(strings.TrimPrefix(parts[1], "0x"), "0X")
		if dec, err := hex.DecodeString(raw); err == nil && len(dec) > 0 {
			name := time.Now().Format("20060102_150405.000000000") + ".crash"
			_ = os.WriteFile(filepath.Join(w.dir, name), dec, 0o644)
		}
	}
	return len(p), nil
}

func fatal(a ...any) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}
