package fuzz

import (
	"math/rand"
	"sync/atomic"
)

// DefaultMutator applies one random byte-level edit: insert, flip or replace,
// or delete.
func DefaultMutator() Mutator {
	return func(r *rand.Rand, in []byte) []byte {
		out := append([]byte(nil), in...)
		switch {
		case len(out) == 0 || r.Intn(3) == 0:
			pos := r.Intn(len(out) + 1)
			b := byte(r.Intn(256))
			out = append(out[:pos], append([]byte{b}, out[pos:]...)...)
		case r.Intn(2) == 0:
			pos := r.Intn(len(out))
			if r.Intn(2) == 0 {
				out[pos] ^= 1 << uint(r.Intn(8))
			} else {
				out[pos] = byte(r.Intn(256))
			}
		default:
			pos := r.Intn(len(out))
			out = append(out[:pos], out[pos+1:]...)
		}
		return out
	}
}

// AdaptiveMutator scales the number and aggressiveness of edits with an
// atomically adjustable intensity level on a percent scale: 100 is baseline,
// 300 applies up to four edits per candidate with wider deletions.
func AdaptiveMutator(level *atomic.Uint64) Mutator {
	return func(r *rand.Rand, in []byte) []byte {
		out := append([]byte(nil), in...)
		lv := int(level.Load())
		lv = min(max(lv, 50), 300)

		maxEdits := min(1+lv/100, 4)
		edits := 1 + r.Intn(maxEdits)
		for i := 0; i < edits; i++ {
			switch {
			case len(out) == 0 || r.Intn(3) == 0:
				pos := r.Intn(len(out) + 1)
				b := byte(r.Intn(256))
				out = append(out[:pos], append([]byte{b}, out[pos:]...)...)
			case r.Intn(2) == 0:
				pos := r.Intn(len(out))
				if r.Intn(2) == 0 {
					// more bits flipped at high intensity
					flips := 1 + r.Intn(1+lv/120)
					for k := 0; k < flips; k++ {
						out[pos] ^= 1 << uint(r.Intn(8))
					}
				} else {
					out[pos] = byte(r.Intn(256))
				}
			default:
				pos := r.Intn(len(out))
				span := 1
				if lv >= 200 && len(out)-pos > 2 {
					span = 1 + r.Intn(min(3, len(out)-pos))
				}
				out = append(out[:pos], out[pos+span:]...)
			}
		}
		return out
	}
}
