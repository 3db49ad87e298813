package fuzz

import (
	"math/rand"
	"time"
)

// Minimize greedily shrinks a crashing input while the target keeps failing,
// within the given time budget. It tries chunk deletion at halving
// granularity, then tail truncation, then single-byte edits and deletions.
func Minimize(seed int64, in []byte, target Target, budget time.Duration) []byte {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	start := time.Now()

	best := append([]byte(nil), in...)
	if callTargetSafe(target, best) == nil {
		return best
	}

	for time.Since(start) < budget {
		progressed := false
		for parts := 2; parts <= 8 && time.Since(start) < budget; parts *= 2 {
			n := len(best)
			if n < parts {
				break
			}
			seg := n / parts
			for i := 0; i < parts && time.Since(start) < budget; i++ {
				cand := append([]byte(nil), best[:i*seg]...)
				cand = append(cand, best[(i+1)*seg:]...)
				if len(cand) == 0 {
					continue
				}
				if callTargetSafe(target, cand) != nil {
					best = cand
					progressed = true
					break
				}
			}
			if progressed {
				break
			}
		}
		if progressed {
			continue
		}

		if len(best) > 1 {
			cand := append([]byte(nil), best[:len(best)-1]...)
			if callTargetSafe(target, cand) != nil {
				best = cand
				continue
			}
		}

		if len(best) > 0 {
			idx := r.Intn(len(best))
			cand := append([]byte(nil), best...)
			cand[idx] = best[idx] ^ (1 << uint(r.Intn(8)))
			if callTargetSafe(target, cand) != nil {
				best = cand
				continue
			}
			cand[idx] = byte(r.Intn(256))
			if callTargetSafe(target, cand) != nil {
				best = cand
				continue
			}
		}

		if len(best) > 1 {
			i := r.Intn(len(best))
			cand := append([]byte(nil), best[:i]...)
			cand = append(cand, best[i+1:]...)
			if len(cand) > 0 && callTargetSafe(target, cand) != nil {
				best = cand
				continue
			}
		}

		break
	}
	return best
}
