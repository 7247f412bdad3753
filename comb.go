package playercheck

import "strings"

// bitsPerAction is the field width of one position in a packed combination.
// Four bits fit the five actions plus the terminator with room to spare.
const bitsPerAction = 4

// Comb is an ordered, duplicate-free sequence of actions packed into a
// fixed-width integer: position i occupies bits [i*4, (i+1)*4), position 0
// being the first action executed. Unused high positions hold ActionNone.
//
// The zero value is the enumeration sentinel: it is the state before the
// first combination as well as the "exhausted" result of Next. It is never
// returned as a combination in its own right, so callers distinguish the
// two meanings purely by call order.
type Comb uint64

// EncodeComb packs the given actions into a combination.
// It performs no validation; garbage in, garbage out.
func EncodeComb(actions ...Action) Comb {
	var c Comb
	for i, a := range actions {
		c |= Comb(a) << (i * bitsPerAction)
	}
	return c
}

// At returns the action at position i.
func (c Comb) At(i int) Action {
	return Action(c >> (i * bitsPerAction) & (1<<bitsPerAction - 1))
}

// Len returns the number of occupied positions, scanning for the first
// terminator.
func (c Comb) Len() int {
	for i := 0; i < int(actionCount); i++ {
		if c.At(i) == ActionNone {
			return i
		}
	}
	return int(actionCount)
}

// hasDup reports whether any action occurs twice in the occupied positions.
func (c Comb) hasDup() bool {
	var seen uint
	for i := 0; i < int(actionCount); i++ {
		a := c.At(i)
		if a == ActionNone {
			break
		}
		if seen>>a&1 != 0 {
			return true
		}
		seen |= 1 << a
	}
	return false
}

// Next returns the combination following c in canonical order, or the zero
// sentinel when the enumeration is exhausted.
//
// The advance is an odometer over the non-terminator actions: position 0 is
// incremented, wrapping from the last action back to the first and carrying
// into the next position; a position holding ActionNone with no pending
// carry ends the scan. Candidates containing a duplicate action are skipped
// by advancing again, so the sequence of results is every non-empty
// duplicate-free ordered selection from the five actions, each exactly
// once, in a fixed deterministic order.
func (c Comb) Next() Comb {
	for {
		var (
			next    Comb
			needInc = true
		)
		i := 0
		for {
			a := c.At(i)
			if i == int(actionCount) {
				return 0
			}
			if a == ActionNone && !needInc {
				break
			}
			if needInc {
				a++
				if a == actionCount {
					a = ActionPrefetch // wrap to the first action, carry on
				} else {
					needInc = false
				}
			}
			next |= Comb(a) << (i * bitsPerAction)
			i++
		}
		if !next.hasDup() {
			return next
		}
		c = next
	}
}

// String returns the dash-joined action names, e.g. "prefetch-start".
// The zero sentinel renders as the empty string.
func (c Comb) String() string {
	var names []string
	for i := 0; i < int(actionCount); i++ {
		a := c.At(i)
		if a == ActionNone {
			break
		}
		names = append(names, a.String())
	}
	return strings.Join(names, "-")
}
