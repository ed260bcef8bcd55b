package apkres

import (
	"math/bits"
	"sort"
	"sync"
)

// FlagItem is one declared flag constant: the entry carrying its name and its bits.
type FlagItem struct {
	Ref  Reference
	Bits int32
}

func (f FlagItem) popCount() int {
	return bits.OnesCount32(uint32(f.Bits))
}

// FlagsAttr is an attribute whose values are bitmasks of named flags.
//
// A FlagsAttr is safe for concurrent use. The zero/non-zero partition of its
// items is computed once, on first decode.
type FlagsAttr struct {
	Parent Reference
	Format uint32
	Min    *int32
	Max    *int32
	L10n   *bool

	items []FlagItem

	partitionOnce sync.Once
	zeroFlags     []FlagItem
	sortedFlags   []FlagItem
}

// NewFlagsAttr creates the attribute from its items in declaration order.
func NewFlagsAttr(items []FlagItem) *FlagsAttr {
	return &FlagsAttr{
		Format: attrFormatFlags,
		items:  append([]FlagItem(nil), items...),
	}
}

// Items returns the declared items in declaration order.
func (a *FlagsAttr) Items() []FlagItem {
	return append([]FlagItem(nil), a.items...)
}

func (a *FlagsAttr) partition() {
	a.partitionOnce.Do(func() {
		zero := []FlagItem{}
		sorted := make([]FlagItem, 0, len(a.items))
		for _, item := range a.items {
			if item.Bits == 0 {
				zero = append(zero, item)
			} else {
				sorted = append(sorted, item)
			}
		}

		// Most bits first, so aggregate flags win over their parts.
		sort.SliceStable(sorted, func(i, j int) bool {
			pi, pj := sorted[i].popCount(), sorted[j].popCount()
			if pi != pj {
				return pi > pj
			}
			return sorted[i].Bits < sorted[j].Bits
		})

		a.zeroFlags = zero
		a.sortedFlags = sorted
	})
}

// selectFlags picks the flags that make up value, in the order they should be rendered.
func (a *FlagsAttr) selectFlags(value int32) ([]FlagItem, error) {
	a.partition()

	if value == 0 {
		return a.zeroFlags, nil
	}

	var selected []FlagItem
	var covered int32
	for _, item := range a.sortedFlags {
		if value&item.Bits != item.Bits || covered&item.Bits == item.Bits {
			continue
		}

		selected = append(selected, item)
		covered |= item.Bits

		if covered == value {
			break
		}
	}

	if len(selected) == 0 {
		return nil, &InvalidFlagsError{Value: value}
	}

	if len(selected) > 2 {
		selected = dropRedundantFlags(selected)
	}
	return selected, nil
}

// dropRedundantFlags removes flags whose bits are all supplied by the other
// remaining flags. A dropped flag no longer counts for the ones after it.
func dropRedundantFlags(selected []FlagItem) []FlagItem {
	dropped := make([]bool, len(selected))
	filtered := make([]FlagItem, 0, len(selected))
	for i, item := range selected {
		var mask int32
		for j, other := range selected {
			if j != i && !dropped[j] {
				mask |= other.Bits
			}
		}

		if item.Bits&^mask != 0 {
			filtered = append(filtered, item)
		} else {
			dropped[i] = true
		}
	}
	return filtered
}
