package sidebar

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is the tree sort order.
type SortOrder string

const (
	SortAZ          SortOrder = "a-z"
	SortZA          SortOrder = "z-a"
	SortLastUpdated SortOrder = "last-updated"
	SortDragDrop    SortOrder = "drag"
)

// SortOrders lists the orders in menu order.
var SortOrders = []SortOrder{SortLastUpdated, SortAZ, SortZA, SortDragDrop}

// ParseSortOrder returns the order named s, defaulting to SortLastUpdated.
func ParseSortOrder(s string) SortOrder {
	o := SortOrder(s)
	if slices.Contains(SortOrders, o) {
		return o
	}
	return SortLastUpdated
}

// sortItem is the projection of a folder or note the orders compare on.
type sortItem struct {
	label     string
	updatedAt time.Time
	position  int
	seq       int64
}

// sortItems orders items in place. Ties fall back to insertion sequence.
func sortItems[T any](items []T, order SortOrder, key func(T) sortItem) {
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		var c int
		switch order {
		case SortAZ:
			c = col.CompareString(ka.label, kb.label)
		case SortZA:
			c = col.CompareString(kb.label, ka.label)
		case SortDragDrop:
			c = cmp.Compare(ka.position, kb.position)
		default:
			c = kb.updatedAt.Compare(ka.updatedAt)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(ka.seq, kb.seq)
	})
}
