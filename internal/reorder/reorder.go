// Package reorder turns drag gestures into array reorders and position keys.
package reorder

import "strings"

// ContainerKind names the kind of container an issue can be dragged
// between
type ContainerKind string

const (
	ContainerSprint  ContainerKind = "sprint"
	ContainerBacklog ContainerKind = "backlog"
	ContainerColumn  ContainerKind = "column"
)

// Container identifies one drop target
type Container struct {
	Kind ContainerKind
	ID   string // sprint id, project id (backlog), or column id
}

// Move describes one completed drag gesture
type Move struct {
	From      Container
	FromIndex int
	To        Container
	ToIndex   int
}

// IsNoop reports whether the drop landed back where it started
func (m Move) IsNoop() bool {
	return m.From == m.To && m.FromIndex == m.ToIndex
}

// ArrayMove returns a new slice with the element at from moved to to,
// matching the splice-move the board view performs for immediate feedback.
// Out-of-range indexes return the input order unchanged.
func ArrayMove[T any](list []T, from, to int) []T {
	out := append([]T(nil), list...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)

	rest := append([]T(nil), out[:to]...)
	rest = append(rest, item)
	return append(rest, out[to:]...)
}

// Across removes the element at fromIndex from src and inserts it into dst
// at toIndex. The element ends up in exactly one of the two slices.
func Across[T any](src, dst []T, fromIndex, toIndex int) (newSrc, newDst []T) {
	newSrc = append([]T(nil), src...)
	newDst = append([]T(nil), dst...)
	if fromIndex < 0 || fromIndex >= len(newSrc) {
		return newSrc, newDst
	}
	item := newSrc[fromIndex]
	newSrc = append(newSrc[:fromIndex], newSrc[fromIndex+1:]...)

	if toIndex < 0 || toIndex > len(newDst) {
		toIndex = len(newDst)
	}
	head := append([]T(nil), newDst[:toIndex]...)
	head = append(head, item)
	newDst = append(head, newDst[toIndex:]...)
	return newSrc, newDst
}

// RankBetween returns a lexorank key strictly between prev and next over
// the alphabet a-z. Empty prev means "before everything", empty next means
// "after everything". Ranks originate on the server; this only fills the
// gap for optimistic local inserts. prev must sort strictly before next,
// and next must not be prev plus a single 'a': no key exists between such
// a pair and the caller has to rebalance. Generated ranks never end in
// 'a', so that input only arises with foreign keys.
func RankBetween(prev, next string) string {
	var rank strings.Builder
	boundedAbove := true
	for i := 0; ; i++ {
		lo := 0 // virtual digit below 'a'
		if i < len(prev) {
			lo = int(prev[i]-'a') + 1
		}
		hi := 27 // virtual digit above 'z'
		if boundedAbove && i < len(next) {
			hi = int(next[i]-'a') + 1
		} else {
			boundedAbove = false
		}

		switch {
		case lo == hi:
			rank.WriteByte('a' + byte(lo-1))
		case hi-lo > 1:
			mid := lo + (hi-lo)/2
			if mid == 1 {
				// A trailing 'a' would leave no room before the new key,
				// so match it and split the level below instead
				rank.WriteByte('a')
				boundedAbove = false
				continue
			}
			rank.WriteByte('a' + byte(mid-1))
			return rank.String()
		case lo > 0:
			// Adjacent digits: emit lo, room opens up past prev's end
			rank.WriteByte('a' + byte(lo-1))
			boundedAbove = false
		default:
			// lo is virtual and next's digit is 'a': nothing sorts before
			// it at this position. If this is next's last digit, the matched
			// prefix itself is the only key left between prev and next.
			if i+1 >= len(next) && rank.Len() > len(prev) {
				return rank.String()
			}
			rank.WriteByte('a' + byte(hi-1))
		}
	}
}

// RankAfter returns a key sorting after every existing key in order
func RankAfter(last string) string {
	return RankBetween(last, "")
}

// RankBefore returns a key sorting before every existing key in order
func RankBefore(first string) string {
	return RankBetween("", first)
}
