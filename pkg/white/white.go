// Package white strips white space out of byte slices, in place.
package white

import "bytes"

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func isWhite(c byte) bool { return asciiSpace[c] }

// Remove acts on a byte slice, in place, and removes all the white
// space. The length is adjusted, but the capacity and backing array
// are unchanged.
func Remove(sp *[]byte) {
	s := *sp
	n := 0
	for _, c := range s {
		if !isWhite(c) {
			s[n] = c
			n++
		}
	}
	*sp = s[:n]
}

// RemoveByFields is the obvious library version. It allocates, so it
// is only here to be benchmarked against Remove.
func RemoveByFields(sp *[]byte) {
	*sp = bytes.Join(bytes.Fields(*sp), nil)
}
