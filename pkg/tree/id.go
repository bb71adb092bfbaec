package tree

import "sync/atomic"

// idAlphabet omits characters that are easy to confuse (I, O, l, o).
const idAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const idLength = 8

var idCounter atomic.Uint64

// newID returns the next process-unique node id. Ids are eight characters of
// base-59 so they are valid HTML ids and CSS selectors once prefixed.
func newID() string {
	return encodeID(idCounter.Add(1))
}

func encodeID(v uint64) string {
	var buf [idLength]byte
	base := uint64(len(idAlphabet))
	for i := idLength - 1; i >= 0; i-- {
		buf[i] = idAlphabet[v%base]
		v /= base
	}
	return string(buf[:])
}
