package protocol

import (
	"strconv"
	"strings"
)

// Path addresses a node as the child-index walk from the mount root.
// An empty path is the root itself; [1 0] is the first child of the
// root's second child. Because both ends apply identical edit scripts,
// a path computed on one side resolves to the same node on the other.
type Path []uint32

// String renders the path as slash-separated indices, "/" for the
// root. Used in logs and error messages.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, idx := range p {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}

// Child returns a new path extended by one index. The receiver is not
// modified and does not share backing storage with the result, so
// recorded paths stay stable as the walk continues.
func (p Path) Child(idx uint32) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = idx
	return child
}

// Equal reports whether two paths address the same slot.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// EncodePathTo encodes a path using the provided encoder.
func EncodePathTo(e *Encoder, p Path) {
	e.WriteUvarint(uint64(len(p)))
	for _, idx := range p {
		e.WriteUvarint(uint64(idx))
	}
}

// DecodePathFrom decodes a path from a decoder, enforcing MaxPathLen.
func DecodePathFrom(d *Decoder) (Path, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if length > MaxPathLen {
		return nil, ErrMaxDepthExceeded
	}
	if length == 0 {
		return nil, nil
	}
	p := make(Path, length)
	for i := range p {
		idx, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		p[i] = uint32(idx)
	}
	return p, nil
}
