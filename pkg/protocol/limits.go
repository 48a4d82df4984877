package protocol

import "errors"

// Depth limits. These complement the allocation limits in decoder.go:
// nesting depth translates directly into decoder recursion, so it must
// be bounded independently of payload size.
const (
	// MaxNodeDepth limits the nesting depth of wire node trees. 256
	// levels is far beyond any reasonable UI hierarchy.
	MaxNodeDepth = 256

	// MaxPathLen limits the number of segments in a node path. A path
	// can never be longer than the tree is deep.
	MaxPathLen = MaxNodeDepth
)

// ErrMaxDepthExceeded reports a nesting or path depth over the limit.
var ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

func checkDepth(current, max int) error {
	if current > max {
		return ErrMaxDepthExceeded
	}
	return nil
}
