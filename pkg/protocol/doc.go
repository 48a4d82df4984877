// Package protocol implements the binary wire protocol between the
// server and the thin client.
//
// The protocol is frame-based: a 4-byte header (type, flags, payload
// length) followed by a type-specific payload. Payloads use varint
// integers and length-prefixed strings for compactness.
//
// Nodes on the wire are addressed by Path: the child-index walk from
// the mount root to the node. Patches carry the path of the slot they
// mutate; events carry the path of the element they originated on.
// Paths stay valid because the server applies the same edit script to
// its mirror tree that it ships to the client.
//
// Framing:
//
//	Handshake  client <-> server  session setup and resume
//	Event      client  -> server  user interactions
//	Patches    server  -> client  tree edits, sequenced
//	Control    client <-> server  ping/pong, resync, close
//	Ack        client  -> server  flow control
//	Error      server  -> client  error reporting
//
// All decoders enforce allocation, collection, and depth limits so a
// malicious peer cannot force large allocations or deep recursion.
package protocol
