// Package inside provides the inside protocol support.
package inside

// Inside protocol is communicated between the head controller and the
// body microcontroller of the robot. Each message is a single frame: one
// opcode byte followed by a payload whose layout is fixed by the opcode
// (see Catalog). The transport below delivers exactly one frame per
// transfer; this package does no framing, checksums or retransmission.
//
// Producer: head controller (commands), body controller (heartbeat)
// Consumer: body controller (commands), head controller (heartbeat)
