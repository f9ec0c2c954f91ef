// Package protocol implements the binary wire protocol spoken between the
// browser client and a live session.
//
// Every message is framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Client → server: Handshake, Event, Control.
// Server → client: Patches, Control, Error.
//
// Integers are protobuf-style varints; signed values use ZigZag. Strings and
// byte slices are varint length-prefixed.
//
// A scroll event addressed to the view "h3" encodes as:
//
//	[Seq: varint][Type: 0x30][HID: "h3"][ScrollTop: svarint][ScrollLeft: svarint]
//
// The client script in pkg/server/static mirrors this package byte for byte.
package protocol
