// Package protocol implements the wire formats of the loom live bridge.
//
// Two messages flow over a session's websocket: batches of change records
// from server to client, and events from client to server. Both have a JSON
// form (text messages) and a compact binary form (binary messages), selected
// per session with an Encoding.
//
// # JSON
//
// Every JSON message is an object with a "type" member:
//
//	{"type":"hello","session":"…","encoding":"json"}
//	{"type":"changes","seq":3,"changes":[{"id":"…","type":"added",…}]}
//	{"type":"error","code":3,"message":"unknown node"}
//
// Inbound events may omit the type:
//
//	{"id":"Zx81fQ2a","event":"click","payload":{"x":10}}
//
// # Binary
//
// Binary messages are framed with a 5-byte header:
//
//	┌─────────────┬──────────────────────────────────────────┐
//	│ Frame Type  │ Payload Length                           │
//	│ (1 byte)    │ (4 bytes, big-endian)                    │
//	└─────────────┴──────────────────────────────────────────┘
//
// Payloads use varints for integers, ZigZag varints for signed integers and
// varint length prefixes for strings. A change record is encoded as
//
//	[Type: byte][ID: string][Name: string][Value: value][OldValue: value]
//	[HasIndex: bool][Index: svarint]?[Before: string]
//
// where value is a tagged dynamic value (null, bool, int, float, string,
// array, object).
package protocol
