// Package descriptor decodes register descriptor documents.
//
// A descriptor is either a bare list of entries or a mapping with a
// "payload" list and an optional "config" mapping. It can be written as
// JSON, YAML or TOML; all three decode into the same ordered [Node] tree
// and go through one strict converter, so a key that is unknown in one
// encoding is unknown in all of them.
//
// Entries are dispatched on their first recognized key:
//
//	{"name": "IPO", "bits": 8, "attr": "RO"}          sized field
//	{"array": 16, "type": 2, "hide_lines": true}      array gap
//	{"label_lines": "Hdr", "font_size": 6, ...}       label-line bracket
//	{"arrow_jump": 5, "start_line": 0, ...}           arrow jump
//
// A rotated attribute row is written as {"text": "V", "rotate": -90}; a
// field carries at most one. The pair form ["V", -90] is not read as a
// rotation: it decodes as a text row followed by the bit pattern -90.
//
// Mapping order is kept, so legends and overlays are drawn in the order
// they are written.
//
// Errors carry the codes from [errors]: malformed documents are
// INVALID_INPUT, unknown keys and bad option values INVALID_CONFIG, and
// bad entries INVALID_FIELD, INVALID_LABEL_LINE, INVALID_ARROW_JUMP or
// INVALID_TYPE.
package descriptor
