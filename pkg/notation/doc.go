// Package notation parses a compact, line-oriented text form of a
// register.
//
// Each statement starts with a keyword; "#" starts a comment:
//
//	# control register
//	field "IPO" 8 type 4 attr "RO" attr 11
//	field 7
//	field "MODE" 2 attr "mode" angle -90 rotate 0 overline
//	array "payload" 16 type 2 width 0.5 fill "#eeeeee" color "red" hide
//	label "Header" lanes 0..2 right angle 0 size 10 reserved
//	arrow 5 lane 0 via 1 2 to 9 lane 3 left stroke 2
//
// Types are integers, quoted strings ("#rrggbb" colors or names for the
// override table) or rgb(r, g, b). Bit attributes are integers and text
// attributes quoted strings, optionally rotated with "angle".
//
// [Parse] returns a [bitfield.Register]; options are supplied separately.
package notation
