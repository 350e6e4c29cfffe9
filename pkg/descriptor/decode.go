package descriptor

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/errors"
)

// Format identifies a descriptor encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat maps a format name to a Format. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown descriptor format %q (want json, yaml or toml)", s)
}

// FormatFromPath guesses the encoding from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Document is a decoded descriptor: the register to draw and the options
// to draw it with.
type Document struct {
	Register bitfield.Register
	Options  bitfield.Options
}

// Parse decodes data into an ordered value tree without interpreting it.
func Parse(data []byte, format Format) (*Node, error) {
	var (
		n   *Node
		err error
	)
	switch format {
	case FormatJSON:
		n, err = parseJSON(data)
	case FormatYAML:
		n, err = parseYAML(data)
	case FormatTOML:
		n, err = parseTOML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown descriptor format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s document", format)
	}
	return n, nil
}

// Decode parses data and converts it into a Document. Options start from
// bitfield.DefaultOptions and are overlaid by the document's config.
func Decode(data []byte, format Format) (*Document, error) {
	n, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return FromNode(n)
}
