package portability

import (
	"path/filepath"
	"strings"
)

// Encoding is the serialization of a fixture file.
type Encoding string

// Supported encodings.
const (
	EncodingYAML Encoding = "yaml"
	EncodingJSON Encoding = "json"
)

// String returns the string representation of the encoding.
func (e Encoding) String() string {
	return string(e)
}

// EncodingFor picks the encoding from a file name. Anything but .json is
// YAML, including stdout ("").
func EncodingFor(filename string) Encoding {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return EncodingJSON
	}
	return EncodingYAML
}

// ParseEncoding parses a user supplied encoding name. An empty string means
// the encoding is derived from the file name.
func ParseEncoding(s string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return EncodingYAML, true
	case "json":
		return EncodingJSON, true
	}
	return "", false
}
