package codec

import (
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// MessageWriter is the writable side of an outbound message: mutable headers
// plus a body sink. *restclient request handles satisfy it.
type MessageWriter interface {
	Header() http.Header
	Body() io.Writer
}

// Converter encodes and decodes message bodies for a family of media types.
//
// Converters are consulted in registry order with first-match-wins semantics
// on both the write and read paths, so the order of a converter list is part
// of its observable behavior.
type Converter interface {
	// CanWrite reports whether the converter can encode a value of type t
	// as the given content type. An empty content type means the caller
	// declared none and the converter may apply its default.
	CanWrite(t reflect.Type, contentType string) bool

	// Write encodes v into msg. Implementations set Content-Type (when the
	// caller declared none) and Content-Length on msg before writing.
	Write(v any, contentType string, msg MessageWriter) error

	// CanRead reports whether the converter can decode a body with the given
	// content type into a value of type t.
	CanRead(t reflect.Type, contentType string) bool

	// Read decodes src into v, which must be a non-nil pointer whose element
	// type was accepted by CanRead.
	Read(v any, src io.Reader) error
}

// Defaults returns the default converter registry, in consultation order:
// bytes, text, form, JSON, YAML. Raw byte and string payloads are claimed
// before the structured codecs so that pre-encoded bodies pass through
// untouched.
func Defaults() []Converter {
	return []Converter{
		NewBytes(),
		NewText(),
		NewForm(),
		NewJSON(),
		NewYAML(),
	}
}

// ParseMediaType returns the media type portion of a Content-Type value,
// lowercased and with parameters stripped. Unparseable values are returned
// trimmed and lowercased as-is.
func ParseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.TrimSpace(strings.ToLower(contentType))
		if idx := strings.IndexByte(mt, ';'); idx != -1 {
			mt = strings.TrimSpace(mt[:idx])
		}
	}
	return mt
}

// mediaTypeIn reports whether the media type of contentType matches one of
// the given media types. Entries may use a "type/*" wildcard or a "+suffix"
// structured-syntax suffix (e.g. "+json").
func mediaTypeIn(contentType string, mediaTypes ...string) bool {
	mt := ParseMediaType(contentType)
	if mt == "" {
		return false
	}
	for _, candidate := range mediaTypes {
		switch {
		case candidate == "*/*":
			return true
		case strings.HasSuffix(candidate, "/*"):
			if strings.HasPrefix(mt, candidate[:len(candidate)-1]) {
				return true
			}
		case strings.HasPrefix(candidate, "+"):
			if strings.HasSuffix(mt, candidate) {
				return true
			}
		case mt == candidate:
			return true
		}
	}
	return false
}

// setContentHeaders applies the effective content type (when the caller
// declared none) and the encoded length onto the outbound message.
func setContentHeaders(msg MessageWriter, contentType, defaultType string, length int) {
	h := msg.Header()
	if h.Get("Content-Type") == "" {
		if contentType == "" {
			contentType = defaultType
		}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
	}
	h.Set("Content-Length", strconv.Itoa(length))
}
