package codec

import (
	"fmt"
	"io"
	"reflect"
)

var (
	byteSliceType = reflect.TypeOf([]byte(nil))
	readerType    = reflect.TypeOf((*io.Reader)(nil)).Elem()
)

// Bytes passes raw payloads through untouched. It claims []byte and
// io.Reader values on the write path and a *[]byte target for any content
// type on the read path, making it the terminal fallback for binary bodies.
type Bytes struct{}

// NewBytes creates a bytes converter.
func NewBytes() *Bytes {
	return &Bytes{}
}

// CanWrite accepts []byte values and io.Reader implementations for any
// declared content type.
func (c *Bytes) CanWrite(t reflect.Type, _ string) bool {
	if t == nil {
		return false
	}
	return t == byteSliceType || t.Implements(readerType)
}

// Write copies the raw payload to msg, defaulting the content type to
// application/octet-stream. Streaming readers are copied without a
// Content-Length header since their size is unknown up front.
func (c *Bytes) Write(v any, contentType string, msg MessageWriter) error {
	switch body := v.(type) {
	case []byte:
		setContentHeaders(msg, contentType, "application/octet-stream", len(body))
		_, err := msg.Body().Write(body)
		return err
	case io.Reader:
		h := msg.Header()
		if h.Get("Content-Type") == "" {
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			h.Set("Content-Type", contentType)
		}
		_, err := io.Copy(msg.Body(), body)
		return err
	default:
		return fmt.Errorf("codec: bytes body must be []byte or io.Reader, got %T", v)
	}
}

// CanRead accepts a *[]byte target for any content type.
func (c *Bytes) CanRead(t reflect.Type, _ string) bool {
	return t == byteSliceType
}

// Read reads the entire body into the byte slice target.
func (c *Bytes) Read(v any, src io.Reader) error {
	target, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("codec: bytes target must be *[]byte, got %T", v)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("codec: read body: %w", err)
	}
	*target = data
	return nil
}
