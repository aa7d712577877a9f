package codec

import (
	"fmt"
	"io"
	"reflect"
)

// Text passes string payloads through as-is. On the read path it accepts any
// content type, so a string target always receives the raw body text.
type Text struct{}

// NewText creates a text converter.
func NewText() *Text {
	return &Text{}
}

// CanWrite accepts string-kinded values for any declared content type.
func (c *Text) CanWrite(t reflect.Type, _ string) bool {
	return t != nil && t.Kind() == reflect.String
}

// Write writes the string value to msg, defaulting the content type to
// text/plain.
func (c *Text) Write(v any, contentType string, msg MessageWriter) error {
	s := reflect.ValueOf(v).String()
	setContentHeaders(msg, contentType, "text/plain; charset=utf-8", len(s))
	_, err := io.WriteString(msg.Body(), s)
	return err
}

// CanRead accepts string-kinded targets for any content type.
func (c *Text) CanRead(t reflect.Type, _ string) bool {
	return t != nil && t.Kind() == reflect.String
}

// Read reads the entire body into the string target.
func (c *Text) Read(v any, src io.Reader) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.String {
		return fmt.Errorf("codec: text target must be a non-nil string pointer, got %T", v)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("codec: read text body: %w", err)
	}
	rv.Elem().SetString(string(data))
	return nil
}
