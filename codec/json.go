package codec

import (
	"fmt"
	"io"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON encodes and decodes application/json bodies. It accepts any value on
// the write path when no content type was declared, making it the default
// codec for structured payloads.
type JSON struct{}

// NewJSON creates a JSON converter.
func NewJSON() *JSON {
	return &JSON{}
}

// CanWrite accepts any type when the declared content type is empty or a
// JSON media type.
func (c *JSON) CanWrite(_ reflect.Type, contentType string) bool {
	return contentType == "" || isJSONType(contentType)
}

// Write marshals v and writes it to msg.
func (c *JSON) Write(v any, contentType string, msg MessageWriter) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec: marshal json: %w", err)
	}
	setContentHeaders(msg, contentType, "application/json", len(data))
	_, err = msg.Body().Write(data)
	return err
}

// CanRead accepts any target type for JSON media types.
func (c *JSON) CanRead(_ reflect.Type, contentType string) bool {
	return isJSONType(contentType)
}

// Read decodes a JSON body into v.
func (c *JSON) Read(v any, src io.Reader) error {
	if err := json.NewDecoder(src).Decode(v); err != nil {
		return fmt.Errorf("codec: decode json: %w", err)
	}
	return nil
}

func isJSONType(contentType string) bool {
	return mediaTypeIn(contentType, "application/json", "text/json", "+json")
}
