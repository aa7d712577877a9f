package codec

import (
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

// YAML encodes and decodes YAML bodies (application/yaml and friends).
type YAML struct{}

// NewYAML creates a YAML converter.
func NewYAML() *YAML {
	return &YAML{}
}

// CanWrite accepts any type for YAML media types. Unlike JSON it never
// claims an undeclared content type, so it only runs when asked for.
func (c *YAML) CanWrite(_ reflect.Type, contentType string) bool {
	return isYAMLType(contentType)
}

// Write marshals v and writes it to msg.
func (c *YAML) Write(v any, contentType string, msg MessageWriter) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec: marshal yaml: %w", err)
	}
	setContentHeaders(msg, contentType, "application/yaml", len(data))
	_, err = msg.Body().Write(data)
	return err
}

// CanRead accepts any target type for YAML media types.
func (c *YAML) CanRead(_ reflect.Type, contentType string) bool {
	return isYAMLType(contentType)
}

// Read decodes a YAML body into v.
func (c *YAML) Read(v any, src io.Reader) error {
	if err := yaml.NewDecoder(src).Decode(v); err != nil {
		return fmt.Errorf("codec: decode yaml: %w", err)
	}
	return nil
}

func isYAMLType(contentType string) bool {
	return mediaTypeIn(contentType,
		"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "+yaml")
}
