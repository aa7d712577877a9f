package codec

import (
	"fmt"
	"io"
	"net/url"
	"reflect"
)

var valuesType = reflect.TypeOf(url.Values(nil))

// Form encodes url.Values as application/x-www-form-urlencoded bodies and
// decodes such bodies back into url.Values.
type Form struct{}

// NewForm creates a form converter.
func NewForm() *Form {
	return &Form{}
}

// CanWrite accepts url.Values when the declared content type is empty or the
// form media type.
func (c *Form) CanWrite(t reflect.Type, contentType string) bool {
	if t != valuesType {
		return false
	}
	return contentType == "" || isFormType(contentType)
}

// Write encodes the values and writes them to msg.
func (c *Form) Write(v any, contentType string, msg MessageWriter) error {
	values, ok := v.(url.Values)
	if !ok {
		return fmt.Errorf("codec: form body must be url.Values, got %T", v)
	}
	encoded := values.Encode()
	setContentHeaders(msg, contentType, "application/x-www-form-urlencoded", len(encoded))
	_, err := io.WriteString(msg.Body(), encoded)
	return err
}

// CanRead accepts a *url.Values target for the form media type.
func (c *Form) CanRead(t reflect.Type, contentType string) bool {
	return t == valuesType && isFormType(contentType)
}

// Read parses a form-encoded body into the url.Values target.
func (c *Form) Read(v any, src io.Reader) error {
	target, ok := v.(*url.Values)
	if !ok {
		return fmt.Errorf("codec: form target must be *url.Values, got %T", v)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("codec: read form body: %w", err)
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return fmt.Errorf("codec: parse form body: %w", err)
	}
	*target = values
	return nil
}

func isFormType(contentType string) bool {
	return mediaTypeIn(contentType, "application/x-www-form-urlencoded")
}
