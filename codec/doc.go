// Package codec provides message converters for the restclient request and
// response pipeline.
//
// A Converter pairs capability predicates (CanWrite, CanRead) with encode and
// decode operations. The client consults an ordered converter list and uses
// the first converter whose predicate accepts the value type and content
// type; the list order is therefore part of the client's observable contract.
//
// The default registry, in order: bytes, text, form, JSON, YAML. Raw
// payloads ([]byte, io.Reader, string) are claimed ahead of the structured
// codecs so pre-encoded bodies are never re-encoded.
//
//	converters := codec.Defaults()
//
//	// Prepend a custom converter so it wins over the defaults.
//	converters = append([]codec.Converter{myConverter}, converters...)
package codec
