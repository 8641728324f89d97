package protocol

import (
	"encoding/json"
	"fmt"
)

// ContentItem is one element of an invocation result's content list. An
// item either carries pass-through structured JSON or a synthesized text
// block; exactly one of the two is set.
type ContentItem struct {
	// Text is a synthesized text block.
	Text string

	// Structured is pass-through content already shaped for the wire.
	Structured json.RawMessage
}

// TextItem creates a text content item
func TextItem(text string) ContentItem {
	return ContentItem{Text: text}
}

// TextItemf creates a text content item with formatting
func TextItemf(format string, args ...interface{}) ContentItem {
	return ContentItem{Text: fmt.Sprintf(format, args...)}
}

// StructuredItem creates a pass-through content item from pre-shaped JSON
func StructuredItem(raw json.RawMessage) ContentItem {
	return ContentItem{Structured: raw}
}

// IsStructured reports whether the item carries pass-through content
func (c ContentItem) IsStructured() bool {
	return len(c.Structured) > 0
}

// MarshalJSON emits either the pass-through JSON unchanged or a
// {"type":"text","text":...} block.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	if c.IsStructured() {
		return c.Structured, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "text", Text: c.Text})
}

// UnmarshalJSON accepts a text block as text and keeps anything else as
// pass-through structured content.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Type == "text" {
		c.Text = probe.Text
		c.Structured = nil
		return nil
	}
	c.Structured = append(json.RawMessage(nil), data...)
	return nil
}

// ResultKind tags the variant of an InvocationResult
type ResultKind int

const (
	// ResultContent is a list of content items.
	ResultContent ResultKind = iota

	// ResultStructured is a protocol-native result object passed through
	// unchanged.
	ResultStructured

	// ResultError is a user-visible failure rendered as error content.
	ResultError
)

// InvocationResult is the tagged outcome of dispatching a capability.
// Handler failures become ResultError values rather than Go errors so
// that application-level faults stay inside the protocol response.
type InvocationResult struct {
	Kind       ResultKind
	Content    []ContentItem
	Structured interface{}
	ErrText    string
}

// ContentResult wraps content items as a successful result
func ContentResult(items ...ContentItem) *InvocationResult {
	return &InvocationResult{Kind: ResultContent, Content: items}
}

// StructuredResult passes a protocol-native result object through unchanged
func StructuredResult(v interface{}) *InvocationResult {
	return &InvocationResult{Kind: ResultStructured, Structured: v}
}

// ErrorText creates an error result with the given message
func ErrorText(msg string) *InvocationResult {
	return &InvocationResult{Kind: ResultError, ErrText: msg}
}

// ErrorTextf creates an error result with a formatted message
func ErrorTextf(format string, args ...interface{}) *InvocationResult {
	return ErrorText(fmt.Sprintf(format, args...))
}

// IsError reports whether the result is the error variant
func (r *InvocationResult) IsError() bool {
	return r.Kind == ResultError
}

// wireResult is the serialized shape of a content or error result
type wireResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// MarshalJSON serializes the result losslessly: a structured result is the
// native object itself, content results are a content list, errors are a
// single text item flagged isError.
func (r *InvocationResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResultStructured:
		return json.Marshal(r.Structured)
	case ResultError:
		return json.Marshal(wireResult{
			Content: []ContentItem{TextItem(r.ErrText)},
			IsError: true,
		})
	default:
		content := r.Content
		if content == nil {
			content = []ContentItem{}
		}
		return json.Marshal(wireResult{Content: content})
	}
}
