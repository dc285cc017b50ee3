package operations

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Result is the uniform success envelope: a single text payload, either
// re-serialized JSON or literal upstream text.
type Result struct {
	Text string
}

// JSONResult re-serializes an upstream JSON body with stable two-space
// indentation so equal payloads always render identically.
func JSONResult(body []byte) (*Result, error) {
	if len(body) == 0 {
		return &Result{Text: "{}"}, nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return marshalResult(decoded)
}

// TextResult passes upstream bytes through unmodified. Diff output is
// consumed as literal patch text, so whitespace and line endings must
// survive byte for byte.
func TextResult(body []byte) *Result {
	return &Result{Text: string(body)}
}

// marshalResult renders any value as the indented-JSON envelope. Used for
// combined objects (compound operations) and confirmations as well as
// upstream payloads.
func marshalResult(v any) (*Result, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &Result{Text: string(encoded)}, nil
}
