package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// ErrUnknownFormat is returned when JSON input is not a recognized block stream
var ErrUnknownFormat = errors.New("unknown block stream format")

// Decode reads a block stream in one of the supported JSON shapes:
// {"blocks": [...]} with native blocks, a bare array of native blocks, or
// Textract AnalyzeDocument output ({"Blocks": [...]}).
func Decode(r io.Reader) (Stream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading block stream: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrUnknownFormat
	}

	switch data[0] {
	case '[':
		return decodeArray(data)
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decoding block stream: %w", err)
		}
		if raw, ok := envelope["Blocks"]; ok {
			return decodeTextract(raw)
		}
		if raw, ok := envelope["blocks"]; ok {
			return decodeArray(raw)
		}
		return nil, ErrUnknownFormat
	default:
		return nil, ErrUnknownFormat
	}
}

func decodeArray(data json.RawMessage) (Stream, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	if len(items) > 0 {
		if _, ok := items[0]["BlockType"]; ok {
			return decodeTextract(data)
		}
	}

	stream := make(Stream, 0, len(items))
	if err := json.Unmarshal(data, &stream); err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	return stream, nil
}

func decodeTextract(data json.RawMessage) (Stream, error) {
	var blocks []types.Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decoding textract blocks: %w", err)
	}
	return FromTextract(blocks), nil
}
