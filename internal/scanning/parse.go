package scanning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zombor/invoice-tracker/internal/document"
)

// transcriptionPrompt is the shared prompt used by all LLM providers for transcribing invoices
const transcriptionPrompt = `You are transcribing a scanned invoice. Read every piece of printed text on the page and return it line by line, exactly as printed.

Rules:
- Keep reading order: top to bottom, left to right
- Put every visually separate line or table cell on its own line
- Copy dates, amounts and labels verbatim (for example "09/17/2024", "$1,234.56", "Amount Due")
- Do not summarize, translate, correct or reformat anything
- Do not merge table columns into one line

Return ONLY valid JSON in this exact format:
{
  "lines": ["first line", "second line"]
}

Do not include any text before or after the JSON and do not use markdown code blocks`

const transcriptionSchemaJSON = `{
	"type": "object",
	"required": ["lines"],
	"properties": {
		"lines": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

var transcriptionSchema = jsonschema.MustCompileString("transcription.json", transcriptionSchemaJSON)

type transcription struct {
	Lines []string `json:"lines"`
}

// parseTranscription parses an LLM transcription response into LINE blocks,
// one per transcribed line with blank lines kept as empty text
func parseTranscription(text string) (document.Stream, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	if err := transcriptionSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("json does not match schema: %w", err)
	}

	var t transcription
	if err := json.Unmarshal([]byte(text), &t); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	stream := make(document.Stream, 0, len(t.Lines))
	for i, line := range t.Lines {
		stream = append(stream, document.Block{
			ID:   fmt.Sprintf("line-%d", i+1),
			Type: document.TypeLine,
			Text: strings.TrimSpace(line),
		})
	}
	return stream, nil
}
