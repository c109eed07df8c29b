package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
)

// StructuredPrompt appends JSON-schema instructions to a prompt. Every
// adapter funnels GenerateStructured through this so structured output is
// requested identically regardless of backend.
func StructuredPrompt(prompt string, schema any) (string, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("llm: marshal schema: %w", err)
	}
	return fmt.Sprintf(
		"%s\n\nRespond with a JSON object that follows this exact schema:\n%s\n\nEnsure your response is valid JSON and follows the schema exactly.",
		prompt, schemaJSON,
	), nil
}

// ValidateStructured checks that a structured response's content parses as
// JSON. A parse failure is reported as a retryable invalid-response error so
// the orchestrator may re-attempt it.
func ValidateStructured(providerName string, resp *Response) error {
	var parsed any
	if err := json.Unmarshal([]byte(ExtractJSON(resp.Content)), &parsed); err != nil {
		return apperrors.InvalidResponse(providerName, err)
	}
	return nil
}

// ExtractJSON strips common markdown fencing around a JSON payload.
// Models frequently wrap structured output in ```json blocks.
func ExtractJSON(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
