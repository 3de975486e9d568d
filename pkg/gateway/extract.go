package gateway

import (
	"encoding/json"
	"fmt"
)

// ExtractText pulls a plain-text answer out of whatever shape the model
// service returned. Local inference servers are inconsistent about their
// response layout, so the cases are tried in a fixed priority order:
//
//  1. nil returns "".
//  2. choices[0].message.content (chat completions).
//  3. choices[0].text (legacy completions).
//  4. top-level text field (simple generate servers).
//  5. a bare string is returned as-is.
//  6. anything else is pretty-printed as JSON, or stringified when
//     marshalling fails.
//
// ExtractText never fails: shape ambiguity is resolved by best-effort
// extraction, not by erroring.
func ExtractText(raw any) string {
	if raw == nil {
		return ""
	}

	if m, ok := raw.(map[string]any); ok {
		if choices, ok := m["choices"].([]any); ok && len(choices) > 0 {
			if choice, ok := choices[0].(map[string]any); ok {
				if msg, ok := choice["message"].(map[string]any); ok {
					if content, ok := msg["content"].(string); ok {
						return content
					}
				}
				if text, ok := choice["text"].(string); ok {
					return text
				}
			}
		}

		if text, ok := m["text"].(string); ok {
			return text
		}
	}

	if s, ok := raw.(string); ok {
		return s
	}

	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}

	return string(pretty)
}
