// Package prompts builds the prompt strings behind each editor command. The
// builders are pure string assembly; the model does the actual work.
package prompts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Explain asks the model to explain a piece of code.
func Explain(filename, code string) string {
	return fmt.Sprintf("Explain what the following %s does. Be concise and focus on intent, not line-by-line narration.\n\n%s",
		describe(filename), fence(filename, code))
}

// Refactor asks the model to rewrite code, optionally following an
// instruction. The reply is expected to contain a single fenced code block.
func Refactor(filename, code, instruction string) string {
	goal := "Improve readability and structure without changing behavior."
	if instruction != "" {
		goal = instruction
	}

	return fmt.Sprintf("Refactor the following %s. %s Reply with the complete rewritten code in a single fenced code block, followed by a short note on what changed.\n\n%s",
		describe(filename), goal, fence(filename, code))
}

// Comment asks the model to add documentation comments to code.
func Comment(filename, code string) string {
	return fmt.Sprintf("Add clear documentation comments to the following %s. Keep the code itself unchanged and reply with the commented code in a single fenced code block.\n\n%s",
		describe(filename), fence(filename, code))
}

// Review asks the model for a code review.
func Review(filename, code string) string {
	return fmt.Sprintf("Review the following %s. Point out bugs, edge cases, and style issues, ordered by severity. Skip praise.\n\n%s",
		describe(filename), fence(filename, code))
}

// WorkspaceSummary asks the model to summarize a project from its file
// listing.
func WorkspaceSummary(snapshot string) string {
	return fmt.Sprintf("Below is a shallow file listing of a project workspace. Summarize what the project appears to be, its main components, and where a new contributor should start reading.\n\n%s", snapshot)
}

// describe names the code being sent, e.g. "Go code from main.go" or just
// "code" when no filename is known.
func describe(filename string) string {
	lang := LanguageHint(filename)

	switch {
	case filename == "" && lang == "":
		return "code"
	case filename == "":
		return lang + " code"
	case lang == "":
		return fmt.Sprintf("code from %s", filepath.Base(filename))
	default:
		return fmt.Sprintf("%s code from %s", lang, filepath.Base(filename))
	}
}

// fence wraps code in a markdown code block tagged with the language hint.
func fence(filename, code string) string {
	tag := strings.ToLower(LanguageHint(filename))
	return fmt.Sprintf("```%s\n%s\n```", tag, strings.TrimRight(code, "\n"))
}

// LanguageHint maps a filename extension to a language name, or "" when
// unknown.
func LanguageHint(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".go":
		return "Go"
	case ".py":
		return "Python"
	case ".js":
		return "JavaScript"
	case ".ts":
		return "TypeScript"
	case ".tsx", ".jsx":
		return "React"
	case ".rs":
		return "Rust"
	case ".c", ".h":
		return "C"
	case ".cc", ".cpp", ".hpp":
		return "C++"
	case ".java":
		return "Java"
	case ".rb":
		return "Ruby"
	case ".sh":
		return "shell"
	case ".sql":
		return "SQL"
	case ".yaml", ".yml":
		return "YAML"
	case ".json":
		return "JSON"
	case ".md":
		return "Markdown"
	default:
		return ""
	}
}
