package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/pmezard/go-difflib/difflib"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// readInput returns the code to operate on and its filename: the first
// positional argument when given, otherwise stdin with an empty filename.
func readInput(args []string) (code, filename string, err error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0]) //nolint:gosec // path comes from the command line
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}

	data, err := readStdin()
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(data) == "" {
		return "", "", fmt.Errorf("no input (pass a file or pipe code on stdin)")
	}

	return data, "", nil
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// renderMarkdown converts a model reply to terminal-formatted output.
// Rendering is best-effort: any failure returns the raw text.
func renderMarkdown(text string, plain bool) string {
	if plain {
		return text
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}

// extractCodeBlock returns the contents of the first fenced code block in
// markdown, or "" when there is none.
func extractCodeBlock(markdown string) string {
	lines := strings.Split(markdown, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if start == -1 {
			if strings.HasPrefix(trimmed, "```") {
				start = i + 1
			}
			continue
		}

		if trimmed == "```" {
			return strings.Join(lines[start:i], "\n")
		}
	}

	return ""
}

// unifiedDiff returns a unified diff between the original input and the
// model's rewrite, or "" when they match.
func unifiedDiff(original, updated, filename string) (string, error) {
	from, to := "original", "refactored"
	if filename != "" {
		from, to = filename, filename+" (refactored)"
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(normalizeTrailingNewline(original)),
		B:        difflib.SplitLines(normalizeTrailingNewline(updated)),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", err
	}

	return result, nil
}

// normalizeTrailingNewline keeps the diff free of spurious final-line churn
// when the model drops or adds the trailing newline.
func normalizeTrailingNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}

// renderDiff colors added and removed lines unless plain output is requested.
func renderDiff(diff string, plain bool) string {
	if plain {
		return strings.TrimRight(diff, "\n")
	}

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			lines[i] = removedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
