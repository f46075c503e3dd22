// Package summary runs the ingestion flow: extract a page, prompt the
// generator, parse its answer and persist the result.
package summary

import "strings"

// promptInstruction precedes the page text in every prompt.
const promptInstruction = "Summarize the following web page and list 5 key points:\n\n"

// BuildPrompt wraps extracted page text in the summarization instruction.
func BuildPrompt(text string) string {
	return promptInstruction + text
}

// ParseResponse splits a completion into its summary line and key points.
// Blank lines are dropped; the first remaining line is the summary and the
// rest are key points, kept verbatim and in order.
func ParseResponse(raw string) (string, []string) {
	keyPoints := []string{}
	summary := ""
	first := true

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			summary = line
			first = false
			continue
		}
		keyPoints = append(keyPoints, line)
	}
	return summary, keyPoints
}
