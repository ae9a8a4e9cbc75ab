package summarize

import (
	"fmt"
	"strings"
)

const summaryInstructions = `You are summarizing an academic paper section titled '%s'. ` +
	`Summarize the key technical details relevant to the heading in no more than 100 words. ` +
	`Focus on processes, algorithms, models used, and avoid including references, URLs, or redundant content. ` +
	`Do not repeat phrases like 'Answer' or the heading itself. ` +
	`Only include relevant details without general introductory statements or unrelated information.`

// BuildPrompt creates the completion prompt for one section.
func BuildPrompt(heading, sectionText string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(summaryInstructions, heading))
	sb.WriteString("\n\nText:\n")
	sb.WriteString(sectionText)
	return sb.String()
}
