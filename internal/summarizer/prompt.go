package summarizer

import "fmt"

const summaryPrompt = `You are a legal assistant summarizing a court hearing or client meeting recording. Based on the transcript below, write a structured summary of 300 to 500 words.

Use exactly these sections, each as a markdown heading:
## Case Information
## Key Testimony
## Evidence Presented
## Notable Rulings
## Action Items

Rules:
- Only use facts stated in the transcript; write "Not mentioned" for an empty section
- Keep names, dates, amounts and case numbers exactly as spoken
- Use bullet points inside sections and bold for critical facts

Transcript:
---
%s
---`

// BuildPrompt embeds the transcript into the fixed summary template.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}
