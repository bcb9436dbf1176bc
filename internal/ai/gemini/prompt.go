package gemini

import (
	"strings"

	_ "embed"
)

//go:embed prompt.md
var promptTemplate string

const (
	generalObjective = "Evaluate the overall quality of the resume below: clarity, impact, keyword coverage, and structure. The match score reflects general resume quality."

	compatibilityObjective = "Evaluate how well the resume below matches the provided job description. The match score reflects compatibility with that specific job description."
)

// buildPrompt renders the analysis prompt. The framing of the score changes
// depending on whether a job description is supplied: without one the model
// scores general resume quality, with one it scores compatibility against it.
func buildPrompt(resumeText, jobDescription string) string {
	jobDescription = strings.TrimSpace(jobDescription)

	objective := generalObjective
	jobSection := "\n"
	if jobDescription != "" {
		objective = compatibilityObjective
		jobSection = "\nJob description:\n" + jobDescription + "\n"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{SCORING_OBJECTIVE}}", objective)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", resumeText)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION_SECTION}}", jobSection)

	return prompt
}
