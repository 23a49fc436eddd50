// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package engine

// systemPrompt frames every completion call. Answers must come from the
// retrieved excerpts, not the model's own knowledge.
const systemPrompt = `You are a research assistant for government scheme documents.
Answer using only the provided excerpts. If the excerpts do not contain
the answer, say so plainly instead of guessing.`

// NoInformationFound is the section text used when retrieval yields nothing
// usable for a summary section.
const NoInformationFound = "No information found."

// SummarySection identifies one of the fixed scheme summary sections.
type SummarySection struct {
	Key    string
	Title  string
	Prompt string
}

// summarySections are the four fixed questions asked of every corpus,
// in render order.
var summarySections = []SummarySection{
	{Key: "benefits", Title: "Scheme Benefits", Prompt: "Summarize the key benefits of the scheme."},
	{Key: "process", Title: "Application Process", Prompt: "Describe the application process for the scheme."},
	{Key: "eligibility", Title: "Eligibility Criteria", Prompt: "What are the eligibility criteria for this scheme?"},
	{Key: "documents", Title: "Required Documents", Prompt: "List documents required to apply."},
}

// SummarySections returns the fixed sections in render order.
func SummarySections() []SummarySection {
	out := make([]SummarySection, len(summarySections))
	copy(out, summarySections)
	return out
}
