package analyzer

import (
	"fmt"
	"strings"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/taxonomy"
)

const verdictShape = `{"safe": true or false, "title": "short human title", "reason": "1-3 sentences", "what_to_do": "guidance for a parent", "category": "one of the allowed categories", "confidence": 0-100}`

const systemPrompt = "You are a content-safety classifier for a family-safety service. " +
	"You always answer with raw JSON, never markdown, never code fences, never prose."

// ProviderConfig builds the provider configuration shared by every classifier
// call.
func ProviderConfig(apiKey, model string) *providers.Config {
	return &providers.Config{
		Credentials:  providers.Credentials{ApiKey: apiKey},
		Model:        model,
		Temperature:  0,
		SystemPrompt: systemPrompt,
	}
}

func buildContentPrompt(content string) string {
	var b strings.Builder
	b.WriteString("Classify the following page text for child safety.\n")
	b.WriteString("Respond with exactly one JSON object of this shape:\n")
	b.WriteString(verdictShape)
	b.WriteString("\nAllowed categories: ")
	b.WriteString(strings.Join(taxonomy.Keys(), ", "))
	b.WriteString(".\nPage text:\n")
	b.WriteString(content)
	return b.String()
}

func buildImagePrompt(pageContext string) string {
	var b strings.Builder
	b.WriteString("Classify the attached image for child safety.\n")
	b.WriteString("Respond with exactly one JSON object of this shape:\n")
	b.WriteString(verdictShape)
	b.WriteString("\nAllowed categories: ")
	b.WriteString(strings.Join(taxonomy.Keys(), ", "))
	b.WriteString(".")
	if pageContext != "" {
		b.WriteString("\nPage context:\n")
		b.WriteString(pageContext)
	}
	return b.String()
}

func buildBatchPrompt(contents []string) string {
	var b strings.Builder
	b.WriteString("Classify each of the following items for child safety.\n")
	b.WriteString("Respond with exactly one JSON array containing one object per item, in the same order.\n")
	b.WriteString("Each object has this shape:\n")
	b.WriteString(verdictShape)
	b.WriteString("\nAllowed categories: ")
	b.WriteString(strings.Join(taxonomy.Keys(), ", "))
	b.WriteString(".\n")
	for i, content := range contents {
		fmt.Fprintf(&b, "\nItem %d:\n%s\n", i+1, truncate(content, common.BatchItemCharBudget))
	}
	return b.String()
}

// truncate caps s at max runes so a multi-byte character is never split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
