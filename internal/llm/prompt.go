package llm

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"strings"
)

//go:embed prompts/enrich_v1.txt
var enrichPromptV1 string

// SystemPrompt frames every enrichment request.
const SystemPrompt = "You are a business plan analyst. Respond with JSON only. No markdown. Never omit keys."

// BuildPrompt renders the user prompt for an enrichment request.
func BuildPrompt(input RewriteInput) string {
	replacer := strings.NewReplacer(
		"{{EXCERPT}}", Excerpt(input.Excerpt),
		"{{ANALYSIS}}", string(input.Analysis),
	)
	return replacer.Replace(enrichPromptV1)
}

// HashPrompt returns a stable hex digest of a system and user prompt pair.
func HashPrompt(system, user string) string {
	sum := sha256.Sum256([]byte(system + "\n\n" + user))
	return hex.EncodeToString(sum[:])
}

// RecordPromptHash stores the prompt hash in the context sink when present.
func RecordPromptHash(sink *PromptHashSink, system, user string) {
	if sink != nil {
		sink.set(HashPrompt(system, user))
	}
}
