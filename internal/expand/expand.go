package expand

import (
	"context"
	"fmt"
	"strings"

	"github.com/FloareDor/gitask-sub001/internal/llm"
)

// MaxVariants bounds how many query variants an expander may return,
// including the original query.
const MaxVariants = 3

// Expander produces query variants for diversified retrieval. The first
// variant is always the original query.
type Expander interface {
	Expand(ctx context.Context, query string) ([]string, error)
}

// Identity is the deterministic fallback expander: the original query is
// the only variant. It keeps offline runs and tests reproducible.
type Identity struct{}

// Expand returns the query unchanged as the single variant.
func (Identity) Expand(_ context.Context, query string) ([]string, error) {
	return []string{query}, nil
}

// ModelExpander asks a language model for alternate phrasings of the
// query, one of them a code-style rewrite. Model failures propagate to
// the caller; there is no automatic fallback.
type ModelExpander struct {
	chat llm.Chat
}

// NewModelExpander creates an expander backed by the given chat client.
func NewModelExpander(chat llm.Chat) *ModelExpander {
	return &ModelExpander{chat: chat}
}

const expandPrompt = `Rewrite the following code-search query two ways, one per line:
1. a terse code-style phrasing using likely identifier names
2. an alternate natural-language phrasing
Reply with the two rewrites only, no numbering, no commentary.

Query: %s`

// Expand returns the original query followed by up to MaxVariants-1
// model-generated rewrites, deduplicated and in model order.
func (e *ModelExpander) Expand(ctx context.Context, query string) ([]string, error) {
	reply, err := e.chat.Generate(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(expandPrompt, query)},
	})
	if err != nil {
		return nil, fmt.Errorf("query expansion: %w", err)
	}

	variants := []string{query}
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(query)): true}

	for _, line := range strings.Split(reply, "\n") {
		variant := strings.TrimSpace(line)
		if variant == "" || seen[strings.ToLower(variant)] {
			continue
		}
		seen[strings.ToLower(variant)] = true
		variants = append(variants, variant)
		if len(variants) == MaxVariants {
			break
		}
	}

	return variants, nil
}
