package services

import (
	"fmt"
	"strings"

	"notes-generator/internal/models"
)

// GenerationRequest carries everything the prompt composer needs for one
// call. It is built per request and never reused.
type GenerationRequest struct {
	Deck                   *models.DeckExtraction
	WeakSpots              []string
	MaterialType           string
	Difficulty             string
	AdditionalInstructions string
}

// ComposeStudyPrompt deterministically builds the model instruction text.
// Section order is fixed and every section is always present, so prompts
// stay comparable across calls. No wall clock, no I/O.
func ComposeStudyPrompt(req GenerationRequest) string {
	spec := models.ResolveMaterialType(req.MaterialType).Spec()
	weakSpotsText := buildWeakSpotsBlock(req.WeakSpots)

	var b strings.Builder

	// Role framing
	b.WriteString("You are an expert educational content creator. Generate high-quality study material based on the PowerPoint content provided.\n\n")

	// Material type
	b.WriteString(fmt.Sprintf("MATERIAL TYPE: %s\n", spec.Name))
	b.WriteString(fmt.Sprintf("STYLE INSTRUCTION: %s\n\n", spec.StyleDirective))

	// Difficulty: the level name is echoed even when no guidance exists for it
	b.WriteString(fmt.Sprintf("DIFFICULTY LEVEL: %s\n", req.Difficulty))
	b.WriteString(models.Difficulty(req.Difficulty).Guidance())
	b.WriteString("\n\n")

	// Weak spots (block text is empty when no non-blank entries exist)
	b.WriteString(weakSpotsText)
	if weakSpotsText != "" {
		b.WriteString("\n")
	}

	// Tutor instructions
	b.WriteString("ADDITIONAL TUTOR INSTRUCTIONS:\n")
	if strings.TrimSpace(req.AdditionalInstructions) == "" {
		b.WriteString("None provided")
	} else {
		b.WriteString(req.AdditionalInstructions)
	}
	b.WriteString("\n\n")

	// Deck content, verbatim and unescaped
	b.WriteString("POWERPOINT CONTENT:\n")
	b.WriteString(fmt.Sprintf("Total Slides: %d\n", req.Deck.TotalSlides))
	b.WriteString("Content:\n")
	b.WriteString(req.Deck.FullText)
	b.WriteString("\n\n")

	b.WriteString(`FORMATTING REQUIREMENTS:
1. Use clear hierarchical structure with headers
2. Include relevant examples and explanations
3. For weak spots, provide extra detail and clarity
4. Use formatting markers: **bold** for emphasis, *italic* for terms
5. Number important points and use bullet points for lists
6. Include a summary section at the end
7. Add "Key Takeaways" for each major topic
8. If relevant, include formulas, definitions, and important dates

OUTPUT LENGTH RESTRICTIONS:
- The response must fit within a maximum of 2 pages in a standard PDF (approximately 600-800 words total).
- Be concise and avoid unnecessary repetition.
- Prioritize clarity and weak spot coverage over breadth.
`)
	// The weak-spots block is interpolated here even when it is empty: a
	// request without weak spots still carries the restricting directive,
	// with an empty topic reference.
	b.WriteString(fmt.Sprintf("- Do not expand on all content; only cover %s as specified.\n\n", weakSpotsText))

	b.WriteString("Remember: focus only on the weak spots, and compress explanations so the entire material fits within 2 PDF pages.\n")

	return b.String()
}

// buildWeakSpotsBlock renders the emphasis block, or "" when the list has no
// non-blank entries after trimming. Order is preserved; duplicates allowed.
func buildWeakSpotsBlock(weakSpots []string) string {
	quoted := make([]string, 0, len(weakSpots))
	for _, spot := range weakSpots {
		if spot = strings.TrimSpace(spot); spot != "" {
			quoted = append(quoted, fmt.Sprintf("%q", spot))
		}
	}
	if len(quoted) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("CRITICAL STUDENT WEAK SPOTS:\n")
	b.WriteString("The student particularly struggles with the following concepts:\n")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString("\n\nIMPORTANT INSTRUCTIONS FOR WEAK SPOTS:\n")
	b.WriteString(`1. Provide EXTRA detailed explanations for these topics
2. Include multiple examples for each weak spot
3. Break down complex concepts into simpler steps
4. Explain prerequisites needed to understand these topics
5. Include common misconceptions and clarifications
6. Add practice questions specifically targeting these areas
7. Use analogies and real-world applications
`)
	return b.String()
}
