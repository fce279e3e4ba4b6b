package services

import (
	"strings"
	"testing"

	"notes-generator/internal/models"
)

func sampleDeck() *models.DeckExtraction {
	slides := []models.SlideRecord{
		{SlideNumber: 1, Title: "Concurrency", Content: []string{"Goroutines", "Channels"}},
		{SlideNumber: 2, Title: "Select", Content: []string{"Multiplexing channel operations"}},
	}
	return &models.DeckExtraction{
		TotalSlides: 2,
		Slides:      slides,
		FullText:    models.BuildFullText(slides),
	}
}

func TestComposeStudyPromptDeterministic(t *testing.T) {
	req := GenerationRequest{
		Deck:         sampleDeck(),
		WeakSpots:    []string{"channels", "select"},
		MaterialType: "summarized",
		Difficulty:   "advanced",
	}
	first := ComposeStudyPrompt(req)
	second := ComposeStudyPrompt(req)
	if first != second {
		t.Fatal("same request produced different prompts")
	}
}

func TestComposeStudyPromptSections(t *testing.T) {
	req := GenerationRequest{
		Deck:                   sampleDeck(),
		WeakSpots:              []string{"channels"},
		MaterialType:           "pointwise",
		Difficulty:             "beginner",
		AdditionalInstructions: "Use Go examples only.",
	}
	prompt := ComposeStudyPrompt(req)

	for _, want := range []string{
		"MATERIAL TYPE: Point-wise Structure\n",
		"DIFFICULTY LEVEL: beginner\n",
		"CRITICAL STUDENT WEAK SPOTS:\n",
		`"channels"`,
		"ADDITIONAL TUTOR INSTRUCTIONS:\nUse Go examples only.",
		"Total Slides: 2\n",
		"Slide 1: Concurrency\nGoroutines\nChannels",
		"FORMATTING REQUIREMENTS:",
		"OUTPUT LENGTH RESTRICTIONS:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestComposeStudyPromptWeakSpotGating(t *testing.T) {
	base := GenerationRequest{
		Deck:         sampleDeck(),
		MaterialType: "comprehensive",
		Difficulty:   "intermediate",
	}

	t.Run("BlankEntriesDropped", func(t *testing.T) {
		req := base
		req.WeakSpots = []string{"  ", "", "pointers"}
		prompt := ComposeStudyPrompt(req)
		if !strings.Contains(prompt, `"pointers"`) {
			t.Error("non-blank weak spot missing")
		}
		if strings.Contains(prompt, `""`) {
			t.Error("blank weak spot leaked into prompt")
		}
	})

	t.Run("NoWeakSpotsOmitsBlock", func(t *testing.T) {
		req := base
		req.WeakSpots = []string{" ", ""}
		prompt := ComposeStudyPrompt(req)
		if strings.Contains(prompt, "CRITICAL STUDENT WEAK SPOTS") {
			t.Error("weak spot block present without weak spots")
		}
		// The length-restriction directive still appears, with an empty
		// topic reference.
		if !strings.Contains(prompt, "- Do not expand on all content; only cover  as specified.") {
			t.Error("restricting directive missing for empty weak spots")
		}
	})

	t.Run("OrderPreserved", func(t *testing.T) {
		req := base
		req.WeakSpots = []string{"maps", "slices", "maps"}
		prompt := ComposeStudyPrompt(req)
		if !strings.Contains(prompt, `"maps", "slices", "maps"`) {
			t.Error("weak spot order or duplicates not preserved")
		}
	})
}

func TestComposeStudyPromptFallbacks(t *testing.T) {
	t.Run("UnknownMaterialType", func(t *testing.T) {
		prompt := ComposeStudyPrompt(GenerationRequest{
			Deck:         sampleDeck(),
			MaterialType: "mystery_mode",
			Difficulty:   "intermediate",
		})
		if !strings.Contains(prompt, "MATERIAL TYPE: Comprehensive Study Notes\n") {
			t.Error("unknown material type did not fall back to comprehensive")
		}
	})

	t.Run("UnknownDifficultyEchoedWithoutGuidance", func(t *testing.T) {
		prompt := ComposeStudyPrompt(GenerationRequest{
			Deck:         sampleDeck(),
			MaterialType: "summarized",
			Difficulty:   "expert",
		})
		if !strings.Contains(prompt, "DIFFICULTY LEVEL: expert\n") {
			t.Error("difficulty name not echoed")
		}
	})

	t.Run("NoInstructionsPlaceholder", func(t *testing.T) {
		prompt := ComposeStudyPrompt(GenerationRequest{
			Deck:         sampleDeck(),
			MaterialType: "summarized",
			Difficulty:   "beginner",
		})
		if !strings.Contains(prompt, "ADDITIONAL TUTOR INSTRUCTIONS:\nNone provided") {
			t.Error("missing placeholder for absent instructions")
		}
	})
}
