package models

// MaterialType selects the tone and structure of generated study material.
// The catalog is closed: unknown keys resolve to MaterialComprehensive.
type MaterialType string

const (
	MaterialComprehensive  MaterialType = "comprehensive"
	MaterialSummarized     MaterialType = "summarized"
	MaterialPointwise      MaterialType = "pointwise"
	MaterialPrerequisite   MaterialType = "prerequisite"
	MaterialProblemSolving MaterialType = "problem_solving"
	MaterialVisualLearning MaterialType = "visual_learning"
	MaterialExamFocused    MaterialType = "exam_focused"
)

// MaterialTypeSpec describes one catalog entry. StyleDirective is injected
// verbatim into the generation prompt.
type MaterialTypeSpec struct {
	Key            MaterialType
	Name           string
	Description    string
	StyleDirective string
}

// ResolveMaterialType maps a raw key onto the closed catalog, falling back to
// MaterialComprehensive for anything unrecognized.
func ResolveMaterialType(key string) MaterialType {
	switch MaterialType(key) {
	case MaterialComprehensive, MaterialSummarized, MaterialPointwise,
		MaterialPrerequisite, MaterialProblemSolving, MaterialVisualLearning,
		MaterialExamFocused:
		return MaterialType(key)
	default:
		return MaterialComprehensive
	}
}

// Spec returns the catalog entry for the type. Callers should resolve raw
// keys first; an unknown value here also falls back to comprehensive.
func (t MaterialType) Spec() MaterialTypeSpec {
	switch t {
	case MaterialSummarized:
		return MaterialTypeSpec{
			Key:            MaterialSummarized,
			Name:           "Summarized Key Points",
			Description:    "Concise summary focusing on essential concepts",
			StyleDirective: "Create a concise summary that captures only the most essential information and key takeaways. Be brief but complete.",
		}
	case MaterialPointwise:
		return MaterialTypeSpec{
			Key:            MaterialPointwise,
			Name:           "Point-wise Structure",
			Description:    "Bullet points for easy memorization",
			StyleDirective: "Structure everything in clear bullet points and numbered lists. Make it easy to scan and memorize. Use short, impactful statements.",
		}
	case MaterialPrerequisite:
		return MaterialTypeSpec{
			Key:            MaterialPrerequisite,
			Name:           "Prerequisite-Focused",
			Description:    "Emphasizes foundational concepts",
			StyleDirective: "Focus heavily on prerequisite knowledge and foundational concepts. Build from basics to advanced. Include background information that students might be missing.",
		}
	case MaterialProblemSolving:
		return MaterialTypeSpec{
			Key:            MaterialProblemSolving,
			Name:           "Problem-Solving Oriented",
			Description:    "Focus on practical applications and exercises",
			StyleDirective: "Emphasize problem-solving techniques, worked examples, practice problems, and step-by-step solutions. Include common mistakes to avoid.",
		}
	case MaterialVisualLearning:
		return MaterialTypeSpec{
			Key:            MaterialVisualLearning,
			Name:           "Visual Learning Guide",
			Description:    "Structured for visual learners with diagrams descriptions",
			StyleDirective: "Structure content for visual learners. Describe concepts that would benefit from diagrams, flowcharts, and mind maps. Use analogies and visual metaphors.",
		}
	case MaterialExamFocused:
		return MaterialTypeSpec{
			Key:            MaterialExamFocused,
			Name:           "Exam Preparation",
			Description:    "Tailored for test preparation",
			StyleDirective: "Focus on exam-relevant content, important formulas, frequently asked questions, and exam tips. Highlight what's most likely to appear in tests.",
		}
	default:
		return MaterialTypeSpec{
			Key:            MaterialComprehensive,
			Name:           "Comprehensive Study Notes",
			Description:    "Detailed explanations covering all aspects",
			StyleDirective: "Create extremely detailed and comprehensive notes with thorough explanations, multiple examples, and deep conceptual understanding.",
		}
	}
}

// AllMaterialTypes lists the catalog in its fixed order, for the listing
// endpoint.
func AllMaterialTypes() []MaterialTypeSpec {
	keys := []MaterialType{
		MaterialComprehensive,
		MaterialSummarized,
		MaterialPointwise,
		MaterialPrerequisite,
		MaterialProblemSolving,
		MaterialVisualLearning,
		MaterialExamFocused,
	}
	specs := make([]MaterialTypeSpec, len(keys))
	for i, k := range keys {
		specs[i] = k.Spec()
	}
	return specs
}

// Difficulty is the requested depth of the generated material. Unrecognized
// values pass through with no extra guidance text.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Guidance returns the fixed prompt sentence for a difficulty level, or ""
// for unknown levels.
func (d Difficulty) Guidance() string {
	switch d {
	case DifficultyBeginner:
		return "Use simple language, avoid jargon, explain everything from basics."
	case DifficultyIntermediate:
		return "Balance between foundational concepts and advanced topics."
	case DifficultyAdvanced:
		return "Include complex concepts, theoretical depth, and advanced applications."
	default:
		return ""
	}
}
