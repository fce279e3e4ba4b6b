package models

import (
	"reflect"
	"testing"
)

func TestSplitWeakSpots(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Empty", "", nil},
		{"OnlyWhitespace", "  ,  , ", nil},
		{"Trimmed", " channels , select ", []string{"channels", "select"}},
		{"DuplicatesKept", "maps,maps", []string{"maps", "maps"}},
		{"OrderPreserved", "c,b,a", []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitWeakSpots(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitWeakSpots(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildFullText(t *testing.T) {
	slides := []SlideRecord{
		{SlideNumber: 1, Title: "Intro", Content: []string{"line one", "line two"}},
		{SlideNumber: 3, Title: "Outro"},
	}
	want := "Slide 1: Intro\nline one\nline two\nSlide 3: Outro"
	if got := BuildFullText(slides); got != want {
		t.Errorf("BuildFullText = %q, want %q", got, want)
	}

	if got := BuildFullText(nil); got != "" {
		t.Errorf("BuildFullText(nil) = %q, want empty", got)
	}
}

func TestResolveMaterialType(t *testing.T) {
	if got := ResolveMaterialType("exam_focused"); got != MaterialExamFocused {
		t.Errorf("got %q", got)
	}
	if got := ResolveMaterialType("made_up"); got != MaterialComprehensive {
		t.Errorf("unknown key resolved to %q, want comprehensive fallback", got)
	}
	if got := ResolveMaterialType(""); got != MaterialComprehensive {
		t.Errorf("empty key resolved to %q, want comprehensive fallback", got)
	}
}

func TestDifficultyGuidance(t *testing.T) {
	if Difficulty("beginner").Guidance() == "" {
		t.Error("beginner guidance missing")
	}
	if Difficulty("expert").Guidance() != "" {
		t.Error("unknown difficulty should carry no guidance")
	}
}
