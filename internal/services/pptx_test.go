package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func slideXML(shapes ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` + strings.Join(shapes, "") + `</p:spTree></p:cSld></p:sld>`
}

func shapeXML(phType string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<p:sp><p:nvSpPr><p:nvPr>")
	if phType != "" {
		b.WriteString(`<p:ph type="` + phType + `"/>`)
	}
	b.WriteString("</p:nvPr></p:nvSpPr><p:txBody>")
	for _, p := range paragraphs {
		b.WriteString("<a:p><a:r><a:t>" + p + "</a:t></a:r></a:p>")
	}
	b.WriteString("</p:txBody></p:sp>")
	return b.String()
}

func buildZip(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func buildDeck(t *testing.T, slides ...string) *bytes.Reader {
	t.Helper()
	files := map[string]string{"[Content_Types].xml": "<Types/>"}
	for i, s := range slides {
		files[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = s
	}
	return buildZip(t, files)
}

func TestExtractStructure(t *testing.T) {
	svc := NewPPTXService()

	deck := buildDeck(t,
		slideXML(
			shapeXML("", "Intro to Go"),
			shapeXML("", "Compiled language", "Garbage collected"),
		),
		slideXML(
			shapeXML("title", "Syntax Basics"),
			shapeXML("body", "Short variable declarations", "", "Exported names"),
		),
	)

	extraction, err := svc.ExtractStructure(deck, deck.Size())
	if err != nil {
		t.Fatalf("ExtractStructure: %v", err)
	}

	if extraction.TotalSlides != 2 {
		t.Errorf("TotalSlides = %d, want 2", extraction.TotalSlides)
	}
	if len(extraction.Slides) != 2 {
		t.Fatalf("retained %d slides, want 2", len(extraction.Slides))
	}

	first := extraction.Slides[0]
	if first.Title != "Intro to Go" {
		t.Errorf("slide 1 title = %q, want %q", first.Title, "Intro to Go")
	}
	if len(first.Content) != 2 || first.Content[0] != "Compiled language" {
		t.Errorf("slide 1 content = %v", first.Content)
	}

	second := extraction.Slides[1]
	if second.Title != "Syntax Basics" {
		t.Errorf("slide 2 title = %q, want %q", second.Title, "Syntax Basics")
	}
	if len(second.Content) != 2 {
		t.Errorf("slide 2 content = %v, want blank line dropped", second.Content)
	}

	want := "Slide 1: Intro to Go\nCompiled language\nGarbage collected\n" +
		"Slide 2: Syntax Basics\nShort variable declarations\nExported names"
	if extraction.FullText != want {
		t.Errorf("FullText = %q, want %q", extraction.FullText, want)
	}
}

func TestExtractStructureTitleRules(t *testing.T) {
	svc := NewPPTXService()

	t.Run("LastTitlePlaceholderWins", func(t *testing.T) {
		deck := buildDeck(t,
			slideXML(
				shapeXML("title", "First Heading"),
				shapeXML("ctrTitle", "Second Heading"),
				shapeXML("body", "A line"),
			),
		)
		extraction, err := svc.ExtractStructure(deck, deck.Size())
		if err != nil {
			t.Fatalf("ExtractStructure: %v", err)
		}
		if got := extraction.Slides[0].Title; got != "Second Heading" {
			t.Errorf("title = %q, want %q", got, "Second Heading")
		}
	})

	t.Run("NoTitleAfterSlideOne", func(t *testing.T) {
		deck := buildDeck(t,
			slideXML(shapeXML("title", "Cover")),
			slideXML(shapeXML("body", "Only content here")),
		)
		extraction, err := svc.ExtractStructure(deck, deck.Size())
		if err != nil {
			t.Fatalf("ExtractStructure: %v", err)
		}
		second := extraction.Slides[1]
		if second.Title != "" {
			t.Errorf("slide 2 title = %q, want empty", second.Title)
		}
		if len(second.Content) != 1 || second.Content[0] != "Only content here" {
			t.Errorf("slide 2 content = %v", second.Content)
		}
	})

	t.Run("MultilineTitleTrimmed", func(t *testing.T) {
		deck := buildDeck(t,
			slideXML(shapeXML("title", "  Line One  ", "Line Two")),
		)
		extraction, err := svc.ExtractStructure(deck, deck.Size())
		if err != nil {
			t.Fatalf("ExtractStructure: %v", err)
		}
		if got := extraction.Slides[0].Title; got != "Line One  \nLine Two" {
			t.Errorf("title = %q", got)
		}
	})
}

func TestExtractStructureSlideOrdering(t *testing.T) {
	svc := NewPPTXService()

	files := map[string]string{
		"[Content_Types].xml":      "<Types/>",
		"ppt/slides/slide10.xml":   slideXML(shapeXML("title", "Tenth")),
		"ppt/slides/slide2.xml":    slideXML(shapeXML("title", "Second")),
		"ppt/slides/slide1.xml":    slideXML(shapeXML("title", "First")),
		"ppt/slides/notaslide.xml": slideXML(shapeXML("title", "Ignored")),
	}
	deck := buildZip(t, files)

	extraction, err := svc.ExtractStructure(deck, deck.Size())
	if err != nil {
		t.Fatalf("ExtractStructure: %v", err)
	}
	if extraction.TotalSlides != 3 {
		t.Fatalf("TotalSlides = %d, want 3", extraction.TotalSlides)
	}
	titles := make([]string, 0, len(extraction.Slides))
	for _, slide := range extraction.Slides {
		titles = append(titles, slide.Title)
	}
	want := []string{"First", "Second", "Tenth"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
}

func TestExtractStructureEmptySlides(t *testing.T) {
	svc := NewPPTXService()

	t.Run("BlankSlidesCountedButDropped", func(t *testing.T) {
		deck := buildDeck(t,
			slideXML(shapeXML("title", "Cover")),
			slideXML(),
			slideXML(shapeXML("body", "Closing notes")),
		)
		extraction, err := svc.ExtractStructure(deck, deck.Size())
		if err != nil {
			t.Fatalf("ExtractStructure: %v", err)
		}
		if extraction.TotalSlides != 3 {
			t.Errorf("TotalSlides = %d, want 3", extraction.TotalSlides)
		}
		if len(extraction.Slides) != 2 {
			t.Fatalf("retained %d slides, want 2", len(extraction.Slides))
		}
		if extraction.Slides[1].SlideNumber != 3 {
			t.Errorf("second retained slide number = %d, want 3", extraction.Slides[1].SlideNumber)
		}
	})

	t.Run("AllBlankYieldsEmptyFullText", func(t *testing.T) {
		deck := buildDeck(t, slideXML(), slideXML())
		extraction, err := svc.ExtractStructure(deck, deck.Size())
		if err != nil {
			t.Fatalf("ExtractStructure: %v", err)
		}
		if extraction.FullText != "" {
			t.Errorf("FullText = %q, want empty", extraction.FullText)
		}
		if extraction.TotalSlides != 2 {
			t.Errorf("TotalSlides = %d, want 2", extraction.TotalSlides)
		}
	})
}

func TestExtractStructureRejectsNonPresentations(t *testing.T) {
	svc := NewPPTXService()

	t.Run("ZipWithoutSlides", func(t *testing.T) {
		deck := buildZip(t, map[string]string{"word/document.xml": "<doc/>"})
		_, err := svc.ExtractStructure(deck, deck.Size())
		var extractionErr *ExtractionError
		if !errors.As(err, &extractionErr) {
			t.Fatalf("err = %v, want ExtractionError", err)
		}
		if !strings.Contains(extractionErr.Message, "not a PowerPoint presentation") {
			t.Errorf("message = %q", extractionErr.Message)
		}
	})

	t.Run("NotAZip", func(t *testing.T) {
		garbage := bytes.NewReader([]byte("definitely not a zip archive"))
		_, err := svc.ExtractStructure(garbage, garbage.Size())
		var extractionErr *ExtractionError
		if !errors.As(err, &extractionErr) {
			t.Fatalf("err = %v, want ExtractionError", err)
		}
	})
}
