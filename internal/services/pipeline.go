package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"notes-generator/internal/models"
)

// ProgressCallback reports pipeline progress. step is a stable machine name,
// message is human readable. current runs 1..total.
type ProgressCallback func(step, message string, current, total int)

// GenerateMaterialInput is one end-to-end generation request.
type GenerateMaterialInput struct {
	FileName               string
	File                   io.Reader
	MaterialType           string
	Difficulty             string
	WeakSpots              []string
	AdditionalInstructions string
}

// PipelineService runs the full deck-to-PDF flow: store the upload, extract
// slide text, compose the prompt, call the generator, render the PDF, and
// record the result.
type PipelineService struct {
	decks     *DeckService
	extractor *PPTXService
	ai        Generator
	renderer  *PDFRenderService
	materials *MaterialService
	outputDir string
}

func NewPipelineService(decks *DeckService, extractor *PPTXService, ai Generator, renderer *PDFRenderService, materials *MaterialService, outputDir string) *PipelineService {
	return &PipelineService{
		decks:     decks,
		extractor: extractor,
		ai:        ai,
		renderer:  renderer,
		materials: materials,
		outputDir: outputDir,
	}
}

const pipelineSteps = 6

// Generate runs the pipeline for one uploaded deck and returns the recorded
// material. The returned errors keep their stage type, so callers can map
// extraction, generation and render failures to different status codes.
func (s *PipelineService) Generate(ctx context.Context, in GenerateMaterialInput, progress ProgressCallback) (*models.Material, error) {
	report := func(step, message string, current int) {
		if progress != nil {
			progress(step, message, current, pipelineSteps)
		}
	}

	report("extract", "Reading slide text", 1)
	storedPath, err := s.decks.SaveUpload(in.File)
	if err != nil {
		return nil, err
	}
	extraction, err := s.extractor.ExtractFile(storedPath)
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	if extraction.FullText == "" {
		os.Remove(storedPath)
		return nil, &ExtractionError{Message: "presentation has no extractable text", Err: ErrEmptyDeck}
	}
	deck, err := s.decks.Record(in.FileName, storedPath, extraction.TotalSlides)
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	report("compose", "Building prompt", 2)
	prompt := ComposeStudyPrompt(GenerationRequest{
		Deck:                   extraction,
		WeakSpots:              in.WeakSpots,
		MaterialType:           in.MaterialType,
		Difficulty:             in.Difficulty,
		AdditionalInstructions: in.AdditionalInstructions,
	})

	report("generate", "Generating study material", 3)
	content, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	report("render", "Rendering PDF", 4)
	now := time.Now()
	fileName := fmt.Sprintf("study_material_%s.pdf", now.Format("20060102_150405"))
	outPath := filepath.Join(s.outputDir, fileName)
	meta := RenderMetadata{
		GeneratedAt:      now,
		MaterialTypeName: models.ResolveMaterialType(in.MaterialType).Spec().Name,
		WeakSpots:        in.WeakSpots,
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, &RenderError{Message: "create output file", Err: err}
	}
	renderErr := s.renderer.RenderStudyPDF(out, content, meta)
	if closeErr := out.Close(); renderErr == nil && closeErr != nil {
		renderErr = &RenderError{Message: "close output file", Err: closeErr}
	}
	if renderErr != nil {
		os.Remove(outPath)
		return nil, renderErr
	}

	report("save", "Recording material", 5)
	pages, err := CountPDFPages(outPath)
	if err != nil {
		log.Printf("count pages for %s: %v", outPath, err)
		pages = 0
	}
	material := &models.Material{
		DeckID:       sql.NullInt64{Int64: deck.ID, Valid: true},
		MaterialType: string(models.ResolveMaterialType(in.MaterialType)),
		Difficulty:   in.Difficulty,
		WeakSpots:    strings.Join(in.WeakSpots, ", "),
		FileName:     fileName,
		StoredPath:   outPath,
		PageCount:    pages,
		WordCount:    len(strings.Fields(content)),
		DeckName:     sql.NullString{String: in.FileName, Valid: true},
	}
	if err := s.materials.Insert(material); err != nil {
		os.Remove(outPath)
		return nil, err
	}

	report("complete", "Done", 6)
	return material, nil
}

// Analyze extracts a deck's structure without generating anything. The
// upload is not retained.
func (s *PipelineService) Analyze(r io.Reader) (*models.DeckExtraction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return s.extractor.ExtractStructure(bytes.NewReader(data), int64(len(data)))
}
