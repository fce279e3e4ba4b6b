package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"notes-generator/internal/models"
)

// PPTXService extracts slide text from PowerPoint (.pptx) files. A pptx is a
// zip container with one XML document per slide under ppt/slides/.
type PPTXService struct{}

func NewPPTXService() *PPTXService {
	return &PPTXService{}
}

// slideShape is one text-bearing shape of a slide, in document order.
type slideShape struct {
	isTitle    bool
	paragraphs []string
}

// ExtractFile opens a stored pptx and extracts its structure.
func (s *PPTXService) ExtractFile(path string) (*models.DeckExtraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Message: "open presentation", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ExtractionError{Message: "stat presentation", Err: err}
	}
	return s.ExtractStructure(f, info.Size())
}

// ExtractStructure parses the deck and returns per-slide records plus the
// concatenated full-text view. Slides carrying no text are dropped from the
// slide list but still counted in TotalSlides. A deck where every slide is
// blank yields an empty slide list and FullText == ""; callers must treat
// that as the empty-deck condition rather than a parse failure.
func (s *PPTXService) ExtractStructure(r io.ReaderAt, size int64) (*models.DeckExtraction, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &ExtractionError{Message: "failed to process presentation", Err: err}
	}

	slideFiles := findSlideFiles(zr.File)
	if len(slideFiles) == 0 {
		return nil, &ExtractionError{Message: "file is not a PowerPoint presentation"}
	}

	var retained []models.SlideRecord
	for i, sf := range slideFiles {
		raw, err := readZipFile(sf.file)
		if err != nil {
			return nil, &ExtractionError{Message: fmt.Sprintf("read slide %d", i+1), Err: err}
		}

		record, err := buildSlideRecord(i+1, raw)
		if err != nil {
			return nil, &ExtractionError{Message: fmt.Sprintf("parse slide %d", i+1), Err: err}
		}
		if !record.Empty() {
			retained = append(retained, record)
		}
	}

	return &models.DeckExtraction{
		TotalSlides: len(slideFiles),
		Slides:      retained,
		FullText:    models.BuildFullText(retained),
	}, nil
}

// buildSlideRecord classifies the slide's shapes into a title and content
// lines. The first text-bearing shape on slide 1, or any title placeholder
// on any slide, supplies the title (last candidate wins); every other shape
// contributes its non-blank paragraph lines in encounter order.
func buildSlideRecord(slideNumber int, raw []byte) (models.SlideRecord, error) {
	shapes, err := parseSlideShapes(raw)
	if err != nil {
		return models.SlideRecord{}, err
	}

	record := models.SlideRecord{SlideNumber: slideNumber}
	firstSeen := false
	for _, shape := range shapes {
		candidate := shape.isTitle || (slideNumber == 1 && !firstSeen)
		firstSeen = true
		if candidate {
			record.Title = strings.TrimSpace(strings.Join(shape.paragraphs, "\n"))
			continue
		}
		for _, para := range shape.paragraphs {
			if line := strings.TrimSpace(para); line != "" {
				record.Content = append(record.Content, line)
			}
		}
	}
	return record, nil
}

// parseSlideShapes walks the slide XML and collects every shape that owns a
// text frame. Element names are matched by local name: <p:sp> is "sp",
// <a:p> is "p", <a:t> is "t", and the placeholder tag <p:ph> is "ph".
func parseSlideShapes(raw []byte) ([]slideShape, error) {
	dec := xml.NewDecoder(strings.NewReader(string(raw)))

	var (
		shapes  []slideShape
		current *slideShape
		hasText bool
		inPara  bool
		inRun   bool
		para    strings.Builder
		spDepth int
	)

	flushShape := func() {
		if current != nil && hasText {
			shapes = append(shapes, *current)
		}
		current = nil
		hasText = false
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				if spDepth == 0 {
					current = &slideShape{}
				}
				spDepth++
			case "ph":
				if current != nil {
					for _, a := range t.Attr {
						if a.Name.Local != "type" {
							continue
						}
						if v := strings.TrimSpace(a.Value); v == "title" || v == "ctrTitle" {
							current.isTitle = true
						}
					}
				}
			case "txBody":
				if current != nil {
					hasText = true
				}
			case "p":
				if current != nil && hasText {
					inPara = true
					para.Reset()
				}
			case "t":
				if inPara {
					inRun = true
				}
			}
		case xml.CharData:
			if inPara && inRun {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				if inPara {
					current.paragraphs = append(current.paragraphs, para.String())
					inPara = false
				}
			case "sp":
				spDepth--
				if spDepth == 0 {
					flushShape()
				}
			}
		}
	}
	flushShape()
	return shapes, nil
}

type slideFile struct {
	number int
	file   *zip.File
}

// findSlideFiles locates ppt/slides/slideN.xml entries and orders them by N,
// not lexically, so slide10 does not sort before slide2.
func findSlideFiles(files []*zip.File) []slideFile {
	var out []slideFile
	for _, f := range files {
		name := strings.TrimSpace(f.Name)
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, "ppt/slides/slide") || !strings.HasSuffix(lower, ".xml") {
			continue
		}
		digits := strings.TrimSuffix(strings.TrimPrefix(lower, "ppt/slides/slide"), ".xml")
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		out = append(out, slideFile{number: n, file: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
