package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderMetadata is the document-level information stamped onto the output:
// generation date, the material-type display name shown in the running
// header, and the weak-spot topics (first three are listed on the cover).
type RenderMetadata struct {
	GeneratedAt      time.Time
	MaterialTypeName string
	WeakSpots        []string
}

// PDFRenderService turns generated markdown-like text into a paginated PDF.
// Structured layout failures are recovered by an unformatted fallback; only
// a sink failure after the fallback is reported as a RenderError.
type PDFRenderService struct{}

func NewPDFRenderService() *PDFRenderService {
	return &PDFRenderService{}
}

// Letter page in points, 1in body margins.
const (
	pageLeft    = 72.0
	pageTop     = 72.0
	pageBottom  = 72.0
	keyPointBar = 3.0
)

// RenderStudyPDF classifies the generated text into blocks, lays them out
// across pages with a running header and "Page X of Y" footers, and writes
// the PDF to w.
func (s *PDFRenderService) RenderStudyPDF(w io.Writer, content string, meta RenderMetadata) error {
	buf, err := s.renderStructured(content, meta)
	if err != nil {
		log.Printf("structured layout failed, rendering plain fallback: %v", err)
		buf, err = s.renderFallback(content, meta)
		if err != nil {
			return &RenderError{Message: "render study material", Err: err}
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &RenderError{Message: "write study material", Err: err}
	}
	return nil
}

// renderStructured runs the two-phase build: pass A lays the blocks into a
// throwaway document to learn the page total, pass B re-emits them with
// footers carrying that total, so page 1 already prints the right "of Y".
func (s *PDFRenderService) renderStructured(content string, meta RenderMetadata) (buf *bytes.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("layout panic: %v", r)
		}
	}()

	blocks := classifyBlocks(content)

	measure := buildDocument(blocks, meta, 0)
	if measure.Err() {
		return nil, fmt.Errorf("measure pass: %w", measure.Error())
	}
	total := measure.PageCount()

	final := buildDocument(blocks, meta, total)
	if final.Err() {
		return nil, fmt.Errorf("layout pass: %w", final.Error())
	}

	buf = &bytes.Buffer{}
	if err := final.Output(buf); err != nil {
		return nil, fmt.Errorf("emit pdf: %w", err)
	}
	return buf, nil
}

// renderFallback produces the degraded document: title plus one plain
// paragraph per blank-line-separated chunk, with all markup characters
// stripped rather than interpreted. No header or footer.
func (s *PDFRenderService) renderFallback(content string, meta RenderMetadata) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageLeft, pageTop, pageLeft)
	pdf.SetAutoPageBreak(true, pageBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 35, 126)
	pdf.CellFormat(0, 28, tr("Personalized Study Material"), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, para := range fallbackParagraphs(content) {
		pdf.MultiCell(0, 14, tr(para), "", "L", false)
		pdf.Ln(12)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("emit fallback pdf: %w", err)
	}
	return buf, nil
}

// fallbackParagraphs strips every markup character from the content and
// splits it into non-blank paragraphs.
func fallbackParagraphs(content string) []string {
	clean := strings.NewReplacer("*", "", "#", "").Replace(content)
	var out []string
	for _, para := range strings.Split(clean, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			out = append(out, para)
		}
	}
	return out
}

// buildDocument is swapped out in tests to exercise the fallback path.
var buildDocument = buildStudyDocument

// buildStudyDocument emits the full document. totalPages == 0 marks the
// measure pass, which skips footer text but is otherwise identical so both
// passes break pages at the same points.
func buildStudyDocument(blocks []renderBlock, meta RenderMetadata, totalPages int) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageLeft, pageTop, pageLeft)
	pdf.SetAutoPageBreak(true, pageBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.SetXY(pageLeft*0.75, 36)
		pdf.CellFormat(0, 10, tr("Study Material - "+meta.MaterialTypeName), "", 0, "L", false, 0, "")
		pdf.SetY(pageTop)
	})
	pdf.SetFooterFunc(func() {
		if totalPages == 0 {
			return
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.SetY(-54)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of %d", pdf.PageNo(), totalPages), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	bw := &blockWriter{pdf: pdf, tr: tr}
	bw.writeCover(meta)
	for _, block := range blocks {
		bw.writeBlock(block)
	}
	return pdf
}

// blockWriter renders classified blocks in their visual styles.
type blockWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (bw *blockWriter) writeCover(meta RenderMetadata) {
	pdf := bw.pdf

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 35, 126)
	pdf.CellFormat(0, 28, bw.tr("Personalized Study Material"), "", 1, "C", false, 0, "")
	pdf.Ln(30)

	lines := []string{
		"Generated on " + meta.GeneratedAt.Format("January 2, 2006"),
		"Material Type: " + meta.MaterialTypeName,
	}
	if len(meta.WeakSpots) > 0 {
		spots := meta.WeakSpots
		if len(spots) > 3 {
			spots = spots[:3]
		}
		lines = append(lines, "Focus Areas: "+strings.Join(spots, ", "))
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	for _, line := range lines {
		pdf.CellFormat(0, 14, bw.tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(40)
}

func (bw *blockWriter) writeBlock(block renderBlock) {
	switch block.kind {
	case blockListBreak:
		bw.pdf.Ln(6)
	case blockTitle:
		bw.writeLine(block.text, "B", 24, 28, 26, 35, 126)
		bw.pdf.Ln(30)
	case blockSectionHeader:
		bw.pdf.Ln(20)
		bw.writeLine(block.text, "B", 18, 22, 25, 118, 210)
		bw.pdf.Ln(12)
	case blockSubHeader:
		bw.pdf.Ln(12)
		bw.writeLine(block.text, "B", 14, 17, 66, 66, 66)
		bw.pdf.Ln(10)
	case blockKeyPoint:
		bw.writeKeyPoint(block.text)
	case blockBullet:
		bw.writeIndented("• ", block.text, 20)
		bw.pdf.Ln(6)
	case blockNumbered:
		bw.writeIndented("", block.text, 20)
		bw.pdf.Ln(6)
	default: // paragraph
		bw.writeLine(block.text, "", 11, 14, 0, 0, 0)
		bw.pdf.Ln(8)
	}
}

// writeLine flows one logical line with inline emphasis applied, wrapping at
// the current margins.
func (bw *blockWriter) writeLine(text, baseStyle string, size, lineHt float64, r, g, b int) {
	bw.pdf.SetTextColor(r, g, b)
	for _, span := range parseInline(text) {
		style := baseStyle
		if span.bold && !strings.Contains(style, "B") {
			style += "B"
		}
		if span.italic {
			style += "I"
		}
		bw.pdf.SetFont("Helvetica", style, size)
		bw.pdf.Write(lineHt, bw.tr(span.text))
	}
	bw.pdf.Ln(lineHt)
}

// writeIndented renders a list item with a hanging indent so wrapped lines
// stay aligned under the item text.
func (bw *blockWriter) writeIndented(prefix, text string, indent float64) {
	pdf := bw.pdf
	pdf.SetLeftMargin(pageLeft + indent)
	pdf.SetX(pageLeft + indent)
	if prefix != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.Write(14, bw.tr(prefix))
	}
	bw.writeLine(text, "", 11, 14, 0, 0, 0)
	pdf.SetLeftMargin(pageLeft)
}

// writeKeyPoint renders the callout style: green text with a colored bar at
// the left edge. The bar is skipped when the block spans a page break.
func (bw *blockWriter) writeKeyPoint(text string) {
	pdf := bw.pdf
	pdf.SetLeftMargin(pageLeft + 10)
	pdf.SetX(pageLeft + 10)
	page := pdf.PageNo()
	top := pdf.GetY()
	bw.writeLine(text, "", 11, 14, 27, 94, 32)
	bottom := pdf.GetY()
	pdf.SetLeftMargin(pageLeft)
	if pdf.PageNo() == page && bottom > top {
		pdf.SetFillColor(76, 175, 80)
		pdf.Rect(pageLeft, top, keyPointBar, bottom-top, "F")
	}
	pdf.Ln(8)
}
