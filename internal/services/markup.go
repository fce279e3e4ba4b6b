package services

import "strings"

type blockKind int

const (
	blockParagraph blockKind = iota
	blockTitle
	blockSectionHeader
	blockSubHeader
	blockKeyPoint
	blockBullet
	blockNumbered
	blockListBreak
)

type renderBlock struct {
	kind blockKind
	text string
}

var bulletMarkers = []string{"•", "-", "→"}

// classifyBlocks walks the generated text line by line and assigns each line
// a visual role. A blank line inside a list ends the list; blank lines
// elsewhere are dropped.
func classifyBlocks(content string) []renderBlock {
	var blocks []renderBlock
	inList := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if inList {
				blocks = append(blocks, renderBlock{kind: blockListBreak})
				inList = false
			}
			continue
		}
		block := classifyLine(line)
		if block.kind == blockBullet || block.kind == blockNumbered {
			inList = true
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// classifyLine maps a single non-blank trimmed line to its block role.
// Header markers win over everything, the key-takeaway phrases over list
// markers, and a bare "*" only starts a bullet when followed by a space.
func classifyLine(line string) renderBlock {
	switch {
	case strings.HasPrefix(line, "###"):
		return renderBlock{kind: blockSubHeader, text: stripHashes(line)}
	case strings.HasPrefix(line, "##"):
		return renderBlock{kind: blockSectionHeader, text: stripHashes(line)}
	case strings.HasPrefix(line, "#"):
		return renderBlock{kind: blockTitle, text: stripHashes(line)}
	}

	lower := strings.ToLower(line)
	if strings.Contains(lower, "key takeaway") || strings.Contains(lower, "important:") {
		return renderBlock{kind: blockKeyPoint, text: line}
	}

	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return renderBlock{kind: blockBullet, text: strings.TrimSpace(line[len(marker):])}
		}
	}
	if strings.HasPrefix(line, "* ") {
		return renderBlock{kind: blockBullet, text: strings.TrimSpace(line[2:])}
	}

	if isNumberedItem(line) {
		return renderBlock{kind: blockNumbered, text: line}
	}
	return renderBlock{kind: blockParagraph, text: line}
}

func stripHashes(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
}

// isNumberedItem reports whether the line starts with one or more digits
// followed by a period and a space, as in "12. Summarize the findings".
func isNumberedItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

// textSpan is a run of characters sharing one emphasis state.
type textSpan struct {
	text   string
	bold   bool
	italic bool
}

type inlineChar struct {
	r      rune
	bold   bool
	italic bool
}

// parseInline resolves the emphasis markup of one line into styled spans.
// "**x**" pairs bold first and may not contain an asterisk; a remaining
// single "*" pairs italic only when not adjacent to another asterisk, so
// "***x***" nests bold inside italic and unmatched markers stay literal.
func parseInline(line string) []textSpan {
	chars := italicPass(boldPass(line))
	var spans []textSpan
	var buf strings.Builder
	flush := func(bold, italic bool) {
		if buf.Len() > 0 {
			spans = append(spans, textSpan{text: buf.String(), bold: bold, italic: italic})
			buf.Reset()
		}
	}
	for i, c := range chars {
		if i > 0 && (chars[i-1].bold != c.bold || chars[i-1].italic != c.italic) {
			flush(chars[i-1].bold, chars[i-1].italic)
		}
		buf.WriteRune(c.r)
	}
	if len(chars) > 0 {
		last := chars[len(chars)-1]
		flush(last.bold, last.italic)
	}
	return spans
}

// boldPass consumes "**"-delimited pairs. An opener whose first following
// asterisk does not begin a closing "**", or whose content would be empty,
// stays literal and scanning resumes one character later.
func boldPass(line string) []inlineChar {
	var out []inlineChar
	rest := line
	for rest != "" {
		j := strings.Index(rest, "**")
		if j < 0 {
			out = appendPlain(out, rest)
			break
		}
		inner := rest[j+2:]
		m := strings.IndexByte(inner, '*')
		if m > 0 && strings.HasPrefix(inner[m:], "**") {
			out = appendPlain(out, rest[:j])
			for _, r := range inner[:m] {
				out = append(out, inlineChar{r: r, bold: true})
			}
			rest = inner[m+2:]
			continue
		}
		out = appendPlain(out, rest[:j+1])
		rest = rest[j+1:]
	}
	return out
}

// italicPass consumes single-asterisk pairs around the bold runs. Delimiters
// adjacent to another asterisk do not open or close, and the enclosed run
// keeps any bold state it already carries.
func italicPass(chars []inlineChar) []inlineChar {
	out := make([]inlineChar, 0, len(chars))
	i := 0
	for i < len(chars) {
		c := chars[i]
		if c.r != '*' || (i > 0 && chars[i-1].r == '*') {
			out = append(out, c)
			i++
			continue
		}
		j := i + 1
		for j < len(chars) && chars[j].r != '*' {
			j++
		}
		if j < len(chars) && j > i+1 && (j+1 >= len(chars) || chars[j+1].r != '*') {
			for k := i + 1; k < j; k++ {
				span := chars[k]
				span.italic = true
				out = append(out, span)
			}
			i = j + 1
			continue
		}
		out = append(out, c)
		i++
	}
	return out
}

func appendPlain(out []inlineChar, s string) []inlineChar {
	for _, r := range s {
		out = append(out, inlineChar{r: r})
	}
	return out
}
