package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/epubdoc"
	"github.com/tsawler/tabula/format"
	"github.com/tsawler/tabula/htmldoc"
	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/odt"
	"github.com/tsawler/tabula/pptx"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/xlsx"
)

// US Letter, used when a PDF page has no usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// textReader is implemented by the tabula readers that only expose whole-document text
type textReader interface {
	Text() (string, error)
	Close() error
}

// extractPages returns the text of each page of the file along with the format name.
// PDFs yield one entry per page and presentations one per slide; other formats yield a single entry.
func extractPages(path string) ([]string, string, error) {
	if strings.EqualFold(filepath.Ext(path), ".epub") {
		r, err := epubdoc.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open EPUB: %w", err)
		}
		return wholeText(r, "EPUB")
	}

	switch kind := format.Detect(path); kind {
	case format.PDF:
		pages, err := pdfPages(path)
		return pages, kind.String(), err
	case format.PPTX:
		pages, err := slidePages(path)
		return pages, kind.String(), err
	case format.DOCX:
		r, err := docx.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open DOCX: %w", err)
		}
		return wholeText(r, kind.String())
	case format.ODT:
		r, err := odt.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open ODT: %w", err)
		}
		return wholeText(r, kind.String())
	case format.XLSX:
		r, err := xlsx.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open XLSX: %w", err)
		}
		return wholeText(r, kind.String())
	case format.HTML:
		r, err := htmldoc.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open HTML: %w", err)
		}
		return wholeText(r, kind.String())
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("error reading file: %w", err)
		}
		return []string{string(data)}, "TEXT", nil
	}
}

func wholeText(r textReader, kind string) ([]string, string, error) {
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract %s text: %w", kind, err)
	}
	return []string{text}, kind, nil
}

// pdfPages extracts each PDF page, rebuilding reading lines from the positioned fragments
func pdfPages(path string) ([]string, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	detector := layout.NewLineDetector()
	pages := make([]string, 0, count)
	for i := 0; i < count; i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get page %d: %w", i+1, err)
		}

		fragments, err := r.ExtractTextFragments(page)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i+1, err)
		}
		if len(fragments) == 0 {
			pages = append(pages, "")
			continue
		}

		width, err := page.Width()
		if err != nil || width <= 0 {
			width = defaultPageWidth
		}
		height, err := page.Height()
		if err != nil || height <= 0 {
			height = defaultPageHeight
		}

		lines := detector.Detect(fragments, width, height).Lines
		texts := make([]string, 0, len(lines))
		for _, line := range lines {
			texts = append(texts, line.Text)
		}
		pages = append(pages, strings.Join(texts, "\n"))
	}
	return pages, nil
}

func slidePages(path string) ([]string, error) {
	r, err := pptx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPTX: %w", err)
	}
	defer r.Close()

	pages := make([]string, 0, r.SlideCount())
	for i := 0; i < r.SlideCount(); i++ {
		slide, err := r.Slide(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, strings.TrimSpace(slide.GetText()))
	}
	return pages, nil
}
