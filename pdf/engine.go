// Package pdf wraps the document transforms this service sells: metadata
// inspection, page extraction, merging, and compression.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Metadata is the document-level information reported by Info. Date fields
// carry the raw PDF date strings from the info dictionary.
type Metadata struct {
	PageCount        int    `json:"pageCount"`
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	Creator          string `json:"creator,omitempty"`
	CreationDate     string `json:"creationDate,omitempty"`
	ModificationDate string `json:"modificationDate,omitempty"`
}

// Engine is the PDF collaborator behind the priced routes. Implementations
// must be safe for concurrent use; inputs are whole documents in memory
// and outputs are complete documents, never partial writes.
type Engine interface {
	// Info reports page count and info-dictionary metadata.
	Info(data []byte) (*Metadata, error)

	// Extract builds a new document from the selected ranges, clamped to
	// the document's last page. A selection that clamps to nothing is an
	// error.
	Extract(data []byte, ranges []PageRange) ([]byte, error)

	// Merge concatenates the inputs into one document, pages in input order.
	Merge(inputs [][]byte) ([]byte, error)

	// Compress rewrites the document with optimized resources.
	Compress(data []byte) ([]byte, error)
}

// PdfcpuEngine implements Engine on top of pdfcpu with relaxed validation,
// so slightly malformed but readable documents are processed rather than
// refused.
type PdfcpuEngine struct {
	conf *model.Configuration
}

// NewEngine creates a pdfcpu-backed engine.
func NewEngine() *PdfcpuEngine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuEngine{conf: conf}
}

func (e *PdfcpuEngine) Info(data []byte) (*Metadata, error) {
	count, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF: %w", err)
	}

	md := &Metadata{PageCount: count}

	ctx, err := api.ReadContext(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF: %w", err)
	}

	if ctx.Info != nil {
		if infoDict, err := ctx.DereferenceDict(*ctx.Info); err == nil && infoDict != nil {
			md.Title = stringEntry(infoDict, "Title")
			md.Author = stringEntry(infoDict, "Author")
			md.Subject = stringEntry(infoDict, "Subject")
			md.Creator = stringEntry(infoDict, "Creator")
			md.CreationDate = stringEntry(infoDict, "CreationDate")
			md.ModificationDate = stringEntry(infoDict, "ModDate")
		}
	}

	return md, nil
}

func (e *PdfcpuEngine) Extract(data []byte, ranges []PageRange) ([]byte, error) {
	count, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to load PDF: %w", err)
	}

	pages := ExpandRanges(ranges, count)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages selected (document has %d pages)", count)
	}

	// pdfcpu selections are 1-based.
	selection := make([]string, len(pages))
	for i, p := range pages {
		selection[i] = strconv.Itoa(p + 1)
	}

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, selection, e.conf); err != nil {
		return nil, fmt.Errorf("failed to extract pages: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) Merge(inputs [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(inputs))
	for i, input := range inputs {
		readers[i] = bytes.NewReader(input)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, e.conf); err != nil {
		return nil, fmt.Errorf("failed to merge PDFs: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, e.conf); err != nil {
		return nil, fmt.Errorf("failed to compress PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func stringEntry(d types.Dict, key string) string {
	if s := d.StringEntry(key); s != nil {
		return *s
	}
	return ""
}
