package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal but well-formed document with the given
// page count, computing the cross-reference table from the actual byte
// offsets so the fixture is valid by construction.
func buildPDF(t *testing.T, pages int, title string) []byte {
	t.Helper()

	var body bytes.Buffer
	var offsets []int

	body.WriteString("%PDF-1.4\n")

	addObj := func(obj string) {
		offsets = append(offsets, body.Len())
		body.WriteString(obj)
	}

	kids := make([]string, pages)
	for i := 0; i < pages; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << >> >>\nendobj\n", 3+i))
	}

	infoNum := 3 + pages
	addObj(fmt.Sprintf("%d 0 obj\n<< /Title (%s) >>\nendobj\n", infoNum, title))

	xrefOffset := body.Len()
	size := infoNum + 1

	body.WriteString("xref\n")
	body.WriteString(fmt.Sprintf("0 %d\n", size))
	body.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		body.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	body.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, infoNum, xrefOffset))

	return body.Bytes()
}

func pageCount(t *testing.T, engine Engine, data []byte) int {
	t.Helper()
	md, err := engine.Info(data)
	require.NoError(t, err)
	return md.PageCount
}

func TestEngineInfo(t *testing.T) {
	engine := NewEngine()
	doc := buildPDF(t, 3, "Quarterly Report")

	md, err := engine.Info(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, md.PageCount)
	assert.Equal(t, "Quarterly Report", md.Title)
	assert.Empty(t, md.Author)
}

func TestEngineInfoCorruptInput(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Info([]byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestEngineExtract(t *testing.T) {
	engine := NewEngine()
	doc := buildPDF(t, 5, "")

	out, err := engine.Extract(doc, []PageRange{{1, 2}})
	require.NoError(t, err)

	assert.Equal(t, 2, pageCount(t, engine, out))
}

func TestEngineExtractClampsPastLastPage(t *testing.T) {
	engine := NewEngine()
	doc := buildPDF(t, 3, "")

	out, err := engine.Extract(doc, []PageRange{{1, 9}})
	require.NoError(t, err)

	assert.Equal(t, 2, pageCount(t, engine, out), "pages 1 and 2 survive, 3..9 are clamped away")
}

func TestEngineExtractNothingSelected(t *testing.T) {
	engine := NewEngine()
	doc := buildPDF(t, 3, "")

	_, err := engine.Extract(doc, []PageRange{{10, 12}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages selected")
}

func TestEngineMergePageCountIsSum(t *testing.T) {
	engine := NewEngine()
	first := buildPDF(t, 1, "")
	second := buildPDF(t, 1, "")

	out, err := engine.Merge([][]byte{first, second})
	require.NoError(t, err)

	assert.Equal(t, 2, pageCount(t, engine, out))
}

func TestEngineMergeKeepsInputOrderCounts(t *testing.T) {
	engine := NewEngine()
	first := buildPDF(t, 2, "")
	second := buildPDF(t, 3, "")

	out, err := engine.Merge([][]byte{first, second})
	require.NoError(t, err)

	assert.Equal(t, 5, pageCount(t, engine, out))
}

func TestEngineMergeCorruptInput(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Merge([][]byte{buildPDF(t, 1, ""), []byte("garbage")})
	assert.Error(t, err)
}

func TestEngineCompressPreservesPages(t *testing.T) {
	engine := NewEngine()
	doc := buildPDF(t, 2, "Before Compression")

	out, err := engine.Compress(doc)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.Equal(t, 2, pageCount(t, engine, out))
}

func TestEngineCompressCorruptInput(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Compress([]byte("garbage"))
	assert.Error(t, err)
}
