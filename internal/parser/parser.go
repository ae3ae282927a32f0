package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	docxPageBreak = regexp.MustCompile(`<w:br [^>]*w:type="page"[^>]*/>`)
	docxRun       = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
	slideName     = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
)

// openDOCX splits the body on explicit page breaks. Paragraphs become lines.
func openDOCX(filePath string) (Document, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var out pages
	for _, part := range docxPageBreak.Split(content, -1) {
		var lines []string
		for _, paragraph := range strings.Split(part, "</w:p>") {
			var line strings.Builder
			for _, m := range docxRun.FindAllStringSubmatch(paragraph, -1) {
				line.WriteString(html.UnescapeString(m[1]))
			}
			if line.Len() > 0 {
				lines = append(lines, line.String())
			}
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	return out, nil
}

// openPPTX reads one page per slide, in slide order.
func openPPTX(filePath string) (Document, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	type slide struct {
		num  int
		text string
	}
	var slides []slide
	for _, file := range f.File {
		m := slideName.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
		slides = append(slides, slide{num: num, text: extractTextFromXML(string(data))})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	out := make(pages, len(slides))
	for i, s := range slides {
		out[i] = s.text
	}
	return out, nil
}

// openXLSX reads one page per sheet, cells tab separated.
func openXLSX(filePath string) (Document, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	out := make(pages, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		var sheetText strings.Builder
		sheetText.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				sheetText.WriteString(cell.String() + "\t")
			}
			sheetText.WriteString("\n")
		}
		out = append(out, sheetText.String())
	}
	return out, nil
}

// openExcelize covers the macro and template workbook variants.
func openExcelize(filePath string) (Document, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out pages
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
		var sheetText strings.Builder
		sheetText.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				sheetText.WriteString(cell + "\t")
			}
			sheetText.WriteString("\n")
		}
		out = append(out, sheetText.String())
	}
	return out, nil
}

// openMarkdown strips markup and returns the plain text as a single page.
func openMarkdown(filePath string) (Document, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	plain, err := markdownText(src)
	if err != nil {
		return nil, err
	}
	return pages{plain}, nil
}

func markdownText(src []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.URL(src))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractTextFromXML(xmlContent string) string {
	var b strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			b.WriteString(html.UnescapeString(part[:endIdx]) + " ")
		}
	}
	return b.String()
}
