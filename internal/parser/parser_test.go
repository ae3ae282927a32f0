package parser_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pdfqa/internal/parser"
)

// writeZip builds an archive at dir/name from a map of entry names to
// contents.
func writeZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, content := range entries {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatalf("zip Create(%s) error = %v", entry, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("zip Write(%s) error = %v", entry, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip Close() error = %v", err)
	}
	return path
}

func writeWorkbook(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue("Sheet1", "A1", "alpha"); err != nil {
		t.Fatalf("SetCellValue() error = %v", err)
	}
	if _, err := f.NewSheet("Second"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if err := f.SetCellValue("Second", "A1", "beta"); err != nil {
		t.Fatalf("SetCellValue() error = %v", err)
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>first</w:t></w:r><w:r><w:t xml:space="preserve"> page</w:t></w:r></w:p>` +
	`<w:p><w:r><w:br w:type="page"/></w:r></w:p>` +
	`<w:p><w:r><w:t>second</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func slideXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><p:sld xmlns:a="a" xmlns:p="p"><p:txBody><a:p><a:r><a:t>` +
		text + `</a:t></a:r></a:p></p:txBody></p:sld>`
}

func TestLoadPagesFormats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "xlsx sheets in order",
			path: writeWorkbook(t, dir, "rates.xlsx"),
			want: []string{"Sheet: Sheet1 alpha ", "Sheet: Second beta "},
		},
		{
			name: "xlsm sheets in order",
			path: writeWorkbook(t, dir, "rates.xlsm"),
			want: []string{"Sheet: Sheet1 alpha ", "Sheet: Second beta "},
		},
		{
			name: "pptx slides in numeric order",
			path: writeZip(t, dir, "deck.pptx", map[string]string{
				"ppt/slides/slide10.xml":           slideXML("ten"),
				"ppt/slides/slide2.xml":            slideXML("two &amp; more"),
				"ppt/slides/_rels/slide2.xml.rels": docxRels,
			}),
			want: []string{"two & more ", "ten "},
		},
		{
			name: "docx split on page breaks",
			path: writeZip(t, dir, "policy.docx", map[string]string{
				"word/document.xml":            docxBody,
				"word/_rels/document.xml.rels": docxRels,
			}),
			want: []string{"first page", "second"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.LoadPages(tt.path, 1, 0)
			if err != nil {
				t.Fatalf("LoadPages() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadPages() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadPagesPDF(t *testing.T) {
	path := filepath.Join("testdata", "brochure.pdf")

	tests := []struct {
		name      string
		startPage int
		endPage   int
		want      []string
	}{
		{"all pages", 1, 0, []string{"Premium paid annually", "Maturity benefit payable"}},
		{"second page only", 2, 0, []string{"Maturity benefit payable"}},
		{"first page only", 1, 1, []string{"Premium paid annually"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.LoadPages(path, tt.startPage, tt.endPage)
			if err != nil {
				t.Fatalf("LoadPages() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("LoadPages() returned %d pages, want %d: %q", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				if !strings.Contains(got[i], want) {
					t.Errorf("page %d = %q, want it to contain %q", i+1, got[i], want)
				}
			}
		})
	}
}

func TestOpenPDFPageCount(t *testing.T) {
	doc, err := parser.Open(filepath.Join("testdata", "brochure.pdf"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	if got := doc.PageCount(); got != 2 {
		t.Errorf("PageCount() = %d, want 2", got)
	}
}
