package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/xuri/excelize/v2"
)

func TestClean(t *testing.T) {
	got := Clean("  Quarterly\n\n report\t\tdraft  ")
	testboil.FailTestIfDiff(t, got, "Quarterly report draft")
}

func TestText_Unsupported(t *testing.T) {
	_, err := Text([]byte("x"), "image/png")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if Supported("image/png") {
		t.Error("image/png should not be supported")
	}
}

func TestText_PlainWithCharset(t *testing.T) {
	got, err := Text([]byte("a,b\n1,2\n"), "text/csv; charset=utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "a,b\n1,2\n")
}

func TestDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Project</w:t></w:r><w:r><w:t xml:space="preserve"> plan</w:t></w:r></w:p>
    <w:p><w:r><w:t>Ship by Friday</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := Text(buf.Bytes(), MimeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "Project plan\nShip by Friday")
}

func TestDOCX_BodyTooLarge(t *testing.T) {
	old := maxDocxBody
	maxDocxBody = 16
	t.Cleanup(func() { maxDocxBody = old })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(strings.Repeat("<w:p/>", 100)))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := DOCX(buf.Bytes()); !errors.Is(err, ErrDocxTooLarge) {
		t.Fatalf("expected ErrDocxTooLarge, got %v", err)
	}
}

func TestBoundedReader_StopsAtLimit(t *testing.T) {
	r := &boundedReader{r: strings.NewReader(strings.Repeat("x", 100)), left: 10}
	got, err := io.ReadAll(r)
	if !errors.Is(err, ErrDocxTooLarge) {
		t.Fatalf("expected ErrDocxTooLarge, got %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 bytes before the limit, got %d", len(got))
	}
}

func TestDOCX_NotAZip(t *testing.T) {
	if _, err := DOCX([]byte("plain text")); err == nil {
		t.Fatal("expected error for invalid docx")
	}
}

func TestXLSX(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Name")
	_ = f.SetCellValue("Sheet1", "B1", "Owner")
	_ = f.SetCellValue("Sheet1", "A2", "Budget")
	_ = f.SetCellValue("Sheet1", "B2", "Dana")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Text(buf.Bytes(), MimeXLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.AssertStringContains(t, got, "## Sheet1\n")
	testboil.AssertStringContains(t, got, "Name\tOwner\n")
	testboil.AssertStringContains(t, got, "Budget\tDana\n")
}

func TestPDF_Invalid(t *testing.T) {
	if _, err := PDF([]byte("%PDF-broken")); err == nil {
		t.Fatal("expected error for broken pdf")
	}
}

func TestHTML(t *testing.T) {
	para := strings.Repeat("The migration plan moves every shared folder to the new drive. ", 8)
	doc := `<html><head><title>Migration notes</title></head><body><article>` +
		`<h1>Migration notes</h1><p>` + para + `</p><p>` + para + `</p></article></body></html>`

	got, err := Text([]byte(doc), MimeHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.AssertStringContains(t, got, "Migration notes")
	testboil.AssertStringContains(t, got, "shared folder")
}
