package doc

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"plexus/pkg/loader"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	docXML := `<document><body>` +
		`<p><r><t>Alpha</t></r><r><t> beta</t></r></p>` +
		`<p><r><t>Tabbed</t></r><r><tab/></r><r><t>value</t></r></p>` +
		`<p><del><r><t>gone</t></r></del><r><t>kept</t></r></p>` +
		`<tbl><tr><tc><p><r><t>a</t></r></p></tc><tc><p><r><t>b</t></r></p></tc></tr></tbl>` +
		`<p><r><t>tail</t></r></p>` +
		`</body></document>`

	got, err := parseDocx(buildDocx(t, docXML))
	if err != nil {
		t.Fatalf("parseDocx() error: %v", err)
	}

	want := "Alpha beta\nTabbed\tvalue\nkept\na\n\tb\n\ntail\n"
	if string(got) != want {
		t.Fatalf("parseDocx() = %q, want %q", got, want)
	}
}

func TestParseDocxLineBreaks(t *testing.T) {
	docXML := `<document><body>` +
		`<p><r><t>first</t></r><r><br/></r><r><t>second</t></r></p>` +
		`<p><r><t>joined</t></r><r><noBreakHyphen/></r><r><t>word</t></r></p>` +
		`</body></document>`

	got, err := parseDocx(buildDocx(t, docXML))
	if err != nil {
		t.Fatalf("parseDocx() error: %v", err)
	}

	want := "first\nsecond\njoined-word\n"
	if string(got) != want {
		t.Fatalf("parseDocx() = %q, want %q", got, want)
	}
}

func TestParseDocxNotAZip(t *testing.T) {
	if _, err := parseDocx([]byte("plain text, not a docx")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestParseDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("failed to write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	if _, err := parseDocx(buf.Bytes()); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

type rawLoader struct {
	content []byte
	calls   int
}

func (l *rawLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	l.calls++
	return l.content, nil
}

func (l *rawLoader) GetBase64(ctx context.Context, file loader.GraphFile) (loader.GraphBase64, error) {
	return loader.GraphBase64{}, nil
}

func TestDocGraphLoaderCaches(t *testing.T) {
	ctx := context.Background()
	docXML := `<document><body><p><r><t>cached text</t></r></p></body></document>`
	raw := &rawLoader{content: buildDocx(t, docXML)}

	l := NewDocGraphLoader(raw)
	file := loader.NewGraphDocumentFile(loader.NewGraphFileParams{
		ID:       "d1",
		FilePath: "report.docx",
		Loader:   l,
	})

	first, err := l.GetFileText(ctx, file)
	if err != nil {
		t.Fatalf("first GetFileText() error: %v", err)
	}
	if string(first) != "cached text\n" {
		t.Fatalf("GetFileText() = %q", first)
	}

	second, err := l.GetFileText(ctx, file)
	if err != nil {
		t.Fatalf("second GetFileText() error: %v", err)
	}
	if string(second) != string(first) {
		t.Fatalf("cached result differs: %q vs %q", second, first)
	}
	if raw.calls != 1 {
		t.Fatalf("raw loader called %d times, want 1", raw.calls)
	}
}
