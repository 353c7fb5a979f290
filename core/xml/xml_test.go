package xml

import (
	"errors"
	"strings"
	"testing"

	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<XMLBIBLE biblename="Sample">
  <INFORMATION>
    <title>Sample Translation</title>
    <creator>First Translator</creator>
    <language>en</language>
    <identifier>sample</identifier>
  </INFORMATION>
  <BIBLEBOOK bnumber="1" bname="Quran">
    <CHAPTER cnumber="1">
      <VERS vnumber="1"> In the name of God </VERS>
      <VERS vnumber="2">Praise be to God</VERS>
    </CHAPTER>
    <CHAPTER cnumber="2">
      <VERS vnumber="1">Alif Lam Mim</VERS>
    </CHAPTER>
  </BIBLEBOOK>
  <BIBLEBOOK bnumber="2" bname="Other">
    <CHAPTER cnumber="1">
      <VERS vnumber="1">other book</VERS>
    </CHAPTER>
  </BIBLEBOOK>
</XMLBIBLE>`

func TestParseAndXPath(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := doc.Root().Name(); got != "XMLBIBLE" {
		t.Errorf("Root().Name() = %q, want XMLBIBLE", got)
	}
	if got := doc.Root().Attr("biblename"); got != "Sample" {
		t.Errorf("Attr(biblename) = %q, want Sample", got)
	}

	books, err := doc.XPath("//BIBLEBOOK")
	if err != nil {
		t.Fatalf("XPath() error = %v", err)
	}
	if len(books) != 2 {
		t.Errorf("len(books) = %d, want 2", len(books))
	}

	missing, err := doc.XPathFirst("//NOTHING")
	if err != nil || missing != nil {
		t.Errorf("XPathFirst(//NOTHING) = %v, %v; want nil, nil", missing, err)
	}

	if _, err := doc.XPath("//["); err == nil {
		t.Error("XPath() with invalid expression should fail")
	}
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{"<a><b></a>", "<a>&custom;</a>", "<a>"} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Parse(%q) expected error", input)
		}
	}
}

func TestLoadZefania(t *testing.T) {
	items, err := LoadZefania([]byte(sample), 0)
	if err != nil {
		t.Fatalf("LoadZefania() error = %v", err)
	}
	want := []ir.TextItem{
		ir.NewTextItem(1, 1, "In the name of God"),
		ir.NewTextItem(1, 2, "Praise be to God"),
		ir.NewTextItem(2, 1, "Alif Lam Mim"),
	}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}

	other, err := LoadZefania([]byte(sample), 2)
	if err != nil {
		t.Fatalf("LoadZefania(book 2) error = %v", err)
	}
	if len(other) != 1 || other[0].Text != "other book" {
		t.Errorf("LoadZefania(book 2) = %+v", other)
	}
}

func TestLoadZefaniaErrors(t *testing.T) {
	if _, err := LoadZefania([]byte(sample), 9); !errors.Is(err, jperrors.ErrNotFound) {
		t.Errorf("missing book error = %v, want ErrNotFound", err)
	}

	bad := strings.Replace(sample, `vnumber="2"`, `vnumber="two"`, 1)
	if _, err := LoadZefania([]byte(bad), 1); !errors.Is(err, jperrors.ErrInvalidInput) {
		t.Errorf("bad vnumber error = %v, want ErrInvalidInput", err)
	}

	var pe *jperrors.ParseError
	if _, err := LoadZefania([]byte("<XMLBIBLE>"), 0); !errors.As(err, &pe) {
		t.Errorf("malformed error = %v, want *ParseError", err)
	}
}

func TestReadZefaniaInfo(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	info := ReadZefaniaInfo(doc)
	if info.Title != "Sample Translation" || info.Creator != "First Translator" || info.Language != "en" {
		t.Errorf("ReadZefaniaInfo() = %+v", info)
	}
	if info.Description != "" {
		t.Errorf("Description = %q, want empty", info.Description)
	}
}
