package xml

import (
	"fmt"
	"strconv"
	"strings"

	jperrors "github.com/FocuswithJustin/JuniperParallel/core/errors"
	"github.com/FocuswithJustin/JuniperParallel/core/ir"
)

const zefaniaFormat = "Zefania XML"

// ZefaniaInfo is the descriptive header of a Zefania file.
type ZefaniaInfo struct {
	Title       string
	Creator     string
	Language    string
	Identifier  string
	Description string
}

// ReadZefaniaInfo extracts the INFORMATION block. Missing fields are left
// empty.
func ReadZefaniaInfo(doc *Document) ZefaniaInfo {
	text := func(expr string) string {
		n, err := doc.XPathFirst(expr)
		if err != nil || n == nil {
			return ""
		}
		return strings.TrimSpace(n.InnerText())
	}
	return ZefaniaInfo{
		Title:       text("/XMLBIBLE/INFORMATION/title"),
		Creator:     text("/XMLBIBLE/INFORMATION/creator"),
		Language:    text("/XMLBIBLE/INFORMATION/language"),
		Identifier:  text("/XMLBIBLE/INFORMATION/identifier"),
		Description: text("/XMLBIBLE/INFORMATION/description"),
	}
}

// LoadZefania reads the verses of one BIBLEBOOK from a Zefania XML file.
// CHAPTER@cnumber becomes the chapter and VERS@vnumber the verse. A book
// of 0 selects the first book in the file. Verses are returned in
// document order with surrounding whitespace trimmed.
func LoadZefania(data []byte, book int) ([]ir.TextItem, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, &jperrors.ParseError{Format: zefaniaFormat, Message: "malformed document", Err: err}
	}
	return ZefaniaVerses(doc, book)
}

// ZefaniaVerses is LoadZefania for an already parsed document.
func ZefaniaVerses(doc *Document, book int) ([]ir.TextItem, error) {
	expr := "/XMLBIBLE/BIBLEBOOK[1]"
	if book > 0 {
		expr = fmt.Sprintf("/XMLBIBLE/BIBLEBOOK[@bnumber='%d']", book)
	}
	bookNode, err := doc.XPathFirst(expr)
	if err != nil {
		return nil, err
	}
	if bookNode == nil {
		return nil, jperrors.NewNotFound("book", strconv.Itoa(book))
	}

	chapters, err := bookNode.XPath("CHAPTER")
	if err != nil {
		return nil, err
	}

	var items []ir.TextItem
	for _, ch := range chapters {
		chapter, err := positiveAttr(ch, "cnumber")
		if err != nil {
			return nil, err
		}
		verses, err := ch.XPath("VERS")
		if err != nil {
			return nil, err
		}
		for _, vs := range verses {
			verse, err := positiveAttr(vs, "vnumber")
			if err != nil {
				return nil, err
			}
			items = append(items, ir.NewTextItem(chapter, verse, strings.TrimSpace(vs.InnerText())))
		}
	}
	return items, nil
}

func positiveAttr(n *Node, name string) (int, error) {
	raw := n.Attr(name)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0, jperrors.NewParse(zefaniaFormat, "", fmt.Sprintf("%s@%s: invalid number %q", n.Name(), name, raw))
	}
	return v, nil
}
