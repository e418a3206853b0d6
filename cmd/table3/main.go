// Command table3 reads a CIF document from stdin and renders the first
// loop whose category is _atom_site as an XHTML table.
package main

import (
	"fmt"
	"html"
	"os"

	"github.com/jbcif/cif"
	"github.com/jbcif/cif/parser"
	"github.com/jbcif/cif/scanner"
	"github.com/jbcif/cif/value"
)

type readerDecoder struct {
	r *os.File
}

func (d readerDecoder) Fill(dst []byte) (int, error) {
	return d.r.Read(dst)
}

// findAtomSiteLoop walks the document looking up _atom_site by category
// in every block and frame it visits, so the match honors the
// document's own name-normalization rule rather than a literal string
// comparison.
func findAtomSiteLoop(doc *cif.CIF) *cif.Loop {
	var found *cif.Loop
	checkContainer := func(c cif.Container) (cif.Directive, error) {
		if l, ok := c.GetLoopByCategory("_atom_site"); ok {
			found = l
			return cif.End, nil
		}
		return cif.Continue, nil
	}
	cif.Walk(doc, cif.Visitor{
		BlockStart: func(b *cif.Block) (cif.Directive, error) { return checkContainer(b) },
		FrameStart: func(f *cif.Frame) (cif.Directive, error) { return checkContainer(f) },
	})
	return found
}

func renderTable(l *cif.Loop) {
	fmt.Println("<table>")
	fmt.Println("  <thead>")
	fmt.Println("    <tr>")
	for _, name := range l.Columns() {
		fmt.Printf("      <th>%s</th>\n", html.EscapeString(name))
	}
	fmt.Println("    </tr>")
	fmt.Println("  </thead>")
	fmt.Println("  <tbody>")
	for i := 0; i < l.Size(); i++ {
		pk, err := l.PacketAt(i)
		if err != nil {
			continue
		}
		fmt.Println("    <tr>")
		for j := range l.Columns() {
			v, err := pk.At(j)
			cell := ""
			if err == nil {
				cell = cellText(v)
			}
			fmt.Printf("      <td>%s</td>\n", html.EscapeString(cell))
		}
		fmt.Println("    </tr>")
	}
	fmt.Println("  </tbody>")
	fmt.Println("</table>")
}

// cellText renders v's display text: Unknown/NotApplicable as their CIF
// literals, Char/Numb as their text. List/Table values aren't expected
// in an _atom_site loop and render as an empty cell.
func cellText(v *value.Value) string {
	switch v.Kind() {
	case value.Unknown:
		return "?"
	case value.NotApplicable:
		return "."
	case value.Numb:
		return v.Display()
	case value.Char:
		return v.Text()
	default:
		return ""
	}
}

func main() {
	cfg := parser.Config{OnError: func(code scanner.ErrorCode, line, column int, snippet string, userData interface{}) int {
		fmt.Fprintf(os.Stderr, "table3: %d:%d: error %d: %s\n", line, column, code, snippet)
		return 0
	}}
	doc, err := parser.Parse(readerDecoder{r: os.Stdin}, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "table3:", err)
		os.Exit(1)
	}

	l := findAtomSiteLoop(doc)
	if l == nil {
		fmt.Fprintln(os.Stderr, "table3: no _atom_site loop found")
		os.Exit(1)
	}
	renderTable(l)
}
