package pdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
)

// writeMinimal writes a PDF with the given number of blank A4 pages and an
// Info dictionary carrying title.
func writeMinimal(w io.Writer, title string, pages int) error {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	// Objects: 1 catalog, 2 page tree, 3 info, then one per page.
	objects := make([]string, 0, 3+pages)
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
		fmt.Sprintf("<< /Title %s /Producer (aipsync) >>", pdfString(title)),
	)
	for range pages {
		objects = append(objects,
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	cw.printf("%%PDF-1.4\n%%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int64, len(objects))
	for i, obj := range objects {
		offsets[i] = cw.n
		cw.printf("%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := cw.n
	cw.printf("xref\n0 %d\n", len(objects)+1)
	cw.printf("0000000000 65535 f \n")
	for _, off := range offsets {
		cw.printf("%010d 00000 n \n", off)
	}
	cw.printf("trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\n", len(objects)+1)
	cw.printf("startxref\n%d\n%%%%EOF\n", xref)

	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

// pdfString encodes s as a PDF string object.
// ASCII text becomes an escaped literal, anything else UTF-16BE hex.
func pdfString(s string) string {
	ascii := true
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
		return "(" + r.Replace(s) + ")"
	}

	var b strings.Builder
	b.WriteString("<FEFF")
	for _, u := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&b, "%04X", u)
	}
	b.WriteString(">")
	return b.String()
}

// countingWriter tracks the byte offset and the first write error.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	n, err := fmt.Fprintf(c.w, format, args...)
	c.n += int64(n)
	c.err = err
}
