// Package pdf assembles downloaded documents into one PDF with a
// top-level bookmark per document.
//
// Documents are validated and their pages counted with
// github.com/ledongthuc/pdf when appended. Merging, the outline and the
// document title are written with github.com/pdfcpu/pdfcpu when the
// bundle is encoded. An empty bundle is written directly as a valid PDF
// with no pages.
package pdf
