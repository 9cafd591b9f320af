// Package sink writes laid-out ballot pages to output formats.
//
// # PDF Output
//
// [RenderPDF] lays out every page with the native engine and paints boxes
// and text with go-pdf/fpdf. Units are converted from pixels (96 per inch)
// to points (72 per inch). Documents always have an even page count:
//
//	pdf, err := sink.RenderPDF(pages, sink.WithEngine(engine))
//
// The Go fonts used for measurement are embedded, so painted text has the
// widths the layout assumed.
//
// # Shapes
//
// [RoundedRect] draws rounded rectangles from line segments and cubic
// Bezier quarter circles on anything implementing [Path], which
// *fpdf.Fpdf does. Bubbles and vote marks both use it.
//
// # JSON Output
//
// [RenderJSON] exports laid-out boxes with their classes and data
// attributes for inspection.
package sink
