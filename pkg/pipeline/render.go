package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/observability"
	"github.com/matzehuels/ballotgrid/pkg/render"
	"github.com/matzehuels/ballotgrid/pkg/render/sink"
)

// LayoutClasses are the box classes exported by the JSON format: the parts
// of a page a scanner or mark overlay cares about.
var LayoutClasses = []string{"timing-mark", "contest", "bubble", "write-in-line"}

// Render writes pages in one output format.
func (r *Runner) Render(ctx context.Context, pages []*render.Node, format string, opts *Options) ([]byte, error) {
	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = sink.RenderPDF(pages,
			sink.WithEngine(r.Engine),
			sink.WithLogger(opts.Logger),
			sink.WithCreationDate(opts.CreationDate))
	case FormatJSON:
		data, err = sink.RenderJSON(pages,
			sink.WithJSONEngine(r.Engine),
			sink.WithJSONClasses(LayoutClasses...),
			sink.WithJSONText())
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}
