package paginate

import (
	"context"
	"io"
	"reflect"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/render"
)

const (
	// SlotSelector selects the empty region of a page frame that content
	// fills.
	SlotSelector = "#content-slot"

	// TotalPagesClass marks text nodes that receive the final page count.
	TotalPagesClass = "total-pages"
)

// Dimensions is the size of a content slot in pixels.
type Dimensions struct {
	Width  float64
	Height float64
}

// Page is the content generated for one page. Next holds the props for the
// following page, or nil when all content has been placed.
type Page[P any] struct {
	Content *render.Node
	Next    *P
}

// Spec describes how to build the pages of one document. P carries what is
// left to place; the first page starts from Initial.
type Spec[P any] struct {
	Initial P

	// Frame returns the page skeleton with an empty node matching
	// SlotSelector. Pages are numbered from 1.
	Frame func(props P, page int) (*render.Node, error)

	// Content fills a slot of the given size.
	Content func(ctx context.Context, props P, slot Dimensions, page int) (Page[P], error)

	// Blank returns the page appended to make the count even. When nil, an
	// empty frame is used.
	Blank func(page int) (*render.Node, error)

	// Equal reports whether two props values are the same. It defaults to
	// reflect.DeepEqual.
	Equal func(a, b P) bool

	Logger *log.Logger
}

// Paginate renders pages until the content generator reports no more
// content. The result always has an even number of pages. Every node with
// the TotalPagesClass class gets the page count as its text.
//
// Pages are produced strictly in order: each content pass depends on the
// slot measured for its own frame. A generator that returns the props it
// was given has made no progress, which fails with LAYOUT_IMPOSSIBLE.
func Paginate[P any](ctx context.Context, oracle render.Oracle, spec Spec[P]) ([]*render.Node, error) {
	logger := spec.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	equal := spec.Equal
	if equal == nil {
		equal = func(a, b P) bool { return reflect.DeepEqual(a, b) }
	}

	var pages []*render.Node
	props := spec.Initial
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := spec.Frame(props, page)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render frame").With("page", page)
		}
		slot, err := render.MeasureOne(ctx, oracle, frame, SlotSelector)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure content slot").With("page", page)
		}
		logger.Debug("measured content slot", "page", page, "width", slot.Width, "height", slot.Height)

		res, err := spec.Content(ctx, props, Dimensions{Width: slot.Width, Height: slot.Height}, page)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.With("page", page)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate content").With("page", page)
		}
		if res.Content != nil {
			if slotNode := render.Find(frame, SlotSelector); slotNode != nil {
				slotNode.Append(res.Content)
			}
		}
		pages = append(pages, frame)

		if res.Next == nil {
			break
		}
		if equal(props, *res.Next) {
			return nil, errors.New(errors.ErrCodeLayoutImpossible,
				"content too large to fit on a page").With("page", page)
		}
		props = *res.Next
	}

	if len(pages)%2 == 1 {
		blank, err := blankPage(spec, props, len(pages)+1)
		if err != nil {
			return nil, err
		}
		pages = append(pages, blank)
	}

	total := strconv.Itoa(len(pages))
	for _, p := range pages {
		p.Walk(func(n *render.Node) bool {
			if n.HasClass(TotalPagesClass) {
				n.Text = total
			}
			return true
		})
	}
	logger.Debug("paginated", "pages", len(pages))
	return pages, nil
}

func blankPage[P any](spec Spec[P], props P, page int) (*render.Node, error) {
	if spec.Blank != nil {
		blank, err := spec.Blank(page)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render blank page").With("page", page)
		}
		return blank, nil
	}
	frame, err := spec.Frame(props, page)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render frame").With("page", page)
	}
	return frame, nil
}
