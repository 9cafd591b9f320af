package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStylesComplete(ctx, "statutory", 4, time.Second, nil)
	p.OnPaginateStart(ctx, "1_en")
	p.OnPaginateComplete(ctx, "1_en", 2, time.Second, nil)
	p.OnRenderComplete(ctx, "pdf", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "styles")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/healthz")
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() default is not a no-op")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not a no-op")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() default is not a no-op")
	}

	hooks := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetHTTPHooks(hooks)
	if Pipeline() != PipelineHooks(hooks) || Cache() != CacheHooks(hooks) || HTTP() != HTTPHooks(hooks) {
		t.Error("registered hooks not returned")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore the no-op hooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(custom) {
		t.Error("SetPipelineHooks(nil) replaced the hooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(l)
	ctx := context.Background()

	h.OnPaginateComplete(ctx, "2_en", 4, time.Second, nil)
	h.OnCacheHit(ctx, "layout")

	out := buf.String()
	for _, want := range []string{"paginate done", "ballot_style=2_en", "pages=4", "cache hit", "kind=layout"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
