package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnGlyphStart(ctx, "standard", 2)
	p.OnGlyphComplete(ctx, "standard", 2, time.Millisecond, nil)
	p.OnGenerateStart(ctx, "down", 2)
	p.OnGenerateComplete(ctx, "down", 40, time.Millisecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "grid")
	c.OnCacheMiss(ctx, "program")
	c.OnCacheSet(ctx, "program", 1024)

	pb := NoopPlaybackHooks{}
	pb.OnRender(0, 3)
	pb.OnDelay("delay", time.Second)
	pb.OnStop(1)
	pb.OnFault(4, 0)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/frames")
	h.OnResponse(ctx, "POST", "/v1/frames", 200, time.Second)
	h.OnError(ctx, "GET", "/v1/play", errors.New("closed"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Playback() should return NoopPlaybackHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customPlayback := &testPlaybackHooks{}
	SetPlaybackHooks(customPlayback)
	if Playback() != customPlayback {
		t.Error("SetPlaybackHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Reset() should restore NoopPlaybackHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testPlaybackHooks struct{ NoopPlaybackHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
