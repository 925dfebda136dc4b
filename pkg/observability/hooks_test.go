package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnPack(5, 2, time.Millisecond)
	l.OnQuery(true, 5)
	l.OnEpochReset("invalidate")
	l.OnDiagnostic("capacity_clamp")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "snapshot")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "snapshot", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/sessions/{id}/frames")
	s.OnResponse(ctx, "GET", "/sessions/{id}/frames", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	// nil registration keeps the current hooks
	SetLayoutHooks(nil)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }

type testCacheHooks struct{ NoopCacheHooks }

type testServerHooks struct{ NoopServerHooks }
