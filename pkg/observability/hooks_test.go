package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopConvertHooks{}
	c.OnConvertStart(ctx, "wordnet.toml", "n02084071")
	c.OnConvertComplete(ctx, "wordnet.toml", "n02084071", 42, time.Second, nil)

	l := NoopLookupHooks{}
	l.OnLookup(ctx, "n02084071", time.Millisecond)
	l.OnLookupMiss(ctx, "n00000000")

	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "tree")
	k.OnCacheMiss(ctx, "concept")
	k.OnCacheSet(ctx, "tree", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/trees/n1")
	h.OnResponse(ctx, "GET", "/v1/trees/n1", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Convert() should return NoopConvertHooks by default")
	}
	if _, ok := Lookup().(NoopLookupHooks); !ok {
		t.Error("Lookup() should return NoopLookupHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customConvert := &testConvertHooks{}
	SetConvertHooks(customConvert)
	if Convert() != customConvert {
		t.Error("SetConvertHooks should set custom hooks")
	}

	customLookup := &testLookupHooks{}
	SetLookupHooks(customLookup)
	if Lookup() != customLookup {
		t.Error("SetLookupHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Reset() should restore NoopConvertHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testConvertHooks{}
	SetConvertHooks(custom)
	SetConvertHooks(nil)

	if Convert() != custom {
		t.Error("SetConvertHooks(nil) should be ignored")
	}

	Reset()
}

type testConvertHooks struct{ NoopConvertHooks }
type testLookupHooks struct{ NoopLookupHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
