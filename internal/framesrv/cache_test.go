package framesrv

import (
	"errors"
	"fmt"
	"testing"
)

func TestFrameCacheHitAndMiss(t *testing.T) {
	fc := NewFrameCache()
	calls := 0
	create := func() ([]byte, error) {
		calls++
		return []byte{byte(calls)}, nil
	}

	key := FrameKey{Version: 1, Query: "w=10"}
	if _, hit, _ := fc.GetOrCreate(key, create); hit {
		t.Error("Expected a miss on first lookup")
	}
	frame, hit, _ := fc.GetOrCreate(key, create)
	if !hit || calls != 1 || frame[0] != 1 {
		t.Errorf("Expected a cached hit, got hit=%v calls=%d frame=%v", hit, calls, frame)
	}

	// A scene edit bumps the version.
	if _, hit, _ := fc.GetOrCreate(FrameKey{Version: 2, Query: "w=10"}, create); hit {
		t.Error("Expected a miss for a newer scene version")
	}
}

func TestFrameCacheDoesNotStoreErrors(t *testing.T) {
	fc := NewFrameCache()
	boom := errors.New("boom")
	key := FrameKey{Query: "x"}
	if _, _, err := fc.GetOrCreate(key, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if fc.Len() != 0 {
		t.Errorf("Expected empty cache, got %d", fc.Len())
	}
}

func TestFrameCacheEviction(t *testing.T) {
	fc := NewFrameCache()
	for i := 0; i < frameCacheMaxSize+1; i++ {
		key := FrameKey{Query: fmt.Sprint(i)}
		fc.GetOrCreate(key, func() ([]byte, error) { return []byte{1}, nil })
	}
	if got := fc.Len(); got != frameCacheTargetSize+1 {
		t.Errorf("Expected %d frames after eviction, got %d", frameCacheTargetSize+1, got)
	}
	// The oldest frame went first.
	if _, hit, _ := fc.GetOrCreate(FrameKey{Query: "0"}, func() ([]byte, error) { return nil, nil }); hit {
		t.Error("Expected the oldest frame to be evicted")
	}
}
