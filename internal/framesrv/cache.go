package framesrv

import (
	"sync"
)

// Cache size limits. Eviction trims to the target before the map reaches
// the maximum so one insert never drops the whole cache.
const (
	frameCacheMaxSize    = 64
	frameCacheTargetSize = 48
)

// FrameKey identifies an encoded snapshot. Version changes whenever the
// scene is edited, so stale frames are never served.
type FrameKey struct {
	Version uint64
	Query   string // canonical url.Values encoding
}

// FrameCache holds encoded PNG snapshots. It is safe for concurrent use.
type FrameCache struct {
	cache      map[FrameKey][]byte
	mutex      sync.RWMutex
	cacheOrder []FrameKey // insertion order for eviction
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{
		cache:      make(map[FrameKey][]byte, frameCacheMaxSize),
		cacheOrder: make([]FrameKey, 0, frameCacheMaxSize),
	}
}

// GetOrCreate returns the cached frame for key or builds it with create.
// hit reports whether the frame came from the cache. Failed builds are not
// cached.
func (fc *FrameCache) GetOrCreate(key FrameKey, create func() ([]byte, error)) (frame []byte, hit bool, err error) {
	fc.mutex.RLock()
	if cached, ok := fc.cache[key]; ok {
		fc.mutex.RUnlock()
		return cached, true, nil
	}
	fc.mutex.RUnlock()

	frame, err = create()
	if err != nil {
		return nil, false, err
	}

	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	// Another request may have rendered the same frame meanwhile.
	if cached, ok := fc.cache[key]; ok {
		return cached, false, nil
	}

	if len(fc.cache) >= frameCacheMaxSize {
		evict := len(fc.cacheOrder) - frameCacheTargetSize
		for i := 0; i < evict; i++ {
			delete(fc.cache, fc.cacheOrder[i])
		}
		if evict > 0 {
			fc.cacheOrder = fc.cacheOrder[evict:]
		}
	}

	fc.cache[key] = frame
	fc.cacheOrder = append(fc.cacheOrder, key)
	return frame, false, nil
}

// Len returns the number of cached frames.
func (fc *FrameCache) Len() int {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return len(fc.cache)
}
