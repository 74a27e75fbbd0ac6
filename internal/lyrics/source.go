package lyrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/llehouerou/chorus/internal/lrclib"
)

// Source values reported in FetchResult.
const (
	SourceCache    = "cache"
	SourceExact    = "exact"
	SourceSearch   = "search"
	SourceNotFound = "not_found"
)

// Cache stores lyrics lookups by track key.
type Cache interface {
	GetLyrics(key string) (*lrclib.LyricsResult, bool)
	PutLyrics(key string, result *lrclib.LyricsResult) error
}

// Source provides lyrics from a cache or the lrclib API.
type Source struct {
	client *lrclib.Client
	cache  Cache
}

// NewSource creates a lyrics source with an in-memory cache.
func NewSource(client *lrclib.Client) *Source {
	return NewCachedSource(client, NewMemoryCache())
}

// NewCachedSource creates a lyrics source backed by cache.
func NewCachedSource(client *lrclib.Client, cache Cache) *Source {
	return &Source{client: client, cache: cache}
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*lrclib.LyricsResult
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*lrclib.LyricsResult)}
}

// GetLyrics implements Cache.
func (c *MemoryCache) GetLyrics(key string) (*lrclib.LyricsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

// PutLyrics implements Cache.
func (c *MemoryCache) PutLyrics(key string, result *lrclib.LyricsResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

// TrackInfo contains the information needed to fetch lyrics.
type TrackInfo struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// FetchResult contains the result of a lyrics fetch.
// Result is nil when nothing was found; Err is informational only.
type FetchResult struct {
	Result *lrclib.LyricsResult
	Source string
	Err    error
}

// Lyrics parses the synced lyrics of the result, or returns nil.
func (r FetchResult) Lyrics() *Lyrics {
	if r.Result == nil || !r.Result.HasSyncedLyrics() {
		return nil
	}
	return ParseLRC(r.Result.SyncedLyrics)
}

// Fetch retrieves lyrics using the priority order:
// 1. Cached result
// 2. Exact lookup by artist, title, album and duration
// 3. Free-text search on "title artist", first result, only when the
//    exact lookup got a non-success reply
//
// Fetch never fails; any error yields a not-found result.
func (s *Source) Fetch(ctx context.Context, track TrackInfo) FetchResult {
	if track.Artist == "" && track.Title == "" {
		return FetchResult{Source: SourceNotFound}
	}

	key := CacheKey(track)
	if cached, ok := s.cache.GetLyrics(key); ok && cached != nil {
		return FetchResult{Result: cached, Source: SourceCache}
	}

	result, err := s.client.Get(ctx, lrclib.Query{
		Artist:   track.Artist,
		Title:    track.Title,
		Album:    track.Album,
		Duration: track.Duration,
	})
	if err == nil {
		s.store(ctx, key, result)
		return FetchResult{Result: result, Source: SourceExact}
	}
	logger.Debugf(ctx, "exact lyrics lookup for %q failed: %v", track.Title, err)
	if !lrclib.IsNonSuccess(err) {
		// Only a reply without lyrics falls back to search.
		return FetchResult{Source: SourceNotFound, Err: err}
	}

	results, err := s.client.Search(ctx, track.Title+" "+track.Artist)
	if err != nil {
		logger.Debugf(ctx, "lyrics search for %q failed: %v", track.Title, err)
		return FetchResult{Source: SourceNotFound, Err: err}
	}
	if len(results) == 0 {
		return FetchResult{Source: SourceNotFound, Err: lrclib.ErrNotFound}
	}

	first := results[0]
	s.store(ctx, key, &first)
	return FetchResult{Result: &first, Source: SourceSearch}
}

func (s *Source) store(ctx context.Context, key string, result *lrclib.LyricsResult) {
	if err := s.cache.PutLyrics(key, result); err != nil {
		logger.Warnf(ctx, "cache lyrics for %q: %v", key, err)
	}
}

// CacheKey identifies a track in a Cache.
func CacheKey(track TrackInfo) string {
	return strings.ToLower(strings.Join([]string{track.Artist, track.Title, track.Album}, "\x00"))
}
