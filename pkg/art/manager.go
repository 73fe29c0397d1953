package art

import (
	"container/list"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"
)

// Manager downloads covers and caches the rendered escape strings. Rendered
// strings are keyed by URL plus target size, so a terminal resize naturally
// re-renders while the LRU keeps recent covers instant.
type Manager struct {
	proto Protocol
	httpc *http.Client

	mu      sync.Mutex
	normalW int
	normalH int
	idleW   int
	idleH   int
	cache   *lruCache
}

// NewManager returns a manager using the given protocol override ("auto"
// detects) and caching rendered covers up to maxCacheMB megabytes.
func NewManager(protocolOverride string, maxCacheMB int) *Manager {
	if maxCacheMB <= 0 {
		maxCacheMB = 50
	}
	return &Manager{
		proto:   SelectProtocol(protocolOverride),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		normalW: 24,
		normalH: 12,
		idleW:   80,
		idleH:   24,
		cache:   newLRU(maxCacheMB << 20),
	}
}

// Protocol reports the active graphics protocol.
func (m *Manager) Protocol() Protocol { return m.proto }

// Enabled reports whether covers can be drawn at all.
func (m *Manager) Enabled() bool { return m.proto != ProtocolNone }

// SetViewport tells the manager the terminal size in cells. The normal
// cover takes roughly a quarter of the width; the idle cover fills the
// screen minus a margin.
func (m *Manager) SetViewport(widthCells, heightCells int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if widthCells <= 0 || heightCells <= 0 {
		return
	}
	m.normalW = max(widthCells/4, 10)
	m.normalH = max(heightCells/3, 6)
	m.idleW = max(widthCells-4, 10)
	m.idleH = max(heightCells-4, 6)
}

// Render downloads (or reuses) the cover at url and returns it as an escape
// string sized for the normal layout, or for the full-screen idle view when
// highRes is set.
func (m *Manager) Render(ctx context.Context, url string, highRes bool) (string, error) {
	if m.proto == ProtocolNone {
		return "", fmt.Errorf("art: rendering disabled")
	}

	m.mu.Lock()
	w, h := m.normalW, m.normalH
	if highRes {
		w, h = m.idleW, m.idleH
	}
	key := fmt.Sprintf("%s|%s|%dx%d", url, m.proto, w, h)
	if cached, ok := m.cache.get(key); ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	img, err := m.download(ctx, url)
	if err != nil {
		return "", err
	}

	resized := resizeToFit(img, w, h)
	rendered, err := render(resized, m.proto, w, h)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.cache.put(key, rendered)
	m.mu.Unlock()
	return rendered, nil
}

func (m *Manager) download(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("art: build request: %w", err)
	}
	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("art: download cover: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("art: download cover: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("art: decode cover: %w", err)
	}
	return img, nil
}

// lruCache is a byte-budgeted string LRU for rendered covers. Size is
// counted as len(key)+len(value); eviction drops the least recently used
// entries until the cache fits the budget again. A single entry larger than
// the whole budget is still kept, so a huge idle render never thrashes.
type lruCache struct {
	maxBytes int
	bytes    int
	order    *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key   string
	value string
}

func newLRU(maxBytes int) *lruCache {
	return &lruCache{
		maxBytes: maxBytes,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (e *lruEntry) size() int { return len(e.key) + len(e.value) }

func (c *lruCache) get(key string) (string, bool) {
	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lruCache) put(key, value string) {
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*lruEntry)
		c.bytes += len(value) - len(ent.value)
		ent.value = value
		c.order.MoveToFront(el)
	} else {
		ent := &lruEntry{key: key, value: value}
		c.items[key] = c.order.PushFront(ent)
		c.bytes += ent.size()
	}
	for c.bytes > c.maxBytes && c.order.Len() > 1 {
		oldest := c.order.Back()
		ent := oldest.Value.(*lruEntry)
		c.order.Remove(oldest)
		delete(c.items, ent.key)
		c.bytes -= ent.size()
	}
}
