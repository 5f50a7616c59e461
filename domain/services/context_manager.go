package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"contextgraph/domain/config"
	"contextgraph/domain/core/aggregates"
)

// Recognized context keys. Any other key is preserved opaquely.
const (
	ContextKeyTask              = "task"
	ContextKeyFocusEntities     = "focus_entities"
	ContextKeyKeywords          = "keywords"
	ContextKeyEntityTypes       = "entity_types"
	ContextKeyRelationshipTypes = "relationship_types"
)

// Context is the active set of task/focus/keyword/type signals used to
// score relevance. Recognized keys are read through the typed accessors;
// everything else is carried along untouched.
type Context map[string]interface{}

// Clone returns a shallow copy of the context. Focus and keyword slices are
// copied so later mutation cannot leak into archived history entries.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	clone := make(Context, len(c))
	for k, v := range c {
		if list, ok := v.([]string); ok {
			copied := make([]string, len(list))
			copy(copied, list)
			clone[k] = copied
			continue
		}
		clone[k] = v
	}
	return clone
}

// Task returns the task description, if any
func (c Context) Task() string {
	s, _ := c[ContextKeyTask].(string)
	return s
}

// FocusEntities returns the ordered focus entity IDs
func (c Context) FocusEntities() []string {
	return stringList(c[ContextKeyFocusEntities])
}

// Keywords returns the context keywords
func (c Context) Keywords() []string {
	return stringList(c[ContextKeyKeywords])
}

// EntityTypes returns the entity type filter
func (c Context) EntityTypes() []string {
	return stringList(c[ContextKeyEntityTypes])
}

// RelationshipTypes returns the relationship type filter
func (c Context) RelationshipTypes() []string {
	return stringList(c[ContextKeyRelationshipTypes])
}

// stringList tolerates both []string and JSON-decoded []interface{} values
func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		result := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

// HistoryEntry is an archived context with its activity bounds. Entries are
// append-only and never mutated after creation.
type HistoryEntry struct {
	Context   Context
	StartTime time.Time
	EndTime   time.Time
}

// EntityScore pairs an entity ID with its relevance score
type EntityScore struct {
	EntityID string  `json:"entityId"`
	Score    float64 `json:"score"`
}

// cacheEntry is valid only while its version matches the cache version
type cacheEntry struct {
	version uint64
	score   float64
}

// relevanceCache memoizes entity scores keyed by (context version, entity).
// Whole-context mutations bump the version instead of clearing the map, so
// a stale entry can never be read. Focus add/remove evicts the single entry.
type relevanceCache struct {
	version uint64
	entries map[string]cacheEntry
	hits    uint64
	misses  uint64
}

func (rc *relevanceCache) get(entityID string) (float64, bool) {
	entry, ok := rc.entries[entityID]
	if ok && entry.version == rc.version {
		rc.hits++
		return entry.score, true
	}
	rc.misses++
	return 0, false
}

func (rc *relevanceCache) put(entityID string, score float64) {
	rc.entries[entityID] = cacheEntry{version: rc.version, score: score}
}

func (rc *relevanceCache) invalidateAll() {
	rc.version++
}

func (rc *relevanceCache) evict(entityID string) {
	delete(rc.entries, entityID)
}

// CacheStats is a snapshot of relevance cache counters
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Version uint64
}

// ContextManager tracks the current context and provides context-aware
// retrieval over a graph it does not own. The graph reference is read-only
// here; all mutable state (context, history, cache) lives in the manager
// behind a single mutex so a context mutation and its cache invalidation
// form one critical section.
type ContextManager struct {
	mu sync.RWMutex

	graph    *aggregates.Graph
	cfg      *config.ScoringConfig
	analyzer TextAnalyzer
	logger   *zap.Logger

	current    Context
	history    []HistoryEntry
	lastChange time.Time
	cache      relevanceCache
}

// NewContextManager creates a manager over the given graph
func NewContextManager(graph *aggregates.Graph, cfg *config.ScoringConfig, analyzer TextAnalyzer, logger *zap.Logger) *ContextManager {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ContextManager{
		graph:      graph,
		cfg:        cfg,
		analyzer:   analyzer,
		logger:     logger,
		lastChange: time.Now(),
		cache:      relevanceCache{entries: make(map[string]cacheEntry)},
	}
}

// Graph returns the graph this manager scores against
func (m *ContextManager) Graph() *aggregates.Graph {
	return m.graph
}

// SetScoringConfig swaps the scoring constants at runtime and invalidates
// cached scores computed under the old constants
func (m *ContextManager) SetScoringConfig(cfg *config.ScoringConfig) {
	if cfg == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	m.cache.invalidateAll()
	m.logger.Info("scoring configuration updated")
}

// SetContext replaces the current context. The previous context, if one was
// active, is archived with its activity bounds. The relevance cache is
// invalidated as a whole.
func (m *ContextManager) SetContext(data Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setContextLocked(data)
}

func (m *ContextManager) setContextLocked(data Context) {
	now := time.Now()

	if len(m.current) > 0 {
		m.history = append(m.history, HistoryEntry{
			Context:   m.current.Clone(),
			StartTime: m.lastChange,
			EndTime:   now,
		})
	}

	m.current = data.Clone()
	m.lastChange = now
	m.cache.invalidateAll()

	m.logger.Debug("context replaced",
		zap.Int("historyLen", len(m.history)),
		zap.Int("focusEntities", len(m.current.FocusEntities())),
	)
}

// UpdateContext merges updates into the current context without archiving it
func (m *ContextManager) UpdateContext(updates Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		m.current = make(Context, len(updates))
	}
	for k, v := range updates.Clone() {
		m.current[k] = v
	}
	m.lastChange = time.Now()
	m.cache.invalidateAll()
}

// AddFocusEntity marks an entity as a current focus. Returns false if the
// entity does not exist in the graph. Adding an entity already in focus is
// a no-op that still returns true. Only that entity's cached score is
// evicted; other entities keep their entries even though their structural
// proximity may have shifted, mirroring the cheap partial invalidation the
// scorer is designed around.
func (m *ContextManager) AddFocusEntity(entityID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.graph.HasEntity(entityID) {
		return false
	}

	if m.current == nil {
		m.current = make(Context)
	}

	focus := m.current.FocusEntities()
	for _, id := range focus {
		if id == entityID {
			return true
		}
	}

	m.current[ContextKeyFocusEntities] = append(focus, entityID)
	m.cache.evict(entityID)
	return true
}

// RemoveFocusEntity removes an entity from focus. Returns false if no focus
// list exists or the entity is not in it.
func (m *ContextManager) RemoveFocusEntity(entityID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false
	}
	if _, exists := m.current[ContextKeyFocusEntities]; !exists {
		return false
	}
	focus := m.current.FocusEntities()

	for i, id := range focus {
		if id == entityID {
			m.current[ContextKeyFocusEntities] = append(focus[:i:i], focus[i+1:]...)
			m.cache.evict(entityID)
			return true
		}
	}
	return false
}

// CurrentContext returns a copy of the active context
func (m *ContextManager) CurrentContext() Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// History returns a copy of the archived context entries
func (m *ContextManager) History() []HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]HistoryEntry, len(m.history))
	copy(history, m.history)
	return history
}

// LastChange returns the activation time of the current context
func (m *ContextManager) LastChange() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastChange
}

// Stats returns relevance cache counters
func (m *ContextManager) Stats() CacheStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CacheStats{
		Hits:    m.cache.hits,
		Misses:  m.cache.misses,
		Version: m.cache.version,
	}
}

// contextActive reports whether a context is currently set. An empty
// context counts as inactive. Caller holds the lock.
func (m *ContextManager) contextActive() bool {
	return len(m.current) > 0
}
