package util

import (
	"container/list"
	"fmt"
	"sync"
)

// LRU cache for (role, actorID) -> display name. Session middleware resolves
// the acting identity on every request; the cache keeps that off the DB.
type nameEntry struct {
	key  string
	name string
}

type nameLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

var nameCache *nameLRU

func actorKey(role string, actorID uint) string {
	return fmt.Sprintf("%s:%d", role, actorID)
}

// InitActorNameCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitActorNameCache(capacity int) {
	if capacity <= 0 {
		capacity = 1000
	}
	nameCache = &nameLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

// ActorNameCacheGet returns the display name and true if present in cache.
func ActorNameCacheGet(role string, actorID uint) (string, bool) {
	if nameCache == nil {
		return "", false
	}
	nameCache.mu.Lock()
	defer nameCache.mu.Unlock()
	if ele, ok := nameCache.cache[actorKey(role, actorID)]; ok {
		nameCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(nameEntry); ok {
			return e.name, true
		}
	}
	return "", false
}

// ActorNameCacheSet stores the display name, evicting the least recently used
// entry when over capacity.
func ActorNameCacheSet(role string, actorID uint, name string) {
	if nameCache == nil {
		return
	}
	nameCache.mu.Lock()
	defer nameCache.mu.Unlock()

	key := actorKey(role, actorID)
	if ele, ok := nameCache.cache[key]; ok {
		nameCache.ll.MoveToFront(ele)
		ele.Value = nameEntry{key: key, name: name}
		return
	}

	ele := nameCache.ll.PushFront(nameEntry{key: key, name: name})
	nameCache.cache[key] = ele

	if nameCache.ll.Len() > nameCache.capacity {
		oldest := nameCache.ll.Back()
		if oldest != nil {
			nameCache.ll.Remove(oldest)
			if e, ok := oldest.Value.(nameEntry); ok {
				delete(nameCache.cache, e.key)
			}
		}
	}
}

// ActorNameCacheDelete drops a cached name, e.g. after a profile update.
func ActorNameCacheDelete(role string, actorID uint) {
	if nameCache == nil {
		return
	}
	nameCache.mu.Lock()
	defer nameCache.mu.Unlock()
	key := actorKey(role, actorID)
	if ele, ok := nameCache.cache[key]; ok {
		nameCache.ll.Remove(ele)
		delete(nameCache.cache, key)
	}
}
