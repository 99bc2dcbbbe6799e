package app

import "sync"

// keyedMutex gives single-writer semantics per cart owner. Entries are never
// evicted; the key space is bounded by the active user base.
type keyedMutex struct {
	mus sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
