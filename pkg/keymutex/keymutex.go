package keymutex

import "sync"

// KeyedMutex provides mutual exclusion scoped to string keys. Operations on
// different keys never block each other; operations on the same key are
// serialized. It is used to make a store read-modify-write logically atomic
// per wishlist owner.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*entry),
	}
}

// Lock acquires the mutex for the given key, blocking until it is available.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given key. The per-key entry is removed
// once no goroutine holds or waits on it, so the registry does not grow with
// the key space.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// LockPair acquires the mutexes for two keys in lexicographic order, so that
// concurrent pair acquisitions (and single-key acquisitions) cannot deadlock.
// If both keys are equal a single lock is taken. The returned function
// releases whatever was acquired.
func (k *KeyedMutex) LockPair(a, b string) (unlock func()) {
	if a == b {
		k.Lock(a)
		return func() { k.Unlock(a) }
	}

	first, second := a, b
	if second < first {
		first, second = second, first
	}

	k.Lock(first)
	k.Lock(second)
	return func() {
		k.Unlock(second)
		k.Unlock(first)
	}
}
