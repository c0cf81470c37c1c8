package memory

import (
	"fmt"
	"sync"
)

// keyLocks serializes work per key while letting different keys proceed concurrently. Entries
// are reference counted and dropped once nobody holds or waits on them.
type keyLocks struct {
	ml sync.Mutex
	ma map[string]*keyEntry
}

type keyEntry struct {
	l   *keyLocks
	el  sync.Mutex
	cnt int
	key string
}

func newKeyLocks() *keyLocks {
	return &keyLocks{ma: make(map[string]*keyEntry)}
}

// Lock blocks until the key is free. The returned func releases it.
func (l *keyLocks) Lock(key string) func() {
	l.ml.Lock()
	e, ok := l.ma[key]
	if !ok {
		e = &keyEntry{l: l, key: key}
		l.ma[key] = e
	}
	e.cnt++
	l.ml.Unlock()

	e.el.Lock()

	return e.unlock
}

// held reports whether the key is currently locked or waited on
func (l *keyLocks) held(key string) bool {
	l.ml.Lock()
	_, ok := l.ma[key]
	l.ml.Unlock()
	return ok
}

func (e *keyEntry) unlock() {
	l := e.l

	l.ml.Lock()
	cur, ok := l.ma[e.key]
	if !ok || cur != e {
		l.ml.Unlock()
		panic(fmt.Errorf("unlock of key %q which is not locked", e.key))
	}
	e.cnt--
	if e.cnt < 1 {
		delete(l.ma, e.key)
	}
	l.ml.Unlock()

	e.el.Unlock()
}
