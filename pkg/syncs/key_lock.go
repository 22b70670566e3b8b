package syncs

import "sync"

// KeyLocker provides per-key mutual exclusion.
// See [KeyLock] for an implementation.
type KeyLocker interface {
	Lock(key string)
	Unlock(key string)
}

// KeyLock is a per-key lock that allows independent keys to be locked
// concurrently while serializing access to the same key. Each key is backed
// by a [Lock], so contenders on one key are served in FIFO order. Create
// instances with [NewKeyLock], or use the zero value directly.
type KeyLock struct {
	locks map[string]*Lock
	mu    sync.Mutex
}

// NewKeyLock creates a new [KeyLock].
func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*Lock),
	}
}

func (kl *KeyLock) getLock(key string) *Lock {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if kl.locks == nil {
		kl.locks = make(map[string]*Lock)
	}

	l, ok := kl.locks[key]
	if !ok {
		l = NewLock()
		kl.locks[key] = l
	}

	return l
}

// Lock acquires the lock for the given key, blocking if it is already held.
func (kl *KeyLock) Lock(key string) {
	kl.getLock(key).Acquire()
}

// Unlock releases the lock for the given key. Unlocking a key that is not
// held is a no-op.
func (kl *KeyLock) Unlock(key string) {
	kl.getLock(key).Release()
}
