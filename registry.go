package threadpool

// Keyed thread registry.
//
// The id map in ThreadPool owns the workers; the key index here is a
// non-owning lookup layered on top of it. Whenever an id entry is
// removed, its key entry is removed with it. The two maps are never
// locked together.

// NewThreadFor grows the pool by one worker and records it under the
// caller-supplied key. A previous worker registered under the same
// key loses its key but stays in the pool as an anonymous worker.
// It returns nil on a destroyed pool.
func (p *ThreadPool) NewThreadFor(key string) *WorkerThread {
	w := p.NewThread()
	if w == nil {
		return nil
	}

	p.keysMu.Lock()
	p.keys[key] = w.id
	p.keysMu.Unlock()
	return w
}

// ThreadFor returns the worker registered under key, or false if the
// key is unknown.
func (p *ThreadPool) ThreadFor(key string) (*WorkerThread, bool) {
	p.keysMu.Lock()
	id, ok := p.keys[key]
	p.keysMu.Unlock()
	if !ok {
		return nil, false
	}

	p.threadsMu.Lock()
	w, ok := p.threads[id]
	p.threadsMu.Unlock()
	return w, ok
}

// DestroyThread requests the exit of the worker registered under key
// and removes both the key entry and the worker map entry. Unknown
// keys are a no-op, not a fault.
func (p *ThreadPool) DestroyThread(key string) {
	p.keysMu.Lock()
	id, ok := p.keys[key]
	if ok {
		delete(p.keys, key)
	}
	p.keysMu.Unlock()
	if !ok {
		return
	}

	p.threadsMu.Lock()
	w, ok := p.threads[id]
	if ok {
		delete(p.threads, id)
	}
	p.threadsMu.Unlock()

	if ok {
		w.Exit()
	}
}
