package memory

import "sync"

// SessionRepo is an in-memory registry of live practice sessions.
type SessionRepo[T any] struct {
	m sync.Map
}

func NewSessionRepo[T any]() *SessionRepo[T] {
	return &SessionRepo[T]{}
}

func (r *SessionRepo[T]) Save(id string, s T) {
	r.m.Store(id, s)
}

func (r *SessionRepo[T]) Get(id string) (T, bool) {
	v, ok := r.m.Load(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (r *SessionRepo[T]) Delete(id string) {
	r.m.Delete(id)
}
