package queue

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type entry struct {
	mu    sync.Mutex
	queue *Queue
}

// Registry maps conversation ids to their queues, creating queues lazily on
// first reference. It also owns the per-conversation mutex that serializes
// queue access: different conversations proceed in parallel, operations on
// the same conversation run one at a time.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) getOrCreate(conversationID string) *entry {
	r.mu.RLock()
	e, found := r.entries[conversationID]
	r.mu.RUnlock()
	if found {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, found = r.entries[conversationID]; found {
		return e
	}

	e = &entry{queue: New(conversationID)}
	r.entries[conversationID] = e
	logrus.WithField("conversation_id", conversationID).Info("created conversation queue")
	return e
}

// GetOrCreate returns the queue for the id, constructing an empty one on
// first reference. The returned queue is not locked; prefer With for any
// access that may race with other callers of the same conversation.
func (r *Registry) GetOrCreate(conversationID string) *Queue {
	return r.getOrCreate(conversationID).queue
}

// With runs fn on the conversation's queue under its mutex.
func (r *Registry) With(conversationID string, fn func(*Queue) error) error {
	e := r.getOrCreate(conversationID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.queue)
}

// Remove drops the conversation's queue. It is a no-op for unknown ids and
// does not cascade to any persisted audio.
func (r *Registry) Remove(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.entries[conversationID]; found {
		delete(r.entries, conversationID)
		logrus.WithField("conversation_id", conversationID).Info("removed conversation queue")
	}
}

// Len reports the number of live conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
