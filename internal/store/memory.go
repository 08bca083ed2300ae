package store

import (
	"context"
	"strings"
	"sync"
)

// WriteOp queda registrada por cada escritura que recibe el MemoryStore.
type WriteOp struct {
	Path   string
	Fields map[string]interface{}
}

// MemoryStore es un RecordStore en memoria. Sirve como backend de
// desarrollo local y como fake inyectable para los tests del workflow:
// registra cada escritura y permite forzar fallas por prefijo de path.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]interface{} // colección -> doc -> campos
	order    map[string][]string                          // orden de inserción por colección
	subs     map[int]*memorySub
	nextSub  int
	writes   []WriteOp
	failures map[string]error
}

type memorySub struct {
	path       string
	collection string
	ch         chan []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     map[string]map[string]map[string]interface{}{},
		order:    map[string][]string{},
		subs:     map[int]*memorySub{},
		failures: map[string]error{},
	}
}

// FailWith hace fallar toda escritura cuyo path empiece con prefix.
func (s *MemoryStore) FailWith(prefix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[prefix] = err
}

func (s *MemoryStore) Writes() []WriteOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WriteOp, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *MemoryStore) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

func (s *MemoryStore) Get(ctx context.Context, path string) (map[string]interface{}, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	if p.DocID == "" {
		return nil, ErrInvalidPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[p.Collection][p.DocID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.FieldPath == "" {
		return copyMap(doc), nil
	}
	nested, ok := navigate(doc, p.FieldPath)
	if !ok {
		return nil, ErrNotFound
	}
	m, err := asMap(nested)
	if err != nil {
		return nil, err
	}
	return copyMap(m), nil
}

func (s *MemoryStore) List(ctx context.Context, path string) ([]Entry, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(p)
}

func (s *MemoryStore) listLocked(p recordPath) ([]Entry, error) {
	if p.DocID == "" {
		var out []Entry
		for _, id := range s.order[p.Collection] {
			out = append(out, Entry{Key: id, Data: copyMap(s.docs[p.Collection][id])})
		}
		return out, nil
	}

	doc, ok := s.docs[p.Collection][p.DocID]
	if !ok {
		return nil, nil
	}
	branch, ok := navigate(doc, p.FieldPath)
	if !ok {
		return nil, nil
	}
	m, err := asMap(branch)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(m))
	for k, child := range m {
		data, err := asMap(child)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: k, Data: copyMap(data)})
	}
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	fields, err := Encode(value)
	if err != nil {
		return err
	}
	return s.write(path, fields, true)
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	return s.write(path, fields, false)
}

func (s *MemoryStore) write(path string, fields map[string]interface{}, replace bool) error {
	p, err := parsePath(path)
	if err != nil {
		return err
	}
	if p.DocID == "" {
		return ErrInvalidPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for prefix, ferr := range s.failures {
		if strings.HasPrefix(path, prefix) {
			return ferr
		}
	}

	s.writes = append(s.writes, WriteOp{Path: path, Fields: copyMap(fields)})

	if s.docs[p.Collection] == nil {
		s.docs[p.Collection] = map[string]map[string]interface{}{}
	}
	doc, ok := s.docs[p.Collection][p.DocID]
	if !ok {
		doc = map[string]interface{}{}
		s.docs[p.Collection][p.DocID] = doc
		s.order[p.Collection] = append(s.order[p.Collection], p.DocID)
	}

	target := doc
	if p.FieldPath != "" {
		for _, seg := range splitDots(p.FieldPath) {
			next, ok := target[seg].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				target[seg] = next
			}
			target = next
		}
	}
	if replace {
		for k := range target {
			delete(target, k)
		}
	}
	for k, v := range fields {
		target[k] = v
	}

	s.notifyLocked(p.Collection)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, path string) (<-chan []Entry, func(), error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	sub := &memorySub{path: path, collection: p.Collection, ch: make(chan []Entry, 1)}
	s.subs[id] = sub
	snap, _ := s.listLocked(p)
	sub.ch <- snap
	s.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, release, nil
}

func (s *MemoryStore) notifyLocked(collection string) {
	for _, sub := range s.subs {
		if sub.collection != collection {
			continue
		}
		p, _ := parsePath(sub.path)
		snap, err := s.listLocked(p)
		if err != nil {
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snap
		}
	}
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]interface{}); ok {
			out[k] = copyMap(child)
			continue
		}
		out[k] = v
	}
	return out
}
