// Package todo is the single-user, in-memory task manager behind the
// interactive menu. Nothing is persisted.
package todo

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

var ErrTitleRequired = errors.New("Task title is required")

type Item struct {
	ID          int
	Title       string
	Description string
	Completed   bool
}

type Service struct {
	mu     sync.Mutex
	items  map[int]*Item
	order  []int
	nextID int
}

func NewService() *Service {
	return &Service{items: make(map[int]*Item), nextID: 1}
}

// Add stores a new item. Ids start at 1 and are never reused.
func (s *Service) Add(title, description string) (Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Item{}, ErrTitleRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it := &Item{ID: s.nextID, Title: title, Description: description}
	s.items[it.ID] = it
	s.order = append(s.order, it.ID)
	s.nextID++
	return *it, nil
}

// List returns every item in insertion order.
func (s *Service) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

func (s *Service) Get(id int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Update replaces the non-nil fields.
func (s *Service) Update(id int, title, description *string) (Item, bool) {
	return s.modify(id, func(it *Item) {
		if title != nil {
			it.Title = *title
		}
		if description != nil {
			it.Description = *description
		}
	})
}

func (s *Service) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	return true
}

func (s *Service) MarkComplete(id int) (Item, bool) {
	return s.modify(id, func(it *Item) { it.Completed = true })
}

func (s *Service) MarkIncomplete(id int) (Item, bool) {
	return s.modify(id, func(it *Item) { it.Completed = false })
}

func (s *Service) modify(id int, fn func(*Item)) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	fn(it)
	return *it, true
}
