package domain

import "sync"

// Session — серверное состояние посетителя: корзина и последний заказ.
// Cart и LastOrder читаются и меняются только под Lock.
type Session struct {
	ID string

	mu        sync.Mutex
	Cart      Cart
	LastOrder *Order
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }
