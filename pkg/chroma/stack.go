package chroma

import (
	"time"

	"github.com/repeale/fp-go"
	opt "github.com/repeale/fp-go/option"
	"github.com/sasha-s/go-deadlock"
)

// Stack holds the active effects ordered by priority. Higher priority
// composes later and therefore wins contested keys; effects of equal
// priority keep their insertion order.
type Stack struct {
	effects []*Effect
	dirty   bool
	mutex   deadlock.Mutex
}

func NewStack() *Stack {
	return &Stack{}
}

// Add inserts the effect at the end of its priority class, replacing
// any existing effect with the same id.
func (s *Stack) Add(effect *Effect) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if effect.ID != "" {
		s.effects = fp.Filter(func(e *Effect) bool { return e.ID != effect.ID })(s.effects)
	}

	at := len(s.effects)
	for i, e := range s.effects {
		if e.Priority > effect.Priority {
			at = i
			break
		}
	}

	s.effects = append(s.effects, nil)
	copy(s.effects[at+1:], s.effects[at:])
	s.effects[at] = effect
	s.dirty = true
}

func (s *Stack) Find(id string) opt.Option[*Effect] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range s.effects {
		if e.ID == id {
			return opt.Some(e)
		}
	}
	return opt.None[*Effect]()
}

func (s *Stack) Remove(id string) {
	s.RemoveAll(id)
}

func (s *Stack) RemoveAll(ids ...string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	before := len(s.effects)
	for _, id := range ids {
		id := id
		s.effects = fp.Filter(func(e *Effect) bool { return e.ID != id })(s.effects)
	}
	if len(s.effects) != before {
		s.dirty = true
	}
}

// Mutate runs fn on the effect with the given id, if present, and
// marks the stack for re-rendering. Returns whether the effect was
// found.
func (s *Stack) Mutate(id string, fn func(*Effect)) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range s.effects {
		if e.ID == id {
			fn(e)
			s.dirty = true
			return true
		}
	}
	return false
}

func (s *Stack) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.effects)
}

// Step advances every effect's animation, drops expired effects and
// composes the survivors into a frame. changed reports whether the
// frame differs from the previous call; empty reports whether no
// effects remain.
func (s *Stack) Step(now time.Time) (frame Matrix, changed bool, empty bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	changed = s.dirty
	s.dirty = false

	kept := s.effects[:0]
	for _, e := range s.effects {
		stepped, expired := e.step(now)
		if expired {
			changed = true
			continue
		}
		if stepped {
			changed = true
		}
		kept = append(kept, e)
	}
	s.effects = kept

	empty = len(s.effects) == 0
	if !changed || empty {
		return frame, changed, empty
	}

	for _, e := range s.effects {
		switch e.Method {
		case MethodAdd:
			for row := range frame {
				for col := range frame[row] {
					frame[row][col] = frame[row][col].Add(e.Colors[row][col])
				}
			}
		case MethodFill:
			frame = e.Colors
		case MethodFillEmpty:
			for row := range frame {
				for col := range frame[row] {
					if frame[row][col].IsBlack() {
						frame[row][col] = e.Colors[row][col]
					}
				}
			}
		case MethodFillNoZero:
			for row := range frame {
				for col := range frame[row] {
					if !e.Colors[row][col].IsBlack() {
						frame[row][col] = e.Colors[row][col]
					}
				}
			}
		case MethodMultiply:
			for row := range frame {
				for col := range frame[row] {
					frame[row][col] = frame[row][col].Multiply(e.Colors[row][col])
				}
			}
		}
	}

	return frame, changed, empty
}

// Clear drops every active effect.
func (s *Stack) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.effects) > 0 {
		s.dirty = true
	}
	s.effects = nil
}
