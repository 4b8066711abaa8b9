// Package dispatch maps game state transitions to lighting effects.
package dispatch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ticataco/cs2chroma/pkg/chroma"
	"github.com/ticataco/cs2chroma/pkg/config"
	"github.com/ticataco/cs2chroma/pkg/gsi"
)

type Trigger uint8

const (
	// Fires once per transition into the condition.
	TriggerEdge Trigger = iota
	// Asserts while the condition holds and clears when it stops.
	TriggerLevel
)

// Rule ties a game state condition to a lighting effect. Edge rules
// define Fired; level rules define Holds plus Enter/Leave and an
// optional While hook that runs on every update while the condition
// holds.
type Rule struct {
	Name     string
	Priority int
	Trigger  Trigger

	Enabled func(*config.Config) bool

	Fired func(prev, next gsi.State) bool
	Holds func(state gsi.State) bool

	Enter func(d *Dispatcher, update gsi.Update)
	While func(d *Dispatcher, update gsi.Update)
	Leave func(d *Dispatcher, update gsi.Update)
}

// Effects that only make sense while a player is being tracked.
var playerEffects = []string{
	effectDeath,
	effectKill,
	effectFlash,
	effectSmoke,
	effectFire,
	effectShoot,
}

// Dispatcher evaluates the rule table against every state update.
// Rules are evaluated in declaration order; where two rules contest
// the same keys, effect priority decides and equal priorities resolve
// by declaration order (the stack keeps insertion order within a
// priority class).
type Dispatcher struct {
	Stack *chroma.Stack

	config *config.Config
	rules  []Rule
	active map[string]bool
}

func NewDispatcher(conf *config.Config, stack *chroma.Stack) *Dispatcher {
	return &Dispatcher{
		Stack:  stack,
		config: conf,
		rules:  Rules(),
		active: make(map[string]bool),
	}
}

// Handle applies one state transition to the rule table.
func (d *Dispatcher) Handle(update gsi.Update) {
	// No tracked player means no player-scoped lighting.
	if update.Next.Player == nil || !update.Next.Player.HasState {
		d.Stack.RemoveAll(playerEffects...)
		for _, rule := range d.rules {
			if isPlayerRule(rule.Name) {
				d.active[rule.Name] = false
			}
		}
	}

	for i := range d.rules {
		rule := &d.rules[i]

		if !rule.Enabled(d.config) {
			continue
		}

		switch rule.Trigger {
		case TriggerEdge:
			if rule.Fired(update.Prev, update.Next) {
				log.Debug().Str("rule", rule.Name).Msg("rule fired")
				rule.Enter(d, update)
			}
		case TriggerLevel:
			holds := rule.Holds(update.Next)
			was := d.active[rule.Name]
			switch {
			case holds && !was:
				log.Debug().Str("rule", rule.Name).Msg("rule asserted")
				rule.Enter(d, update)
				d.active[rule.Name] = true
			case holds && was:
				if rule.While != nil {
					rule.While(d, update)
				}
			case !holds && was:
				log.Debug().Str("rule", rule.Name).Msg("rule cleared")
				if rule.Leave != nil {
					rule.Leave(d, update)
				}
				d.active[rule.Name] = false
			}
		}
	}
}

// Poll consumes updates from the manager until the context ends.
func (d *Dispatcher) Poll(ctx context.Context, manager *gsi.Manager) {
	updates := manager.Updates.Subscribe()
	defer updates.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates.Recv():
			d.Handle(update)
		}
	}
}

func isPlayerRule(name string) bool {
	for _, id := range playerEffects {
		if id == name {
			return true
		}
	}
	return false
}
