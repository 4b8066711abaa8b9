package dispatch

import (
	"time"

	opt "github.com/repeale/fp-go/option"

	"github.com/ticataco/cs2chroma/pkg/chroma"
	"github.com/ticataco/cs2chroma/pkg/config"
	"github.com/ticataco/cs2chroma/pkg/gsi"
)

const (
	effectMovement    = "movement"
	effectInteraction = "interaction"
	effectInventory   = "inventory"
	effectSmoke       = "smoke"
	effectFire        = "fire"
	effectFlash       = "flash"
	effectKill        = "kill"
	effectShoot       = "shoot"
	effectDeath       = "death"
	effectDefusal     = "defusal"
	effectBomb        = "bomb"
	effectResult      = "result"
)

// Effect priorities, lowest to highest. A higher priority effect
// composes over a lower one on contested keys.
const (
	priorityMovement = (iota + 1) * 10
	priorityInteraction
	priorityInventory
	prioritySmoke
	priorityFire
	priorityFlash
	priorityKill
	priorityShoot
	priorityDeath
	priorityDefusal
	priorityBomb
	priorityResult
)

func samePlayer(prev, next gsi.State) bool {
	return prev.Player != nil && next.Player != nil &&
		prev.Player.SteamID == next.Player.SteamID
}

func inMatch(state gsi.State) bool {
	return state.Map != nil && state.Player != nil
}

// Rules is the built-in rule table. Declaration order is the
// tie-break for equal priorities.
func Rules() []Rule {
	return []Rule{
		{
			Name:     effectMovement,
			Priority: priorityMovement,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Indicators.MovementKeys },
			Holds:    inMatch,
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectMovement,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodFillNoZero,
					Colors:   movementKeys(),
					Priority: priorityMovement,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectMovement)
			},
		},
		{
			Name:     effectInteraction,
			Priority: priorityInteraction,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Indicators.InteractionKeys },
			Holds:    inMatch,
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectInteraction,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodFillNoZero,
					Colors:   interactionKeys(),
					Priority: priorityInteraction,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectInteraction)
			},
		},
		{
			Name:     effectInventory,
			Priority: priorityInventory,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Indicators.InventoryKeys },
			Holds:    inMatch,
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectInventory,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodFillNoZero,
					Colors:   inventoryKeys(update.Next.Player),
					Priority: priorityInventory,
				})
			},
			While: func(d *Dispatcher, update gsi.Update) {
				colors := inventoryKeys(update.Next.Player)
				d.Stack.Mutate(effectInventory, func(e *chroma.Effect) {
					e.Colors = colors
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectInventory)
			},
		},
		{
			Name:     effectSmoke,
			Priority: prioritySmoke,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Effects.Smoke },
			Holds: func(state gsi.State) bool {
				return state.Player != nil && state.Player.State.Smoked
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectSmoke,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodAdd,
					Colors:   chroma.Uniform(chroma.RGB(100, 100, 100)),
					Priority: prioritySmoke,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				// Fade out instead of cutting to black.
				d.Stack.Mutate(effectSmoke, func(e *chroma.Effect) {
					e.UpdateEvery = 50 * time.Millisecond
					e.Decay = 25.0 / 255
					e.Touch()
				})
			},
		},
		{
			Name:     effectFire,
			Priority: priorityFire,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Effects.Burning },
			Holds: func(state gsi.State) bool {
				return state.Player != nil && state.Player.State.Burning
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				colors, err := chroma.Wave(
					[]chroma.Color{
						chroma.RGB(255, 81, 0),
						chroma.RGB(255, 0, 0),
					},
					chroma.OrientationHorizontal,
					chroma.BandAlternating,
				)
				if err != nil {
					return
				}
				effect := &chroma.Effect{
					ID:          effectFire,
					Kind:        chroma.KindWave,
					Method:      chroma.MethodAdd,
					Dir:         chroma.DirectionUp,
					Colors:      colors,
					UpdateEvery: 200 * time.Millisecond,
					Priority:    priorityFire,
				}
				effect.Touch()
				d.Stack.Add(effect)
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Mutate(effectFire, func(e *chroma.Effect) {
					e.Decay = 128.0 / 255
					e.Touch()
				})
			},
		},
		{
			Name:     effectFlash,
			Priority: priorityFlash,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Effects.Flash },
			Holds: func(state gsi.State) bool {
				return state.Player != nil && state.Player.State.Flashed
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectFlash,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodAdd,
					Colors:   chroma.Uniform(chroma.RGB(255, 255, 255)),
					Priority: priorityFlash,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Mutate(effectFlash, func(e *chroma.Effect) {
					e.UpdateEvery = 100 * time.Millisecond
					e.Decay = 15.0 / 255
					e.Touch()
				})
			},
		},
		{
			Name:     effectKill,
			Priority: priorityKill,
			Trigger:  TriggerEdge,
			Enabled:  func(c *config.Config) bool { return c.Effects.Kill },
			Fired: func(prev, next gsi.State) bool {
				return samePlayer(prev, next) &&
					next.Player.State.RoundKills > prev.Player.State.RoundKills
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				player := update.Next.Player

				color := chroma.RGB(222, 155, 53)
				if player.Team == gsi.TeamCT {
					color = chroma.RGB(93, 121, 174)
				}

				var effect *chroma.Effect
				if player.State.RoundKills%5 != 0 {
					effect = &chroma.Effect{
						ID:           effectKill,
						Kind:         chroma.KindStatic,
						Method:       chroma.MethodFill,
						Colors:       chroma.Uniform(color),
						Decay:        20.0 / 255,
						UpdateEvery:  100 * time.Millisecond,
						Expires:      true,
						ExpiresAfter: 5,
						Priority:     priorityKill,
					}
				} else {
					// Every fifth kill in a round gets the big one.
					effect = &chroma.Effect{
						ID:           effectKill,
						Kind:         chroma.KindExplosion,
						Method:       chroma.MethodFillNoZero,
						Colors:       chroma.Explosion(color),
						Decay:        5.0 / 255,
						UpdateEvery:  100 * time.Millisecond,
						Expires:      true,
						ExpiresAfter: 14,
						Priority:     priorityKill,
					}
				}
				effect.Touch()
				d.Stack.Add(effect)
			},
		},
		{
			Name:     effectShoot,
			Priority: priorityShoot,
			Trigger:  TriggerEdge,
			Enabled:  func(c *config.Config) bool { return c.Effects.Shoot },
			Fired: func(prev, next gsi.State) bool {
				if !samePlayer(prev, next) {
					return false
				}
				for slot, weapon := range next.Player.State.Weapons {
					before, ok := prev.Player.State.Weapons[slot]
					if !ok || before.Name != weapon.Name || !before.Active {
						continue
					}
					if weapon.AmmoClip < before.AmmoClip {
						return true
					}
				}
				return false
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				// Holding the trigger extends the current pulse.
				extended := d.Stack.Mutate(effectShoot, func(e *chroma.Effect) {
					e.Expires = true
					e.ExpiresAfter = 1
					e.Touch()
				})
				if extended {
					return
				}

				effect := &chroma.Effect{
					ID:           effectShoot,
					Kind:         chroma.KindStatic,
					Method:       chroma.MethodAdd,
					Colors:       chroma.Uniform(chroma.RGB(25, 25, 25)),
					UpdateEvery:  150 * time.Millisecond,
					Expires:      true,
					ExpiresAfter: 1,
					Priority:     priorityShoot,
				}
				effect.Touch()
				d.Stack.Add(effect)
			},
		},
		{
			Name:     effectDeath,
			Priority: priorityDeath,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Effects.Death },
			Holds: func(state gsi.State) bool {
				return state.Player != nil && state.Player.HasState &&
					state.Player.State.Health == 0
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Add(&chroma.Effect{
					ID:       effectDeath,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodFill,
					Colors:   chroma.Uniform(chroma.RGB(255, 0, 0)),
					Priority: priorityDeath,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectDeath)
			},
		},
		{
			Name:     effectDefusal,
			Priority: priorityDefusal,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Indicators.Defusal },
			Holds: func(state gsi.State) bool {
				return state.Round != nil && state.Round.Bomb == gsi.BombPlanted &&
					!state.Round.PlantedAt.IsZero()
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				var colors chroma.Matrix
				defusalStrip(&colors, update.At.Sub(update.Next.Round.PlantedAt).Seconds())
				d.Stack.Add(&chroma.Effect{
					ID:       effectDefusal,
					Kind:     chroma.KindStatic,
					Method:   chroma.MethodFillNoZero,
					Colors:   colors,
					Priority: priorityDefusal,
				})
			},
			While: func(d *Dispatcher, update gsi.Update) {
				elapsed := update.At.Sub(update.Next.Round.PlantedAt).Seconds()
				d.Stack.Mutate(effectDefusal, func(e *chroma.Effect) {
					defusalStrip(&e.Colors, elapsed)
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectDefusal)
			},
		},
		{
			Name:     effectBomb,
			Priority: priorityBomb,
			Trigger:  TriggerEdge,
			Enabled:  func(c *config.Config) bool { return c.Effects.BombExplosion },
			Fired: func(prev, next gsi.State) bool {
				if next.Round == nil || next.Round.Bomb != gsi.BombExploded {
					return false
				}
				return prev.Round == nil || prev.Round.Bomb != gsi.BombExploded
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				effect := &chroma.Effect{
					ID:           effectBomb,
					Kind:         chroma.KindExplosion,
					Method:       chroma.MethodFillNoZero,
					Colors:       chroma.Explosion(chroma.RGB(255, 81, 0)),
					UpdateEvery:  100 * time.Millisecond,
					Expires:      true,
					ExpiresAfter: 14,
					Priority:     priorityBomb,
				}
				effect.Touch()
				d.Stack.Add(effect)
			},
		},
		{
			Name:     effectResult,
			Priority: priorityResult,
			Trigger:  TriggerLevel,
			Enabled:  func(c *config.Config) bool { return c.Effects.GameResult },
			Holds: func(state gsi.State) bool {
				return state.Map != nil && state.Map.Phase == "gameover"
			},
			Enter: func(d *Dispatcher, update gsi.Update) {
				if opt.IsSome(d.Stack.Find(effectResult)) {
					return
				}

				colors, err := chroma.Wave(
					resultColors(update.Next),
					chroma.OrientationVertical,
					chroma.BandCluster,
				)
				if err != nil {
					return
				}

				d.Stack.Add(&chroma.Effect{
					ID:          effectResult,
					Kind:        chroma.KindWave,
					Method:      chroma.MethodFill,
					Dir:         chroma.DirectionRight,
					Colors:      colors,
					UpdateEvery: 200 * time.Millisecond,
					Priority:    priorityResult,
				})
			},
			Leave: func(d *Dispatcher, update gsi.Update) {
				d.Stack.Remove(effectResult)
			},
		},
	}
}

func resultColors(state gsi.State) []chroma.Color {
	player := state.Player
	ct := state.Map.CT.Score
	t := state.Map.T.Score

	won := player != nil &&
		((player.Team == gsi.TeamCT && ct > t) ||
			(player.Team == gsi.TeamT && ct < t))

	switch {
	case won:
		return []chroma.Color{
			chroma.RGB(0, 255, 0),
			chroma.RGB(105, 246, 104),
			chroma.RGB(31, 201, 31),
		}
	case player != nil && ct != t:
		return []chroma.Color{
			chroma.RGB(255, 0, 0),
			chroma.RGB(246, 105, 104),
			chroma.RGB(201, 31, 31),
		}
	default:
		return []chroma.Color{
			chroma.RGB(150, 150, 150),
			chroma.RGB(205, 205, 205),
			chroma.RGB(90, 90, 90),
		}
	}
}
