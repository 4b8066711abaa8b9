package gsi

import (
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/ticataco/cs2chroma/pkg/utils"
)

// Update pairs the previous and the freshly applied snapshot so
// subscribers can detect transitions.
type Update struct {
	Prev State
	Next State
	At   time.Time
}

// Manager owns the current snapshot. The listener is the only writer;
// everyone else observes through Current or the Updates topic.
type Manager struct {
	Updates *utils.Topic[Update]

	// Effects normally only apply to the owning player; spectating
	// others can be interesting too.
	showOthers bool

	mutex         deadlock.RWMutex
	state         State
	lastHeartbeat time.Time
}

func NewManager(showOthers bool) *Manager {
	return &Manager{
		Updates:    utils.NewTopic[Update](),
		showOthers: showOthers,
	}
}

func (m *Manager) Current() State {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.state.Clone()
}

func (m *Manager) LastHeartbeat() time.Time {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.lastHeartbeat
}

// Apply normalizes a payload into the next snapshot, replaces the
// current one wholesale and publishes the transition. Applying the
// same payload twice yields an identical snapshot.
func (m *Manager) Apply(payload *Payload) Update {
	now := time.Now()

	m.mutex.Lock()
	prev := m.state.Clone()
	next := m.normalize(prev, payload, now)
	m.state = next
	m.lastHeartbeat = now
	m.mutex.Unlock()

	update := Update{Prev: prev, Next: next.Clone(), At: now}
	m.Updates.Publish(update)
	return update
}

func (m *Manager) normalize(prev State, payload *Payload, now time.Time) State {
	next := State{SteamID: prev.SteamID}

	if payload.Provider != nil {
		next.SteamID = payload.Provider.SteamID
	}

	if payload.Map != nil {
		next.Map = &Map{
			Mode:  payload.Map.Mode,
			Name:  payload.Map.Name,
			Phase: payload.Map.Phase,
			Round: payload.Map.Round,
			CT: TeamScore{
				Score:    payload.Map.TeamCT.Score,
				Timeouts: payload.Map.TeamCT.Timeouts,
			},
			T: TeamScore{
				Score:    payload.Map.TeamT.Score,
				Timeouts: payload.Map.TeamT.Timeouts,
			},
		}
	}

	if payload.Round != nil {
		round := Round{Phase: payload.Round.Phase}
		if payload.Round.WinTeam != nil {
			round.WinTeam = Team(*payload.Round.WinTeam)
		}
		if payload.Round.Bomb != nil {
			round.Bomb = *payload.Round.Bomb
			// The plant time anchors the defusal countdown.
			if round.Bomb == BombPlanted {
				if prev.Round != nil && prev.Round.Bomb == BombPlanted {
					round.PlantedAt = prev.Round.PlantedAt
				} else {
					round.PlantedAt = now
				}
			}
		}
		next.Round = &round
	}

	if payload.Player != nil && (payload.Player.SteamID == next.SteamID || m.showOthers) {
		player := Player{
			SteamID: payload.Player.SteamID,
			Name:    payload.Player.Name,
		}
		if payload.Player.Team != nil {
			player.Team = Team(*payload.Player.Team)
		}

		if state := payload.Player.State; state != nil {
			player.HasState = true
			player.State = PlayerState{
				Health:         state.Health,
				Armor:          state.Armor,
				Helmet:         state.Helmet,
				Money:          state.Money,
				RoundKills:     state.RoundKills,
				RoundKillsHS:   state.RoundKillHS,
				EquipmentValue: state.EquipValue,
				Flashed:        state.Flashed != 0,
				Smoked:         state.Smoked != 0,
				// The game ramps this value up; only fully ablaze
				// counts.
				Burning: state.Burning == 255,
			}
		}

		if len(payload.Player.Weapons) > 0 {
			player.State.Weapons = make(map[string]Weapon, len(payload.Player.Weapons))
			for slot, weapon := range payload.Player.Weapons {
				player.State.Weapons[slot] = Weapon{
					Name:        weapon.Name,
					Type:        weapon.Type,
					AmmoClip:    intValue(weapon.AmmoClip),
					AmmoClipMax: intValue(weapon.AmmoClipMax),
					AmmoReserve: intValue(weapon.AmmoReserve),
					Active:      weapon.State == "active",
				}
			}
		}

		if stats := payload.Player.MatchStats; stats != nil {
			player.Stats = MatchStats{
				Kills:   stats.Kills,
				Assists: stats.Assists,
				Deaths:  stats.Deaths,
				MVPs:    stats.MVPs,
				Score:   stats.Score,
			}
		}

		next.Player = &player
	}

	return next
}
