package gsi

import (
	"time"
)

type Team string

const (
	TeamCT Team = "CT"
	TeamT  Team = "T"
)

type Weapon struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	AmmoClip    int    `json:"ammoClip"`
	AmmoClipMax int    `json:"ammoClipMax"`
	AmmoReserve int    `json:"ammoReserve"`
	Active      bool   `json:"active"`
}

type PlayerState struct {
	Health         int               `json:"health"`
	Armor          int               `json:"armor"`
	Helmet         bool              `json:"helmet"`
	Money          int               `json:"money"`
	RoundKills     int               `json:"roundKills"`
	RoundKillsHS   int               `json:"roundKillsHS"`
	EquipmentValue int               `json:"equipmentValue"`
	Flashed        bool              `json:"flashed"`
	Smoked         bool              `json:"smoked"`
	Burning        bool              `json:"burning"`
	Weapons        map[string]Weapon `json:"weapons"`
}

type MatchStats struct {
	Kills   int `json:"kills"`
	Assists int `json:"assists"`
	Deaths  int `json:"deaths"`
	MVPs    int `json:"mvps"`
	Score   int `json:"score"`
}

type Player struct {
	SteamID string `json:"steamId"`
	Name    string `json:"name"`
	Team    Team   `json:"team"`
	// Whether the payload carried a state section for this player;
	// without one the State fields are meaningless.
	HasState bool        `json:"hasState"`
	State    PlayerState `json:"state"`
	Stats    MatchStats  `json:"stats"`
}

// ActiveWeapon returns the slot key and weapon currently held, if any.
func (p *Player) ActiveWeapon() (string, *Weapon) {
	for slot, weapon := range p.State.Weapons {
		if weapon.Active {
			w := weapon
			return slot, &w
		}
	}
	return "", nil
}

type TeamScore struct {
	Score    int `json:"score"`
	Timeouts int `json:"timeouts"`
}

type Map struct {
	Mode  string    `json:"mode"`
	Name  string    `json:"name"`
	Phase string    `json:"phase"`
	Round int       `json:"round"`
	CT    TeamScore `json:"ct"`
	T     TeamScore `json:"t"`
}

const (
	BombPlanted  = "planted"
	BombExploded = "exploded"
	BombDefused  = "defused"
)

type Round struct {
	Phase     string    `json:"phase"`
	WinTeam   Team      `json:"winTeam"`
	Bomb      string    `json:"bomb"`
	PlantedAt time.Time `json:"plantedAt"`
}

// State is the latest normalized snapshot of the match. Absent
// sections are nil; the whole snapshot is replaced on every update.
type State struct {
	// The steam id of the player owning the integration.
	SteamID string  `json:"steamId"`
	Map     *Map    `json:"map"`
	Round   *Round  `json:"round"`
	Player  *Player `json:"player"`
}

// Clone returns a deep copy safe to hand to subscribers.
func (s State) Clone() State {
	next := s

	if s.Map != nil {
		mapCopy := *s.Map
		next.Map = &mapCopy
	}

	if s.Round != nil {
		roundCopy := *s.Round
		next.Round = &roundCopy
	}

	if s.Player != nil {
		playerCopy := *s.Player
		playerCopy.State.Weapons = make(map[string]Weapon, len(s.Player.State.Weapons))
		for slot, weapon := range s.Player.State.Weapons {
			playerCopy.State.Weapons[slot] = weapon
		}
		next.Player = &playerCopy
	}

	return next
}
