package gsi

import (
	"encoding/json"
	"fmt"
)

// The wire format of a game state integration POST. The schema is
// owned by the game; only the sections we subscribe to are decoded and
// unknown fields are ignored.
type Payload struct {
	Provider *ProviderPayload `json:"provider"`
	Map      *MapPayload      `json:"map"`
	Round    *RoundPayload    `json:"round"`
	Player   *PlayerPayload   `json:"player"`
}

type ProviderPayload struct {
	SteamID string `json:"steamid"`
}

type TeamPayload struct {
	Score    int `json:"score"`
	Timeouts int `json:"timeouts_remaining"`
}

type MapPayload struct {
	Mode   string      `json:"mode"`
	Name   string      `json:"name"`
	Phase  string      `json:"phase"`
	Round  int         `json:"round"`
	TeamCT TeamPayload `json:"team_ct"`
	TeamT  TeamPayload `json:"team_t"`
}

type RoundPayload struct {
	Phase   string  `json:"phase"`
	WinTeam *string `json:"win_team"`
	Bomb    *string `json:"bomb"`
}

type PlayerStatePayload struct {
	Health      int  `json:"health"`
	Armor       int  `json:"armor"`
	Helmet      bool `json:"helmet"`
	Money       int  `json:"money"`
	RoundKills  int  `json:"round_kills"`
	RoundKillHS int  `json:"round_killhs"`
	EquipValue  int  `json:"equip_value"`
	Flashed     int  `json:"flashed"`
	Smoked      int  `json:"smoked"`
	Burning     int  `json:"burning"`
}

type WeaponPayload struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	AmmoClip    *int   `json:"ammo_clip"`
	AmmoClipMax *int   `json:"ammo_clip_max"`
	AmmoReserve *int   `json:"ammo_reserve"`
	State       string `json:"state"`
}

type MatchStatsPayload struct {
	Kills   int `json:"kills"`
	Assists int `json:"assists"`
	Deaths  int `json:"deaths"`
	MVPs    int `json:"mvps"`
	Score   int `json:"score"`
}

type PlayerPayload struct {
	SteamID    string                   `json:"steamid"`
	Name       string                   `json:"name"`
	Team       *string                  `json:"team"`
	State      *PlayerStatePayload      `json:"state"`
	Weapons    map[string]WeaponPayload `json:"weapons"`
	MatchStats *MatchStatsPayload       `json:"match_stats"`
}

// Decode parses a POST body. Bodies that are not JSON objects or that
// carry none of the sections we understand are rejected; the game
// resends state continuously, so callers just drop them.
func Decode(body []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed payload: %v", err)
	}

	if payload.Provider == nil && payload.Map == nil &&
		payload.Round == nil && payload.Player == nil {
		return nil, fmt.Errorf("payload carries no recognized sections")
	}

	return &payload, nil
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
