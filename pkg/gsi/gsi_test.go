package gsi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"provider": {"steamid": "76561198000000001"},
	"map": {
		"mode": "competitive",
		"name": "de_dust2",
		"phase": "live",
		"round": 4,
		"team_ct": {"score": 3, "timeouts_remaining": 1},
		"team_t": {"score": 1, "timeouts_remaining": 1}
	},
	"round": {"phase": "live"},
	"player": {
		"steamid": "76561198000000001",
		"name": "player",
		"team": "CT",
		"state": {
			"health": 100,
			"armor": 100,
			"helmet": true,
			"money": 3250,
			"round_kills": 0,
			"round_killhs": 0,
			"equip_value": 4400,
			"flashed": 0,
			"smoked": 0,
			"burning": 0
		},
		"weapons": {
			"weapon_0": {
				"name": "weapon_knife",
				"type": "Knife",
				"state": "holstered"
			},
			"weapon_1": {
				"name": "weapon_ak47",
				"type": "Rifle",
				"ammo_clip": 30,
				"ammo_clip_max": 30,
				"ammo_reserve": 90,
				"state": "active"
			}
		},
		"match_stats": {"kills": 5, "assists": 1, "deaths": 2, "mvps": 1, "score": 12}
	}
}`

func TestDecode(t *testing.T) {
	payload, err := Decode([]byte(samplePayload))
	require.NoError(t, err)
	require.NotNil(t, payload.Provider)
	require.NotNil(t, payload.Player)
	require.Equal(t, "76561198000000001", payload.Provider.SteamID)

	_, err = Decode([]byte("not json"))
	require.Error(t, err)

	_, err = Decode([]byte(`[1, 2, 3]`))
	require.Error(t, err)

	// Valid JSON, but nothing we subscribe to
	_, err = Decode([]byte(`{"auth": {"token": "x"}}`))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	manager := NewManager(false)

	payload, err := Decode([]byte(samplePayload))
	require.NoError(t, err)

	update := manager.Apply(payload)
	require.Equal(t, State{}, update.Prev)

	next := update.Next
	require.Equal(t, "76561198000000001", next.SteamID)
	require.NotNil(t, next.Map)
	require.Equal(t, 3, next.Map.CT.Score)
	require.NotNil(t, next.Player)
	require.Equal(t, TeamCT, next.Player.Team)
	require.True(t, next.Player.HasState)
	require.Equal(t, 100, next.Player.State.Health)
	require.False(t, next.Player.State.Burning)

	slot, active := next.Player.ActiveWeapon()
	require.Equal(t, "weapon_1", slot)
	require.Equal(t, "weapon_ak47", active.Name)
	require.Equal(t, 30, active.AmmoClip)
}

func TestApplyIdempotent(t *testing.T) {
	manager := NewManager(false)

	payload, err := Decode([]byte(samplePayload))
	require.NoError(t, err)

	first := manager.Apply(payload)
	second := manager.Apply(payload)

	// Re-sent state must not look like a transition.
	require.Equal(t, first.Next, second.Prev)
	require.Equal(t, second.Prev, second.Next)
}

func TestApplyOtherPlayers(t *testing.T) {
	spectated := strings.Replace(
		samplePayload,
		`"steamid": "76561198000000001",
		"name": "player"`,
		`"steamid": "76561198000000002",
		"name": "someone else"`,
		1,
	)

	payload, err := Decode([]byte(spectated))
	require.NoError(t, err)

	// The player section belongs to someone else and is dropped.
	manager := NewManager(false)
	update := manager.Apply(payload)
	require.Nil(t, update.Next.Player)

	// Unless spectated players are wanted.
	manager = NewManager(true)
	update = manager.Apply(payload)
	require.NotNil(t, update.Next.Player)
	require.Equal(t, "someone else", update.Next.Player.Name)
}

func TestApplyBurningThreshold(t *testing.T) {
	manager := NewManager(false)

	singed := strings.Replace(samplePayload, `"burning": 0`, `"burning": 128`, 1)
	payload, err := Decode([]byte(singed))
	require.NoError(t, err)
	update := manager.Apply(payload)
	require.False(t, update.Next.Player.State.Burning)

	ablaze := strings.Replace(samplePayload, `"burning": 0`, `"burning": 255`, 1)
	payload, err = Decode([]byte(ablaze))
	require.NoError(t, err)
	update = manager.Apply(payload)
	require.True(t, update.Next.Player.State.Burning)
}

func TestApplyPlantAnchor(t *testing.T) {
	manager := NewManager(false)

	planted := strings.Replace(
		samplePayload,
		`"round": {"phase": "live"}`,
		`"round": {"phase": "live", "bomb": "planted"}`,
		1,
	)
	payload, err := Decode([]byte(planted))
	require.NoError(t, err)

	first := manager.Apply(payload)
	require.Equal(t, BombPlanted, first.Next.Round.Bomb)
	require.False(t, first.Next.Round.PlantedAt.IsZero())

	// The anchor survives re-sent state while the bomb stays down.
	second := manager.Apply(payload)
	require.Equal(t, first.Next.Round.PlantedAt, second.Next.Round.PlantedAt)
}

func TestCloneIsolation(t *testing.T) {
	manager := NewManager(false)

	payload, err := Decode([]byte(samplePayload))
	require.NoError(t, err)
	manager.Apply(payload)

	state := manager.Current()
	state.Player.State.Weapons["weapon_1"] = Weapon{Name: "tampered"}
	state.Map.CT.Score = 99

	fresh := manager.Current()
	require.Equal(t, "weapon_ak47", fresh.Player.State.Weapons["weapon_1"].Name)
	require.Equal(t, 3, fresh.Map.CT.Score)
}

func TestIngest(t *testing.T) {
	manager := NewManager(false)
	listener := NewListener(manager, "127.0.0.1:0", false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(samplePayload))
	listener.handleIngest(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "76561198000000001", manager.Current().SteamID)
	require.False(t, manager.LastHeartbeat().IsZero())

	// Garbage is acknowledged but never applied.
	before := manager.Current()
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("garbage"))
	listener.handleIngest(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, before, manager.Current())
}

func TestUpdatesTopic(t *testing.T) {
	manager := NewManager(false)
	updates := manager.Updates.Subscribe()
	defer updates.Done()

	payload, err := Decode([]byte(samplePayload))
	require.NoError(t, err)
	manager.Apply(payload)

	select {
	case update := <-updates.Recv():
		require.Equal(t, "76561198000000001", update.Next.SteamID)
	case <-time.After(time.Second):
		t.Fatal("expected a published update")
	}
}
