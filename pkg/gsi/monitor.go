package gsi

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ticataco/cs2chroma/pkg/chroma"
)

// The game heartbeats every couple of seconds while running; a full
// six seconds of silence means it closed.
const heartbeatTimeout = 6 * time.Second

// Monitor watches the game's heartbeat and manages the Chroma session
// accordingly: connect when state starts flowing, disconnect when the
// game goes away.
type Monitor struct {
	manager *Manager
	control *chroma.Control

	// Called after a disconnect when the game closed, if set.
	OnGameClose func()
}

func NewMonitor(manager *Manager, control *chroma.Control) *Monitor {
	return &Monitor{
		manager: manager,
		control: control,
	}
}

func (m *Monitor) Poll(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		heartbeat := m.manager.LastHeartbeat()
		alive := !heartbeat.IsZero() && time.Since(heartbeat) <= heartbeatTimeout

		if !alive {
			if m.control.Connected() {
				log.Info().Msg("lost connection to game")
				m.control.Disconnect(ctx)
				if m.OnGameClose != nil {
					m.OnGameClose()
				}
			}
			continue
		}

		if !m.control.Connected() {
			log.Info().Msg("connected to game")
			if err := m.control.Connect(ctx); err != nil {
				log.Error().Err(err).Msg("failed to connect to chroma sdk")
			}
		}
	}
}
