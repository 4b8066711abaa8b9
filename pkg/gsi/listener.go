package gsi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

// Payloads are small; anything bigger than this is not the game.
const maxPayloadSize = 1 << 20

// Listener is the loopback ingress the game POSTs state to. With the
// watch feed enabled it also streams snapshots to local overlay
// tooling over a websocket.
type Listener struct {
	manager   *Manager
	address   string
	watchFeed bool
}

func NewListener(manager *Manager, address string, watchFeed bool) *Listener {
	return &Listener{
		manager:   manager,
		address:   address,
		watchFeed: watchFeed,
	}
}

func (l *Listener) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		log.Warn().Err(err).Msg("failed to read game state payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	payload, err := Decode(body)
	if err != nil {
		// The game resends state continuously; dropping is safe.
		log.Warn().Err(err).Msg("dropped game state payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	l.manager.Apply(payload)
	w.WriteHeader(http.StatusOK)
}

func writeTimeout(ctx context.Context, c *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Write(ctx, websocket.MessageText, message)
}

func (l *Listener) handleWatch(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to accept watch client")
		return
	}
	defer c.Close(websocket.StatusInternalError, "watch feed fault")

	logger := log.With().Str("host", r.RemoteAddr).Logger()
	logger.Info().Msg("watch client joined")

	err = l.watchClient(r.Context(), c)

	logger.Info().Msg("watch client left")

	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		logger.Debug().Err(err).Msg("watch client error")
	}
}

func (l *Listener) watchClient(ctx context.Context, c *websocket.Conn) error {
	updates := l.manager.Updates.Subscribe()
	defer updates.Done()

	// Catch the client up before streaming transitions.
	current := l.manager.Current()
	message, err := json.Marshal(current)
	if err != nil {
		return err
	}
	if err := writeTimeout(ctx, c, message); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates.Recv():
			message, err := json.Marshal(update.Next)
			if err != nil {
				return err
			}
			if err := writeTimeout(ctx, c, message); err != nil {
				return err
			}
		}
	}
}

// Serve blocks until the context is cancelled or the listener fails.
func (l *Listener) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		l.handleIngest(w, r)
	})

	if l.watchFeed {
		mux.HandleFunc("/watch", l.handleWatch)
	}

	server := &http.Server{
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	listen, err := net.Listen("tcp", l.address)
	if err != nil {
		return fmt.Errorf("could not bind %s: %v", l.address, err)
	}

	log.Info().Str("address", l.address).Msg("listening for game state")

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()

	err = server.Serve(listen)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
