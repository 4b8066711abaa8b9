package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// resultSynapseBeta is what the SDK returns when the installed Synapse
// version does not expose the Chroma REST API.
const resultSynapseBeta = 126

type registration struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Author          registrationAuthor `json:"author"`
	DeviceSupported []string           `json:"device_supported"`
	Category        string             `json:"category"`
}

type registrationAuthor struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type sessionResponse struct {
	URI string `json:"uri"`
}

type resultResponse struct {
	Result int `json:"result"`
}

// Control drives Razer Chroma keyboards over the SDK's REST API: it
// registers an application session, keeps it alive with heartbeats and
// renders the effect stack into keyboard frames.
type Control struct {
	Stack *Stack

	registrationURL string
	client          *http.Client
	limiter         *rate.Limiter

	mutex      deadlock.Mutex
	sessionURL string
}

func NewControl(registrationURL string, maxFrameRate int) *Control {
	return &Control{
		Stack:           NewStack(),
		registrationURL: registrationURL,
		client: &http.Client{
			Timeout: 250 * time.Millisecond,
		},
		limiter: rate.NewLimiter(rate.Limit(maxFrameRate), 1),
	}
}

func (c *Control) Connected() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sessionURL != ""
}

func (c *Control) session() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sessionURL
}

func (c *Control) do(ctx context.Context, method string, url string, body interface{}, response interface{}) error {
	var buffer bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buffer).Encode(body); err != nil {
			return err
		}
	}

	request, err := http.NewRequestWithContext(ctx, method, url, &buffer)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	result, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer result.Body.Close()

	if response == nil {
		return nil
	}
	return json.NewDecoder(result.Body).Decode(response)
}

// Connect registers with the Chroma SDK and starts the heartbeat. The
// keyboard is reset once the SDK has had time to initialize the
// session.
func (c *Control) Connect(ctx context.Context) error {
	var session sessionResponse
	err := c.do(ctx, http.MethodPost, c.registrationURL, registration{
		Title:       "Counter-Strike 2 Razer Chroma Integration",
		Description: "Get RGB feedback to actions in-game!",
		Author: registrationAuthor{
			Name:    "Ticataco",
			Contact: "https://discord.gg/MPPvzQK2zk",
		},
		DeviceSupported: []string{"keyboard"},
		Category:        "application",
	}, &session)
	if err != nil {
		return err
	}
	if session.URI == "" {
		return fmt.Errorf("chroma sdk returned no session uri")
	}

	c.mutex.Lock()
	c.sessionURL = session.URI
	c.mutex.Unlock()
	c.Stack.Clear()

	go c.pollHeartbeat(ctx)

	// Give the SDK time to initialize the app before resetting the
	// keyboard.
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}

	var result resultResponse
	err = c.do(ctx, http.MethodPut, session.URI+"/keyboard", map[string]string{
		"effect": "CHROMA_NONE",
	}, &result)
	if err != nil {
		c.Disconnect(ctx)
		return err
	}

	if result.Result != 0 {
		c.Disconnect(ctx)
		if result.Result == resultSynapseBeta {
			return fmt.Errorf(
				"failed to set keyboard color (code %d); this usually means the non-BETA version of Razer Synapse 4 is installed",
				result.Result,
			)
		}
		return fmt.Errorf("failed to set keyboard color (code %d)", result.Result)
	}

	log.Info().Str("session", session.URI).Msg("connected to chroma sdk")
	return nil
}

func (c *Control) Disconnect(ctx context.Context) {
	c.mutex.Lock()
	session := c.sessionURL
	c.sessionURL = ""
	c.mutex.Unlock()

	if session == "" {
		return
	}

	if err := c.do(ctx, http.MethodDelete, session, nil, nil); err != nil {
		log.Debug().Err(err).Msg("failed to close chroma session")
	}

	log.Info().Str("session", session).Msg("disconnected from chroma sdk")
}

func (c *Control) pollHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		session := c.session()
		if session == "" {
			return
		}

		if err := c.do(ctx, http.MethodPut, session+"/heartbeat", nil, nil); err != nil {
			log.Debug().Err(err).Msg("chroma heartbeat failed")
		}
	}
}

// PollRender runs the render loop: it steps effect animations and
// submits changed frames to the keyboard. Lighting is cosmetic, so a
// failed submission just drops the frame.
func (c *Control) PollRender(ctx context.Context) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		session := c.session()
		if session == "" {
			continue
		}

		frame, changed, empty := c.Stack.Step(time.Now())
		if !changed {
			continue
		}

		var body interface{}
		if empty {
			body = map[string]interface{}{"effect": "CHROMA_NONE"}
		} else {
			body = map[string]interface{}{
				"effect": "CHROMA_CUSTOM",
				"param":  frame.Frame(),
			}
		}

		if err := c.do(ctx, http.MethodPut, session+"/keyboard", body, nil); err != nil {
			log.Debug().Err(err).Msg("dropped keyboard frame")
		}
	}
}
