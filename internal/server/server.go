// Package server exposes a running game session over a WebSocket: state
// snapshots are pushed every tick and discrete player commands come back in.
// The engine is owned exclusively by the game loop goroutine; the hub and
// client pumps only move bytes.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/avelaine/epochs/internal/engine"
	"github.com/avelaine/epochs/internal/models"
	"github.com/avelaine/epochs/internal/save"
)

// Command is the inbound client message shape
type Command struct {
	Type      string  `json:"type"`
	UpgradeID string  `json:"upgrade_id,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Year      int     `json:"year,omitempty"`
	ChoiceID  string  `json:"choice_id,omitempty"`
}

// resourceView is the per-resource slice of a state snapshot
type resourceView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	PerSecond float64 `json:"per_second"`
	Unlocked  bool    `json:"unlocked"`
}

// stateView is the per-tick snapshot pushed to every client
type stateView struct {
	Year              int            `json:"year"`
	ProgressPercent   float64        `json:"progress_percent"`
	Speed             float64        `json:"speed"`
	Paused            bool           `json:"paused"`
	Resources         []resourceView `json:"resources"`
	AvailableUpgrades []string       `json:"available_upgrades"`
	OwnedUpgrades     []string       `json:"owned_upgrades"`
	ActiveEvent       *eventView     `json:"active_event,omitempty"`
}

type eventView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Choices     []choiceView `json:"choices"`
}

type choiceView struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Feasible bool   `json:"feasible"`
}

// commandResult reports the outcome of a discrete command
type commandResult struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Detail  string `json:"detail,omitempty"`
}

// Server runs one game session and its websocket surface
type Server struct {
	state   *engine.GameState
	events  *engine.EventSystem
	hub     *Hub
	inbound chan []byte
	tick    time.Duration

	autosavePath  string
	autosaveEvery time.Duration
	sinceSave     time.Duration
}

// New creates a server around an engine session
func New(state *engine.GameState, events *engine.EventSystem, tick time.Duration) *Server {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	inbound := make(chan []byte, 64)
	return &Server{
		state:   state,
		events:  events,
		hub:     NewHub(inbound),
		inbound: inbound,
		tick:    tick,
	}
}

// EnableAutoSave makes the game loop write a snapshot to path every interval.
// Must be called before Run.
func (s *Server) EnableAutoSave(path string, interval time.Duration) {
	s.autosavePath = path
	s.autosaveEvery = interval
}

// Handler returns the HTTP handler exposing the websocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.hub, w, r)
	})
	return mux
}

// Run starts the hub and blocks in the game loop. One iteration per tick:
// drain pending commands, advance the simulation, broadcast the snapshot.
func (s *Server) Run() {
	go s.hub.Run()

	dt := s.tick.Seconds()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for range ticker.C {
		s.drainCommands()

		ts := s.state.Time()
		ts.Update(dt)
		s.state.Update(dt, ts.EffectiveTimeScale())
		s.state.CheckUnlocks()
		s.events.Update(dt)

		s.maybeAutoSave()
		s.broadcast("state", s.snapshot())
	}
}

func (s *Server) maybeAutoSave() {
	if s.autosavePath == "" || s.autosaveEvery <= 0 {
		return
	}
	s.sinceSave += s.tick
	if s.sinceSave < s.autosaveEvery {
		return
	}
	s.sinceSave = 0
	if err := save.Write(s.autosavePath, save.Capture(s.state)); err != nil {
		log.Printf("autosave failed: %v", err)
	}
}

func (s *Server) drainCommands() {
	for {
		select {
		case raw := <-s.inbound:
			var cmd Command
			if err := json.Unmarshal(raw, &cmd); err != nil {
				log.Printf("ws: bad command: %v", err)
				continue
			}
			s.handle(cmd)
		default:
			return
		}
	}
}

// handle executes one player command. Invalid commands are rejected with a
// result message, never an error.
func (s *Server) handle(cmd Command) {
	switch cmd.Type {
	case "purchase":
		ok := s.state.PurchaseUpgrade(cmd.UpgradeID)
		detail := ""
		if !ok {
			detail = s.state.UpgradeStatus(cmd.UpgradeID)
		}
		s.broadcast("purchase_result", commandResult{Command: cmd.Type, OK: ok, Detail: detail})

	case "set_speed":
		applied := s.state.Time().SetSpeed(cmd.Value)
		s.broadcast("speed_result", commandResult{Command: cmd.Type, OK: true, Detail: formatSpeed(applied)})

	case "toggle_pause":
		s.state.Time().TogglePause()

	case "skip_to_year":
		ok := s.state.TimeSkipToYear(cmd.Year)
		s.broadcast("skip_result", commandResult{Command: cmd.Type, OK: ok})

	case "choice":
		ok := s.makeChoice(cmd.ChoiceID)
		s.broadcast("choice_result", commandResult{Command: cmd.Type, OK: ok})

	default:
		log.Printf("ws: unknown command type %q", cmd.Type)
	}
}

func (s *Server) makeChoice(choiceID string) bool {
	event := s.events.ActiveEvent()
	if event == nil {
		return false
	}
	for _, choice := range event.Choices {
		if choice.ID == choiceID {
			return s.events.MakeChoice(choice)
		}
	}
	return false
}

func (s *Server) snapshot() stateView {
	ts := s.state.Time()
	view := stateView{
		Year:              ts.CurrentYear(),
		ProgressPercent:   ts.ProgressPercent(),
		Speed:             ts.Speed(),
		Paused:            ts.Paused(),
		AvailableUpgrades: s.state.AvailableUpgradeIDs(),
		OwnedUpgrades:     s.state.OwnedUpgrades(),
	}

	for _, res := range s.state.Resources().Unlocked() {
		view.Resources = append(view.Resources, resourceView{
			ID:        res.Definition.ID,
			Name:      res.Definition.Name,
			Value:     res.CurrentValue,
			PerSecond: res.ProductionPerSecond(),
			Unlocked:  true,
		})
	}

	if event := s.events.ActiveEvent(); event != nil {
		view.ActiveEvent = newEventView(event, s.events)
	}
	return view
}

func newEventView(event *models.Event, es *engine.EventSystem) *eventView {
	ev := &eventView{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Icon:        event.Icon,
	}
	for _, choice := range event.Choices {
		ev.Choices = append(ev.Choices, choiceView{
			ID:       choice.ID,
			Text:     choice.Text,
			Feasible: es.CanMakeChoice(choice),
		})
	}
	return ev
}

func (s *Server) broadcast(msgType string, payload any) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("ws: encode error: %v", err)
		return
	}
	select {
	case s.hub.Broadcast <- data:
	default:
		// Hub backlogged; drop the frame, the next tick replaces it
	}
}

func formatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'g', -1, 64)
}
