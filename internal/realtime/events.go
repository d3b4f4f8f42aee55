package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridrushinc/tictactoe-backend/internal/entity"
)

var ErrUnknownEvent = errors.New("unknown event")

const (
	EventUpdate          = "update"
	EventMessage         = "message"
	EventStartedTyping   = "startedTyping"
	EventStoppedTyping   = "stoppedTyping"
	EventReactionAdded   = "reactionAdded"
	EventReactionRemoved = "reactionRemoved"
	EventPresenceEnter   = "presenceEnter"
	EventPresenceLeave   = "presenceLeave"
)

// Event is the closed set of messages that travel over a game channel.
// Every variant is dispatched by its wire name through Decode.
type Event interface {
	EventName() string
}

// Update carries the full game object. Published on pairing and after
// every move; the broadcast state always wins over any local guess the
// client made.
type Update struct {
	Game *entity.Game `json:"game"`
}

func (Update) EventName() string { return EventUpdate }

// ChatMessage is a chat line, including the server-authored outcome
// message at the end of a game. ID is server-assigned and is the key
// reactions refer to.
type ChatMessage struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func (ChatMessage) EventName() string { return EventMessage }

type TypingStarted struct {
	ClientID string `json:"clientId"`
}

func (TypingStarted) EventName() string { return EventStartedTyping }

type TypingStopped struct {
	ClientID string `json:"clientId"`
}

func (TypingStopped) EventName() string { return EventStoppedTyping }

type ReactionAdded struct {
	MessageID string `json:"messageId"`
	ClientID  string `json:"clientId"`
	Emoji     string `json:"emoji"`
}

func (ReactionAdded) EventName() string { return EventReactionAdded }

type ReactionRemoved struct {
	MessageID string `json:"messageId"`
	ClientID  string `json:"clientId"`
	Emoji     string `json:"emoji"`
}

func (ReactionRemoved) EventName() string { return EventReactionRemoved }

type PresenceEnter struct {
	ClientID string `json:"clientId"`
}

func (PresenceEnter) EventName() string { return EventPresenceEnter }

type PresenceLeave struct {
	ClientID string `json:"clientId"`
}

func (PresenceLeave) EventName() string { return EventPresenceLeave }

// envelope is the wire form: the event name plus the variant's own
// fields as data.
type envelope struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

func Encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	raw, err := json.Marshal(envelope{Name: event.EventName(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	return raw, nil
}

func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	var event Event
	switch env.Name {
	case EventUpdate:
		event = &Update{}
	case EventMessage:
		event = &ChatMessage{}
	case EventStartedTyping:
		event = &TypingStarted{}
	case EventStoppedTyping:
		event = &TypingStopped{}
	case EventReactionAdded:
		event = &ReactionAdded{}
	case EventReactionRemoved:
		event = &ReactionRemoved{}
	case EventPresenceEnter:
		event = &PresenceEnter{}
	case EventPresenceLeave:
		event = &PresenceLeave{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Name)
	}

	if err := json.Unmarshal(env.Data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q event: %w", env.Name, err)
	}

	return event, nil
}
