package eventbus

import (
	"encoding/json"
	"sync"
)

type (
	// Bus delivers events synchronously: Broadcast returns after every
	// handler registered for the identifier has run.
	Bus interface {
		Register(identifier string, handler Handler)
		Broadcast(identifier string, evType Type, message string)
		BroadcastWithData(identifier string, evType Type, message string, data []byte)
	}

	Handler func(ev Event)

	Event struct {
		Type    Type            `json:"type"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}

	Type string
)

const (
	Error   Type = "error"
	Info    Type = "info"
	Success Type = "success"
)

type eventPublisher struct {
	handlers map[string][]Handler
	lock     sync.Mutex
}

func New() Bus {
	return &eventPublisher{
		handlers: make(map[string][]Handler),
	}
}

func (e *eventPublisher) Register(identifier string, handler Handler) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.handlers[identifier] = append(e.handlers[identifier], handler)
}

func (e *eventPublisher) Broadcast(identifier string, evType Type, message string) {
	e.BroadcastWithData(identifier, evType, message, nil)
}

func (e *eventPublisher) BroadcastWithData(identifier string, evType Type, message string, data []byte) {
	e.lock.Lock()
	handlers := append([]Handler(nil), e.handlers[identifier]...)
	e.lock.Unlock()

	ev := Event{
		Type:    evType,
		Message: message,
		Data:    data,
	}
	for _, handler := range handlers {
		handler(ev)
	}
}
