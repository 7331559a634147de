package firewall

import (
	"errors"
	"fmt"
	"sync"
)

// Session owns an engine connection and the sublayer this program's filters
// live in. A Session is closed exactly once; every operation after Close
// fails with ErrEngineNotInitialized.
type Session struct {
	engine   Engine
	sublayer Sublayer

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Open establishes a dynamic session and makes sure the sublayer exists.
func Open(opener Opener, opts SessionOptions, sublayer Sublayer) (*Session, error) {
	if opener == nil {
		return nil, fmt.Errorf("%w: no opener", ErrEngineOpenFailed)
	}

	engine, err := opener(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineOpenFailed, err)
	}
	if engine == nil {
		return nil, ErrEngineOpenFailed
	}

	s := &Session{engine: engine, sublayer: sublayer}
	if err := s.EnsureSublayer(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSublayer adds the sublayer, treating an existing one as success.
func (s *Session) EnsureSublayer() error {
	engine, err := s.Engine()
	if err != nil {
		return err
	}

	err = engine.AddSublayer(s.sublayer)
	if err == nil || errors.Is(err, ErrAlreadyExists) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSublayerCreateFailed, err)
}

// Engine returns the open engine or ErrEngineNotInitialized.
func (s *Session) Engine() (Engine, error) {
	if s == nil {
		return nil, ErrEngineNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.engine == nil {
		return nil, ErrEngineNotInitialized
	}
	return s.engine, nil
}

func (s *Session) Sublayer() Sublayer {
	return s.sublayer
}

func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		engine := s.engine
		s.mu.Unlock()

		if engine != nil {
			s.closeErr = engine.Close()
		}
	})
	return s.closeErr
}
