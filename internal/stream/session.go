package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Session drives a logged-in streamer connection: connect, ADMIN LOGIN,
// QUOTE SUBS, then forward data frames downstream.
type Session struct {
	cfg     ClientConfig
	details *LoginDetails
	logger  *slog.Logger

	client Client

	// Output: data frames only (responses are consumed by the session).
	out chan RawMessage

	mu        sync.Mutex
	requestID int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewSession creates a streamer session. The config URL is taken from
// the login details when unset.
func NewSession(cfg ClientConfig, details *LoginDetails, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		cfg.URL = details.SocketURL
	}

	return &Session{
		cfg:     cfg,
		details: details,
		logger:  logger,
		out:     make(chan RawMessage, cfg.BufferSize),
	}
}

// Messages returns data frames received after login.
func (s *Session) Messages() <-chan RawMessage {
	return s.out
}

// Start connects, logs in, and subscribes to quotes for the given
// symbols. It returns once the login is acknowledged.
func (s *Session) Start(ctx context.Context, symbols []string) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.client = NewClient(s.cfg, s.logger)
	if err := s.client.Connect(ctx); err != nil {
		cancel()
		return fmt.Errorf("connect streamer: %w", err)
	}

	loginID := s.nextRequestID()
	if err := s.send(s.details.LoginRequest(loginID)); err != nil {
		s.client.Close()
		cancel()
		return fmt.Errorf("send login: %w", err)
	}

	if err := s.awaitResponse(ctx, loginID); err != nil {
		s.client.Close()
		cancel()
		return err
	}

	s.logger.Info("streamer login accepted", "account", s.details.AccountID)

	if len(symbols) > 0 {
		if err := s.send(s.details.QuoteSubscription(s.nextRequestID(), symbols)); err != nil {
			s.client.Close()
			cancel()
			return fmt.Errorf("send quote subscription: %w", err)
		}
		s.logger.Info("quote subscription sent", "symbols", len(symbols))
	}

	s.wg.Add(1)
	go s.forwardLoop(runCtx)

	return nil
}

// Subscribe replaces the QUOTE subscription with the given symbols.
func (s *Session) Subscribe(symbols []string) error {
	return s.send(s.details.QuoteSubscription(s.nextRequestID(), symbols))
}

// Stop logs out and closes the connection.
func (s *Session) Stop(ctx context.Context) error {
	if s.client != nil && s.client.IsConnected() {
		// Best effort; the server closes the socket after logout.
		s.send(s.details.LogoutRequest(s.nextRequestID()))
	}

	if s.cancel != nil {
		s.cancel()
	}

	var err error
	if s.client != nil {
		err = s.client.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	close(s.out)
	s.logger.Info("streamer session stopped")
	return err
}

// send marshals and writes a single-request envelope.
func (s *Session) send(req Request) error {
	data, err := json.Marshal(RequestEnvelope{Requests: []Request{req}})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return s.client.Send(data)
}

// awaitResponse waits for the acknowledgement of the given request ID.
// Data frames arriving before the acknowledgement are forwarded.
func (s *Session) awaitResponse(ctx context.Context, requestID int) error {
	want := strconv.Itoa(requestID)
	timeout := time.NewTimer(10 * time.Second)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return ErrLoginTimeout
		case err := <-s.client.Errors():
			return fmt.Errorf("streamer connection: %w", err)
		case msg, ok := <-s.client.Messages():
			if !ok {
				return ErrNotConnected
			}

			var frame Frame
			if err := json.Unmarshal(msg.Data, &frame); err != nil {
				s.logger.Warn("failed to parse streamer frame", "error", err)
				continue
			}

			for _, resp := range frame.Response {
				if resp.RequestID != want {
					continue
				}
				if resp.Content.Code != 0 {
					return fmt.Errorf("%w: code %d: %s", ErrLoginRejected, resp.Content.Code, resp.Content.Msg)
				}
				return nil
			}

			if len(frame.Data) > 0 {
				select {
				case s.out <- msg:
				default:
					s.logger.Warn("session buffer full, dropping frame")
				}
			}
		}
	}
}

// forwardLoop passes frames from the connection to the output channel.
func (s *Session) forwardLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-s.client.Errors():
			if !ok {
				return
			}
			s.logger.Error("streamer connection error", "error", err)
			return
		case msg, ok := <-s.client.Messages():
			if !ok {
				return
			}
			select {
			case s.out <- msg:
			case <-ctx.Done():
				return
			default:
				s.logger.Warn("session buffer full, dropping frame")
			}
		}
	}
}

// nextRequestID returns a monotonically increasing request ID.
func (s *Session) nextRequestID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.requestID
	s.requestID++
	return id
}
