package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
	apierrors "github.com/gokatarajesh/quiz-desk/pkg/http/errors"
	"github.com/gokatarajesh/quiz-desk/pkg/http/ws"
)

var (
	// ErrConnectionLost means the socket dropped before the reply arrived.
	ErrConnectionLost = errors.New("backend connection lost")
	// ErrClientClosed is returned after Close.
	ErrClientClosed = errors.New("backend client closed")
)

// WSClient multiplexes requests over one lazily dialed WebSocket. Replies are
// matched to requests by request_id. A broken connection is dropped and
// redialed on the next call.
type WSClient struct {
	url     string
	apiKey  string
	timeout time.Duration
	dialer  *websocket.Dialer
	logger  zerolog.Logger

	mu      sync.Mutex
	conn    *ws.Conn
	pending map[string]pendingCall
	closed  bool
}

// pendingCall is a request waiting for its reply on a specific connection.
type pendingCall struct {
	conn  *ws.Conn
	reply chan ws.Message
}

var _ Client = (*WSClient)(nil)

func NewWSClient(cfg Config, dialer *websocket.Dialer, logger zerolog.Logger) *WSClient {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &WSClient{
		url:     cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		dialer:  dialer,
		logger:  logger.With().Str("component", "backend_ws").Logger(),
		pending: make(map[string]pendingCall),
	}
}

// GetRandomQuizData fetches count questions.
func (c *WSClient) GetRandomQuizData(ctx context.Context, count int) (quiz.Quiz, error) {
	reply, err := c.call(ctx, ws.TypeGetRandomQuiz, ws.GetRandomQuizPayload{Count: count}, ws.TypeQuizData)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("fetch quiz: %w", err)
	}
	var q quiz.Quiz
	if err := reply.Decode(&q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("fetch quiz: %w", err)
	}
	return checkQuiz(q)
}

// SubmitAnswers sends the answer map for scoring.
func (c *WSClient) SubmitAnswers(ctx context.Context, answers quiz.AnswerMap, totalQuestions int) (quiz.ScoringResult, error) {
	payload := ws.SubmitAnswersPayload{Answers: nonNil(answers), TotalQuestions: totalQuestions}
	reply, err := c.call(ctx, ws.TypeSubmitAnswers, payload, ws.TypeSubmitResult)
	if err != nil {
		return quiz.ScoringResult{}, fmt.Errorf("submit answers: %w", err)
	}
	var res quiz.ScoringResult
	if err := reply.Decode(&res); err != nil {
		return quiz.ScoringResult{}, fmt.Errorf("submit answers: %w", err)
	}
	return res, nil
}

// Close drops the connection; later calls fail with ErrClientClosed.
func (c *WSClient) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	return nil
}

func (c *WSClient) call(ctx context.Context, msgType string, payload any, replyType string) (ws.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.connect(ctx)
	if err != nil {
		return ws.Message{}, err
	}

	requestID := uuid.NewString()
	msg, err := ws.NewMessage(msgType, requestID, payload)
	if err != nil {
		return ws.Message{}, err
	}

	replyCh := make(chan ws.Message, 1)
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return ws.Message{}, ErrConnectionLost
	}
	c.pending[requestID] = pendingCall{conn: conn, reply: replyCh}
	c.mu.Unlock()

	if err := conn.Send(msg); err != nil {
		c.forget(requestID)
		c.drop(conn)
		return ws.Message{}, fmt.Errorf("send %s: %w", msgType, err)
	}

	select {
	case reply, ok := <-replyCh:
		if !ok {
			return ws.Message{}, ErrConnectionLost
		}
		return expectReply(reply, replyType)
	case <-ctx.Done():
		c.forget(requestID)
		return ws.Message{}, ctx.Err()
	}
}

func expectReply(reply ws.Message, replyType string) (ws.Message, error) {
	switch reply.Type {
	case replyType:
		return reply, nil
	case ws.TypeError:
		var payload ws.ErrorPayload
		if err := reply.Decode(&payload); err != nil {
			return ws.Message{}, err
		}
		return ws.Message{}, &apierrors.APIError{Code: payload.Code, Message: payload.Message}
	default:
		return ws.Message{}, fmt.Errorf("%s: unexpected reply %q", apierrors.ErrCodeUnknownMessageType, reply.Type)
	}
}

func (c *WSClient) connect(ctx context.Context) (*ws.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClientClosed
	}
	if c.conn != nil {
		return c.conn, nil
	}

	header := http.Header{}
	if c.apiKey != "" {
		header.Set(apiKeyHeader, c.apiKey)
	}
	raw, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("dial backend: %w", err)
	}

	conn := ws.NewConn(raw, c.logger)
	c.conn = conn
	go c.readLoop(conn)
	go conn.KeepAlive()

	c.logger.Debug().Str("url", c.url).Msg("backend connected")
	return conn, nil
}

func (c *WSClient) readLoop(conn *ws.Conn) {
	err := conn.ReadPump(c.dispatch)

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	var orphaned []chan ws.Message
	for id, p := range c.pending {
		if p.conn == conn {
			orphaned = append(orphaned, p.reply)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	conn.Close()
	for _, ch := range orphaned {
		close(ch)
	}
	c.logger.Debug().Err(err).Int("orphaned", len(orphaned)).Msg("backend connection ended")
}

func (c *WSClient) dispatch(msg ws.Message) {
	c.mu.Lock()
	p, ok := c.pending[msg.RequestID]
	if ok {
		delete(c.pending, msg.RequestID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Debug().Str("type", msg.Type).Str("request_id", msg.RequestID).Msg("unmatched reply")
		return
	}
	p.reply <- msg
}

func (c *WSClient) forget(requestID string) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}

func (c *WSClient) drop(conn *ws.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}
