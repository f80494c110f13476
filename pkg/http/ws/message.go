package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType constants for the quiz WebSocket protocol.
const (
	// Client -> Server
	TypeGetRandomQuiz = "get_random_quiz"
	TypeSubmitAnswers = "submit_answers"

	// Server -> Client
	TypeQuizData     = "quiz_data"
	TypeSubmitResult = "submit_result"
	TypeError        = "error"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into an envelope.
func NewMessage(msgType, requestID string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: raw, RequestID: requestID}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

// Client Messages (outgoing)

type GetRandomQuizPayload struct {
	Count int `json:"count"`
}

type SubmitAnswersPayload struct {
	Answers        map[string][]string `json:"answers"`
	TotalQuestions int                 `json:"totalQuestions"`
}

// Server Messages (incoming)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
