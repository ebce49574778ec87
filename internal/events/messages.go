package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which mutation happened to a lancamento.
type Kind string

const (
	LancamentoCreated Kind = "lancamento.created"
	LancamentoUpdated Kind = "lancamento.updated"
	LancamentoPaid    Kind = "lancamento.paid"
	LancamentoDeleted Kind = "lancamento.deleted"
)

// LancamentoEvent is the lightweight message published after a
// confirmed mutation. Consumers fetch the full record themselves; the
// message only carries identity and ordering information.
type LancamentoEvent struct {
	EventID      string    `json:"event_id"`
	Kind         Kind      `json:"kind"`
	LancamentoID string    `json:"lancamento_id"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewLancamentoEvent(kind Kind, lancamentoID string) *LancamentoEvent {
	return &LancamentoEvent{
		EventID:      uuid.NewString(),
		Kind:         kind,
		LancamentoID: lancamentoID,
		Timestamp:    time.Now(),
	}
}

func (m *LancamentoEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LancamentoEventFromJSON(data []byte) (*LancamentoEvent, error) {
	var msg LancamentoEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
