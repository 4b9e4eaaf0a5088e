package realtime

import (
	"encoding/json"
	"fmt"
)

// frame is the phoenix-style envelope the realtime service speaks.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

const (
	eventJoin      = "phx_join"
	eventReply     = "phx_reply"
	eventError     = "phx_error"
	eventClose     = "phx_close"
	eventHeartbeat = "heartbeat"
	eventChanges   = "postgres_changes"
	eventSystem    = "system"

	heartbeatTopic = "phoenix"
)

// joinConfig declares the server-side row filter for the subscription:
// all change kinds on one table, scoped to rows owned by one user.
type joinConfig struct {
	Config struct {
		PostgresChanges []postgresChange `json:"postgres_changes"`
	} `json:"config"`
}

type postgresChange struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Filter string `json:"filter"`
}

func joinFrame(topic, table, ownerColumn, owner, ref string) (*frame, error) {
	var cfg joinConfig
	cfg.Config.PostgresChanges = []postgresChange{{
		Event:  "*",
		Schema: "public",
		Table:  table,
		Filter: fmt.Sprintf("%s=eq.%s", ownerColumn, owner),
	}}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal join config: %w", err)
	}
	return &frame{
		Topic:   topic,
		Event:   eventJoin,
		Payload: payload,
		Ref:     ref,
	}, nil
}

func heartbeatFrame(ref string) *frame {
	return &frame{
		Topic:   heartbeatTopic,
		Event:   eventHeartbeat,
		Payload: json.RawMessage(`{}`),
		Ref:     ref,
	}
}

// changePayload is the body of a postgres_changes data frame.
type changePayload struct {
	Data changeData `json:"data"`
}

type changeData struct {
	Type      string         `json:"type"`
	Record    map[string]any `json:"record"`
	OldRecord map[string]any `json:"old_record"`
}

type replyPayload struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}
