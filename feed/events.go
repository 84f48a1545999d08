package feed

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
)

type EventType uint8

const (
	EventTypePointUpdate EventType = iota
	EventTypeEnrichmentComplete
	EventTypeHeartbeat
)

func (e EventType) Validate() error {
	if e != EventTypePointUpdate && e != EventTypeEnrichmentComplete && e != EventTypeHeartbeat {
		return fmt.Errorf("invalid event type: %d", e)
	}
	return nil
}

func (e EventType) String() string {
	switch e {
	case EventTypePointUpdate:
		return "PointUpdate"
	case EventTypeEnrichmentComplete:
		return "EnrichmentComplete"
	case EventTypeHeartbeat:
		return "Heartbeat"
	default:
		return "Unknown"
	}
}

type EventId struct {
	Type    EventType `json:"type"`
	RoundID uint64    `json:"round_id"`
}

func (e EventId) String() string {
	return fmt.Sprintf("%s-%d", e.Type.String(), e.RoundID)
}

// RelayEvent is the closed set of event shapes the relayer subscribes
// to. Events are decoded once at the boundary; the declared source is
// part of classification, not a separate authorization step.
type RelayEvent interface {
	String() string
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Type() EventType
	Source() Identity
	EventTime() time.Time
	Id() EventId
}

func UnmarshalRelayEvent(eventType EventType, data []byte) (RelayEvent, error) {
	var event RelayEvent

	switch eventType {
	case EventTypePointUpdate:
		event = &PointUpdate{}
	case EventTypeEnrichmentComplete:
		event = &EnrichmentComplete{}
	case EventTypeHeartbeat:
		event = &Heartbeat{}
	default:
		return nil, fmt.Errorf("invalid event type: %d", eventType)
	}
	if err := event.Unmarshal(data); err != nil {
		return nil, err
	}
	return event, nil
}

// PointUpdate is the upstream aggregator's notification that a round
// got a new answer. Only the round id is consumed by this system.
type PointUpdate struct {
	EventType string    `json:"event_type"`
	RoundID   uint64    `json:"round_id"`
	Answer    math.Int  `json:"answer"`
	From      Identity  `json:"from"`
	Time      time.Time `json:"time"`
}

var _ RelayEvent = &PointUpdate{}

func NewPointUpdate(roundID uint64, answer math.Int, from Identity, time time.Time) *PointUpdate {
	p := &PointUpdate{
		RoundID: roundID,
		Answer:  answer,
		From:    from,
		Time:    time,
	}
	p.EventType = p.Type().String()
	return p
}

func (p PointUpdate) Marshal() ([]byte, error) {
	return json.Marshal(&p)
}

func (p *PointUpdate) Unmarshal(data []byte) error {
	return json.Unmarshal(data, p)
}

func (p PointUpdate) String() string {
	return fmt.Sprintf("PointUpdate{RoundID: %d, Answer: %s, From: %s, Time: %s}", p.RoundID, p.Answer, p.From, p.Time)
}

func (p PointUpdate) Type() EventType {
	return EventTypePointUpdate
}

func (p PointUpdate) Source() Identity {
	return p.From
}

func (p PointUpdate) EventTime() time.Time {
	return p.Time
}

func (p PointUpdate) Id() EventId {
	return EventId{
		Type:    EventTypePointUpdate,
		RoundID: p.RoundID,
	}
}

// EnrichmentComplete is the origin gate's notification carrying the full
// validated round record together with its checksum.
type EnrichmentComplete struct {
	EventType string      `json:"event_type"`
	Record    RoundRecord `json:"record"`
	Checksum  []byte      `json:"checksum"`
	From      Identity    `json:"from"`
	Time      time.Time   `json:"time"`
}

var _ RelayEvent = &EnrichmentComplete{}

func NewEnrichmentComplete(record RoundRecord, checksum []byte, from Identity, time time.Time) *EnrichmentComplete {
	e := &EnrichmentComplete{
		Record:   record,
		Checksum: checksum,
		From:     from,
		Time:     time,
	}
	e.EventType = e.Type().String()
	return e
}

func (e EnrichmentComplete) Marshal() ([]byte, error) {
	return json.Marshal(&e)
}

func (e *EnrichmentComplete) Unmarshal(data []byte) error {
	return json.Unmarshal(data, e)
}

func (e EnrichmentComplete) String() string {
	return fmt.Sprintf("EnrichmentComplete{Record: %s, Checksum: %s, From: %s, Time: %s}",
		e.Record.String(), base64.RawStdEncoding.EncodeToString(e.Checksum), e.From, e.Time)
}

func (e EnrichmentComplete) Type() EventType {
	return EventTypeEnrichmentComplete
}

func (e EnrichmentComplete) Source() Identity {
	return e.From
}

func (e EnrichmentComplete) EventTime() time.Time {
	return e.Time
}

func (e EnrichmentComplete) Id() EventId {
	return EventId{
		Type:    EventTypeEnrichmentComplete,
		RoundID: e.Record.RoundID,
	}
}

// Heartbeat is the periodic, content-free fallback trigger.
type Heartbeat struct {
	EventType string    `json:"event_type"`
	Time      time.Time `json:"time"`
}

var _ RelayEvent = &Heartbeat{}

func NewHeartbeat(time time.Time) *Heartbeat {
	h := &Heartbeat{
		Time: time,
	}
	h.EventType = h.Type().String()
	return h
}

func (h Heartbeat) Marshal() ([]byte, error) {
	return json.Marshal(&h)
}

func (h *Heartbeat) Unmarshal(data []byte) error {
	return json.Unmarshal(data, h)
}

func (h Heartbeat) String() string {
	return fmt.Sprintf("Heartbeat{Time: %s}", h.Time)
}

func (h Heartbeat) Type() EventType {
	return EventTypeHeartbeat
}

func (h Heartbeat) Source() Identity {
	return ""
}

func (h Heartbeat) EventTime() time.Time {
	return h.Time
}

func (h Heartbeat) Id() EventId {
	return EventId{
		Type: EventTypeHeartbeat,
	}
}
