package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const EntryTypeJournal = "journal"

type IDKind int

const (
	// Speculative identities are assigned locally before the server confirms a create.
	Speculative IDKind = iota + 1
	// Confirmed identities carry the server-assigned numeric id.
	Confirmed
)

// EntryID identifies a journal entry. Exactly one of Local (Speculative) or
// Server (Confirmed) is meaningful, selected by Kind.
type EntryID struct {
	Kind      IDKind
	Local     int64
	Namespace string
	Server    int64
}

func SpeculativeID(local int64) EntryID {
	return EntryID{Kind: Speculative, Local: local}
}

func ConfirmedID(namespace string, server int64) EntryID {
	return EntryID{Kind: Confirmed, Namespace: namespace, Server: server}
}

func (id EntryID) IsSpeculative() bool { return id.Kind == Speculative }
func (id EntryID) IsConfirmed() bool   { return id.Kind == Confirmed }

func (id EntryID) String() string {
	switch id.Kind {
	case Speculative:
		return fmt.Sprintf("tmp-%d", id.Local)
	case Confirmed:
		if id.Namespace != "" {
			return fmt.Sprintf("%s_%d", id.Namespace, id.Server)
		}
		return strconv.FormatInt(id.Server, 10)
	default:
		return "invalid"
	}
}

// ParseWireID converts the backend's "id" field, which is either a bare number
// or a compound "<namespace>_<n>" string, into a confirmed identity.
func ParseWireID(raw string) (EntryID, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ConfirmedID("", n), nil
	}
	idx := strings.LastIndex(raw, "_")
	if idx <= 0 || idx == len(raw)-1 {
		return EntryID{}, fmt.Errorf("unrecognized entry id %q", raw)
	}
	n, err := strconv.ParseInt(raw[idx+1:], 10, 64)
	if err != nil {
		return EntryID{}, fmt.Errorf("unrecognized entry id %q: %w", raw, err)
	}
	return ConfirmedID(raw[:idx], n), nil
}

// JournalEntry is a free-form journal record as shown to the user.
type JournalEntry struct {
	ID           EntryID
	Type         string
	Content      string
	Timestamp    time.Time
	Summary      string
	Advice       string
	IsOptimistic bool
}

type journalWire struct {
	ID        json.RawMessage `json:"id"`
	DBID      *int64          `json:"db_id"`
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Summary   *string         `json:"summary"`
	Advice    *string         `json:"advice"`
	Timestamp string          `json:"timestamp"`
}

// UnmarshalJSON decodes a backend history item. db_id wins over id when present.
func (e *JournalEntry) UnmarshalJSON(data []byte) error {
	var w journalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeWireID(w.ID, w.DBID)
	if err != nil {
		return err
	}

	*e = JournalEntry{
		ID:      id,
		Type:    w.Type,
		Content: w.Content,
	}
	if w.Summary != nil {
		e.Summary = *w.Summary
	}
	if w.Advice != nil {
		e.Advice = *w.Advice
	}
	if w.Timestamp != "" {
		ts, err := ParseTimestamp(w.Timestamp)
		if err != nil {
			return err
		}
		e.Timestamp = ts
	}
	return nil
}

func decodeWireID(raw json.RawMessage, dbID *int64) (EntryID, error) {
	var namespace string
	var fallback *EntryID

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var s string
		if raw[0] == '"' {
			if err := json.Unmarshal(raw, &s); err != nil {
				return EntryID{}, fmt.Errorf("decoding entry id: %w", err)
			}
		} else {
			s = string(raw)
		}
		id, err := ParseWireID(s)
		if err != nil && dbID == nil {
			return EntryID{}, err
		}
		if err == nil {
			namespace = id.Namespace
			fallback = &id
		}
	}

	if dbID != nil {
		return ConfirmedID(namespace, *dbID), nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return EntryID{}, fmt.Errorf("journal entry has no id")
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and the offset-less ISO forms the backend emits.
// Offset-less values are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// NewJournalEntryRequest is the POST /journal/ body.
type NewJournalEntryRequest struct {
	Content string `json:"content"`
}
