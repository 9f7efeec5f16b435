// Package events formats and delivers structured mint events.
//
// An event is a JSON envelope {standard, version, event, data}. Its log form
// is the JSON text prefixed with "EVENT_JSON:".
package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/token"
)

const (
	// Prefix starts every event log line.
	Prefix = "EVENT_JSON:"

	// Standard is the token standard name carried by every event.
	Standard = "nep171"
	// Version is the standard version.
	Version = "1.0.0"

	// KindMint names the mint event.
	KindMint = "nft_mint"
)

// Event is the envelope.
type Event struct {
	Standard string          `json:"standard"`
	Version  string          `json:"version"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// MintData is one entry of a mint event's data array.
type MintData struct {
	OwnerID  account.ID `json:"owner_id"`
	TokenIDs []string   `json:"token_ids"`
	Memo     *string    `json:"memo"`
}

// NewMint builds the mint event for owner and ids.
func NewMint(owner account.ID, ids ...token.ID) Event {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	// Marshalling a slice of plain structs cannot fail.
	data, _ := json.Marshal([]MintData{{OwnerID: owner, TokenIDs: strIDs}})
	return Event{Standard: Standard, Version: Version, Event: KindMint, Data: data}
}

// JSON returns the envelope as JSON.
func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// String returns the log form.
func (e Event) String() string {
	b, err := e.JSON()
	if err != nil {
		return Prefix + "{}"
	}
	return Prefix + string(b)
}

// MintData decodes the data array of a mint event.
func (e Event) MintData() ([]MintData, error) {
	if e.Event != KindMint {
		return nil, fmt.Errorf("events: %q is not a mint event", e.Event)
	}
	var out []MintData
	if err := json.Unmarshal(e.Data, &out); err != nil {
		return nil, fmt.Errorf("events: decode mint data: %w", err)
	}
	return out, nil
}

// Parse reads the log form produced by String.
func Parse(line string) (Event, error) {
	rest, ok := strings.CutPrefix(line, Prefix)
	if !ok {
		return Event{}, ErrMissingPrefix
	}
	var e Event
	if err := json.Unmarshal([]byte(rest), &e); err != nil {
		return Event{}, fmt.Errorf("events: decode envelope: %w", err)
	}
	return e, nil
}
