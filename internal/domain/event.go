package domain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultPlatform is used when no platform is supplied.
const DefaultPlatform = "other"

// Event is a single diagnostic record sent to the ingestion endpoint.
type Event struct {
	ID          EventID     `json:"event_id"`
	Level       Level       `json:"level,omitempty"`
	Release     string      `json:"release,omitempty"`
	Dist        string      `json:"dist,omitempty"`
	Environment string      `json:"environment,omitempty"`
	Platform    string      `json:"platform,omitempty"`
	LogEntry    *LogEntry   `json:"logentry,omitempty"`
	Timestamp   *Timestamp  `json:"timestamp,omitempty"`
	Tags        Tags        `json:"tags,omitempty"`
	Extra       Extra       `json:"extra,omitempty"`
	User        *User       `json:"user,omitempty"`
	Fingerprint []string    `json:"fingerprint,omitempty"`
	Breadcrumbs Breadcrumbs `json:"breadcrumbs,omitempty"`
	Sdk         *SdkInfo    `json:"sdk,omitempty"`
}

// Tags maps tag keys to values. Keys are unique; the last write wins.
type Tags map[string]string

// Extra holds arbitrary JSON values keyed by name.
type Extra map[string]any

// LogEntry is a message template with positional parameters.
type LogEntry struct {
	Message string   `json:"message"`
	Params  []string `json:"params,omitempty"`
}

// SdkInfo identifies the client that produced the event.
type SdkInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// EventID is the dispatch identifier of an event. It is encoded as 32
// lowercase hex characters.
type EventID uuid.UUID

// NewEventID returns a random identifier.
func NewEventID() EventID { return EventID(uuid.New()) }

// IsZero reports whether the identifier was never assigned.
func (id EventID) IsZero() bool { return id == EventID(uuid.Nil) }

func (id EventID) String() string { return hex.EncodeToString(id[:]) }

func (id EventID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText accepts both the dashed and the compact form.
func (id *EventID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = EventID(uuid.Nil)
		return nil
	}
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid event_id %q: %w", text, err)
	}
	*id = EventID(u)
	return nil
}

// Timestamp is a point in time encoded as RFC 3339. Unix seconds, integer or
// fractional, are accepted when decoding.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t in UTC.
func NewTimestamp(t time.Time) *Timestamp { return &Timestamp{Time: t.UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts an RFC 3339 string or fractional Unix seconds.
// A JSON null leaves the value unchanged.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}
	secs, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	whole := int64(secs)
	t.Time = time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()
	return nil
}

// Breadcrumb is one trace line attached to an event.
type Breadcrumb struct {
	Timestamp Timestamp `json:"timestamp"`
	Level     Level     `json:"level,omitempty"`
	Category  string    `json:"category,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Breadcrumbs encodes as {"values": [...]} and decodes from that form or a
// bare array.
type Breadcrumbs []Breadcrumb

func (b Breadcrumbs) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Values []Breadcrumb `json:"values"`
	}{Values: b})
}

func (b *Breadcrumbs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var values []Breadcrumb
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*b = values
		return nil
	}
	var wrapped struct {
		Values []Breadcrumb `json:"values"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*b = wrapped.Values
	return nil
}

// User describes the user affected by an event. Other holds free-form
// attributes and is flattened into the encoded object.
type User struct {
	ID        string
	Email     string
	Username  string
	IPAddress *IPAddress
	Other     map[string]string
}

var userFields = map[string]struct{}{
	"id": {}, "email": {}, "username": {}, "ip_address": {},
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Other)+4)
	for k, v := range u.Other {
		out[k] = v
	}
	if u.ID != "" {
		out["id"] = u.ID
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	if u.Username != "" {
		out["username"] = u.Username
	}
	if u.IPAddress != nil {
		out["ip_address"] = u.IPAddress
	}
	return json.Marshal(out)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var known struct {
		ID        string     `json:"id"`
		Email     string     `json:"email"`
		Username  string     `json:"username"`
		IPAddress *IPAddress `json:"ip_address"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*u = User{ID: known.ID, Email: known.Email, Username: known.Username, IPAddress: known.IPAddress}
	for k, raw := range all {
		if _, ok := userFields[k]; ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("user attribute %q must be a string: %w", k, err)
		}
		if u.Other == nil {
			u.Other = make(map[string]string)
		}
		u.Other[k] = s
	}
	return nil
}

// autoIPAddress asks the ingestion endpoint to infer the address.
const autoIPAddress = "{{auto}}"

// IPAddress is a user IP address. The zero value is the unspecified address.
type IPAddress struct {
	addr netip.Addr
}

// UnspecifiedIPAddress returns 0.0.0.0.
func UnspecifiedIPAddress() *IPAddress {
	return &IPAddress{addr: netip.IPv4Unspecified()}
}

// ParseIPAddress parses an IPv4 or IPv6 address.
func ParseIPAddress(s string) (*IPAddress, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	return &IPAddress{addr: addr}, nil
}

func (ip IPAddress) String() string {
	if !ip.addr.IsValid() {
		return netip.IPv4Unspecified().String()
	}
	return ip.addr.String()
}

func (ip IPAddress) MarshalText() ([]byte, error) { return []byte(ip.String()), nil }

func (ip *IPAddress) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" || s == autoIPAddress {
		ip.addr = netip.IPv4Unspecified()
		return nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return err
	}
	ip.addr = addr
	return nil
}
