package model

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// RawMessage is one entry of an exported channel-day file.
// Every field is optional in the export.
type RawMessage struct {
	Type        string       `json:"type,omitempty"`
	Subtype     *string      `json:"subtype,omitempty"`
	User        string       `json:"user,omitempty"`
	BotID       string       `json:"bot_id,omitempty"`
	UserProfile *UserProfile `json:"user_profile,omitempty"`
	Text        *string      `json:"text,omitempty"`
	TS          Timestamp    `json:"ts,omitempty"`
}

// UserProfile carries the author's profile snapshot embedded in a message.
type UserProfile struct {
	RealName    string  `json:"real_name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Timestamp holds the textual epoch-seconds value of "ts".
// Exports normally write it as a string ("1700000000.123456") but some
// tools emit a bare JSON number; both decode to the same literal.
type Timestamp string

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = ""
		return nil
	}

	// Quoted form
	if data[0] == '"' {
		var str string
		if err := sonic.Unmarshal(data, &str); err != nil {
			return err
		}
		*ts = Timestamp(str)
		return nil
	}

	// Numeric form, kept verbatim
	if !isNumberLiteral(data) {
		return fmt.Errorf("ts must be a string or a number, got %s", string(data))
	}
	*ts = Timestamp(string(data))
	return nil
}

func isNumberLiteral(data []byte) bool {
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9':
		case b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E':
		default:
			return false
		}
	}
	return true
}

// SubtypeOrEmpty returns the subtype, or "" when the field is absent or null.
func (m RawMessage) SubtypeOrEmpty() string {
	if m.Subtype == nil {
		return ""
	}
	return *m.Subtype
}

// TextOrEmpty returns the text, or "" when the field is absent or null.
func (m RawMessage) TextOrEmpty() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}

// DisplayName returns the profile display name and whether it was present.
func (m RawMessage) DisplayName() (string, bool) {
	if m.UserProfile == nil || m.UserProfile.DisplayName == nil {
		return "", false
	}
	return *m.UserProfile.DisplayName, true
}
