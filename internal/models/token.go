package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AccessToken is the confirmation token as it travels in request payloads.
// Browsers lose precision on 64-bit integers, so clients may send it either as
// a JSON number or as a numeric string.
type AccessToken int64

func (t *AccessToken) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parse(s)
	}
	return t.parse(string(data))
}

func (t AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(t), 10))
}

func (t *AccessToken) parse(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid token %q: %w", s, err)
	}
	*t = AccessToken(v)
	return nil
}

// ParseAccessToken parses a token taken from a query string or cookie.
func ParseAccessToken(s string) (AccessToken, error) {
	var t AccessToken
	err := t.parse(s)
	return t, err
}
