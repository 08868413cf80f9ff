package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// fetches the platform profile linked to an identity-provider subject.
// only a 200 reply counts as success.
func (c *Client) LookupUser(ctx context.Context, subject string) (*UserRecord, error) {
	path := "/user/tcid/" + url.PathEscape(subject)

	resp, err := c.Get(ctx, path, "", "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Method: http.MethodGet, Path: path, Status: resp.StatusCode, Body: resp.Body}
	}

	if len(resp.Body) == 0 {
		return nil, fmt.Errorf("upstream user lookup returned an empty body")
	}

	var payload userRecordPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %w", err)
	}

	uid, err := decodeUID(payload.UID)
	if err != nil {
		return nil, err
	}

	return &UserRecord{
		UID:    uid,
		Handle: payload.Handle,
	}, nil
}

// uid arrives either as a JSON string or a JSON number
func decodeUID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("user record has no uid")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("failed to decode uid: %w", err)
		}

		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("failed to decode uid: %w", err)
	}

	return n.String(), nil
}
