package session

import (
	"encoding/json"
	"errors"
)

// ErrSnapshotInvalid is returned by Decode for values that are not a usable snapshot.
var ErrSnapshotInvalid = errors.New("session snapshot invalid")

// Encode serializes a snapshot into the JSON stored under the session key.
func Encode(s *Snapshot) ([]byte, error) {
	if s == nil || s.ID == "" {
		return nil, ErrSnapshotInvalid
	}
	return json.Marshal(s)
}

// Decode parses a stored session value. Anything that does not decode into an
// object carrying a non-empty id is rejected.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrSnapshotInvalid
	}
	if s.ID == "" {
		return nil, ErrSnapshotInvalid
	}
	return &s, nil
}
