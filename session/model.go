package session

// Snapshot is the identity copied from an account when its token was issued.
// It is not kept in sync with later account edits.
type Snapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
