package core

// SessionID identifies one live transport session. A client that reconnects
// gets a new one, and it doubles as the id of the user record it owns.
type SessionID string
