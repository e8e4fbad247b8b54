package model

// Actor is the authenticated identity injected by the auth boundary. User
// accounts themselves live in an external service; the core only needs the
// id and the authoring capability.
type Actor struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	CanAuthor bool   `json:"can_author"`
}
