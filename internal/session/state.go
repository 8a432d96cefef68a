package session

import "github.com/naveenspark/museum/pkg/domain"

// Reason says why a State was produced.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLogin
	ReasonRestored
	ReasonLogout
	ReasonExpired
	ReasonRejected
)

func (r Reason) String() string {
	switch r {
	case ReasonLogin:
		return "login"
	case ReasonRestored:
		return "restored"
	case ReasonLogout:
		return "logout"
	case ReasonExpired:
		return "expired"
	case ReasonRejected:
		return "rejected"
	default:
		return "none"
	}
}

// State is a snapshot of the session delivered to subscribers.
type State struct {
	Authenticated bool
	Admin         bool
	User          *domain.User // copy; nil when Unauthenticated
	Reason        Reason
	// Cause is ErrSessionExpired when the session ended without the user
	// asking for it.
	Cause error
	// Seq increases with every snapshot; subscribers receiving states from
	// several goroutines can drop older ones.
	Seq uint64
}

// Ended reports whether the state marks an involuntary end of session.
func (s State) Ended() bool {
	return !s.Authenticated && (s.Reason == ReasonExpired || s.Reason == ReasonRejected)
}
