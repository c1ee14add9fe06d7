// Package lifecycle turns host activity changes into Active/Suspended events.
package lifecycle

// Event is a host lifecycle transition.
type Event int

const (
	Active Event = iota + 1
	Suspended
)

func (e Event) String() string {
	switch e {
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}
