package domain

// ConversationState selects which handler consumes the next inbound text
// from a user. The zero value is Idle.
type ConversationState int

const (
	StateIdle ConversationState = iota
	StateAwaitingCity
	StateAwaitingBroadcast
	StateAwaitingRouteStart
	StateAwaitingRouteEnd
	StateAwaitingNotifyTime
)

func (s ConversationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCity:
		return "awaiting_city"
	case StateAwaitingBroadcast:
		return "awaiting_broadcast"
	case StateAwaitingRouteStart:
		return "awaiting_route_start"
	case StateAwaitingRouteEnd:
		return "awaiting_route_end"
	case StateAwaitingNotifyTime:
		return "awaiting_notify_time"
	default:
		return "unknown"
	}
}
