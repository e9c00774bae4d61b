package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle      State = "idle"
	StateCapturing State = "capturing"
	StateSubmitted State = "submitted"
	StateResult    State = "result"
	StateFailed    State = "failed"
)

const (
	EventStart   Event = "start"
	EventSubmit  Event = "submit"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

// Transition applies one event to the analysis lifecycle. The cycle is
// perpetual: result and failed both accept a fresh start.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateCapturing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCapturing:
		switch event {
		case EventSubmit:
			return StateSubmitted, nil
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSubmitted:
		switch event {
		case EventSucceed:
			return StateResult, nil
		case EventFail:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateResult, StateFailed:
		switch event {
		case EventStart:
			return StateCapturing, nil
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
