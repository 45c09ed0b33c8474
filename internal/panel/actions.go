package panel

import "clump-cli/internal/model"

// ActionState is the one set of actions the panel offers for an event.
type ActionState int

const (
	ActionLogin ActionState = iota
	ActionManage
	ActionLeave
	ActionPassed
	ActionFull
	ActionJoin
)

var actionNames = map[ActionState]string{
	ActionLogin:  "login",
	ActionManage: "manage",
	ActionLeave:  "leave",
	ActionPassed: "passed",
	ActionFull:   "full",
	ActionJoin:   "join",
}

func (a ActionState) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Messages shown in place of buttons.
const (
	LoginPrompt   = "Log in to join this event."
	PassedMessage = "This event has passed!"
	FullMessage   = "This event is full"
)

// Button labels.
const (
	LabelJoin   = "Join Event"
	LabelLeave  = "Leave Event"
	LabelEdit   = "Edit Event"
	LabelDelete = "Delete Event"
)

// Actions picks the action state for ev. The checks run in priority order,
// so a creator who also appears as a participant manages the event.
func Actions(ev model.Event) ActionState {
	switch {
	case !ev.LoggedIn:
		return ActionLogin
	case ev.IsCreator:
		return ActionManage
	case ev.IsParticipant:
		return ActionLeave
	case ev.EventHasPassed:
		return ActionPassed
	case ev.Full():
		return ActionFull
	default:
		return ActionJoin
	}
}

// Buttons returns the button labels for a state; nil for message-only states.
func (a ActionState) Buttons() []string {
	switch a {
	case ActionManage:
		return []string{LabelEdit, LabelDelete}
	case ActionLeave:
		return []string{LabelLeave}
	case ActionJoin:
		return []string{LabelJoin}
	}
	return nil
}

// Message returns the status line for message-only states.
func (a ActionState) Message() string {
	switch a {
	case ActionLogin:
		return LoginPrompt
	case ActionPassed:
		return PassedMessage
	case ActionFull:
		return FullMessage
	}
	return ""
}
