package domain

import "strings"

// Action is a discrete console selection delivered by the transport.
type Action string

// Console actions. ActionNone marks a free-text interaction.
const (
	ActionNone       Action = ""
	ActionOpenAdd    Action = "open-add"
	ActionOpenRemove Action = "open-remove"
	ActionList       Action = "list"
	ActionStats      Action = "stats"
	ActionBack       Action = "back"
	ActionClose      Action = "close"
)

// Valid reports whether a is one of the known console actions.
func (a Action) Valid() bool {
	switch a {
	case ActionOpenAdd, ActionOpenRemove, ActionList, ActionStats, ActionBack, ActionClose:
		return true
	}
	return false
}

// Interaction is one normalized inbound event. Exactly one of Text or Action
// is meaningful; Action takes precedence when both are set.
type Interaction struct {
	PrincipalID  int64   `json:"principal_id"            binding:"required,gt=0" example:"42"`
	Handle       *string `json:"handle,omitempty"        example:"joe"`
	DisplayName  *string `json:"display_name,omitempty"  example:"Joe"`
	LanguageCode string  `json:"language_code,omitempty" example:"en"`
	Text         string  `json:"text,omitempty"          example:"/start"`
	Action       Action  `json:"action,omitempty"        example:"open-add"`
}

// Command returns the bot command carried in Text ("start" for "/start" or
// "/start@my_bot payload"), or "" when Text is not a command.
func (in Interaction) Command() string {
	t := strings.TrimSpace(in.Text)
	if !strings.HasPrefix(t, "/") {
		return ""
	}
	t = strings.TrimPrefix(t, "/")
	if i := strings.IndexAny(t, " \t\n"); i >= 0 {
		t = t[:i]
	}
	if i := strings.IndexByte(t, '@'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(t)
}

// PendingAction is the state of an admin's mutation session.
type PendingAction int

const (
	// PendingNone is the Idle state.
	PendingNone PendingAction = iota
	// PendingAdd awaits the target of a grant.
	PendingAdd
	// PendingRemove awaits the target of a revoke.
	PendingRemove
)

func (p PendingAction) String() string {
	switch p {
	case PendingAdd:
		return "add"
	case PendingRemove:
		return "remove"
	default:
		return "none"
	}
}
