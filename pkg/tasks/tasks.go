// Package tasks defines the messages exchanged with Kafka: commands coming in and
// succession events going out.
package tasks

import (
	"errors"
	"time"

	"succession-go/internal/model"
)

// Command actions.
const (
	ActionRemove  = "remove"
	ActionRestore = "restore"
	ActionInsert  = "insert"
	ActionReload  = "reload"
)

// Event types.
const (
	EventMemberRemoved  = "member.removed"
	EventMemberRestored = "member.restored"
	EventMemberInserted = "member.inserted"
	EventRosterLoaded   = "roster.loaded"
)

// ErrPermanent marks a command failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent task failure")

// MemberCommand asks the service to change the hierarchy.
type MemberCommand struct {
	CommandID string        `json:"command_id"`
	Action    string        `json:"action"`
	MemberID  int64         `json:"member_id"`
	Member    *model.Member `json:"member,omitempty"`
}

// SuccessionEvent is published after every successful change.
type SuccessionEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	MemberID    int64     `json:"member_id,omitempty"`
	SuccessorID int64     `json:"successor_id,omitempty"`
	Promoted    bool      `json:"promoted,omitempty"`
	TeamIDs     []int64   `json:"team_ids,omitempty"`
	Redirected  []int64   `json:"redirected,omitempty"`
	Count       int       `json:"count,omitempty"`
	Source      string    `json:"source,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
