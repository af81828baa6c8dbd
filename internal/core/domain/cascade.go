package domain

import (
	"errors"
	"time"
)

// CascadeAction is a state transition propagated to the wallet service.
type CascadeAction string

const (
	CascadeBlacklist CascadeAction = "blacklist"
	CascadeUnblock   CascadeAction = "unblock"
	CascadeDelete    CascadeAction = "delete"
	// CascadeProvision is used by the wallet provisioner, not by admin actions.
	CascadeProvision CascadeAction = "provision"
)

// OutcomeStatus is the result of a single propagation attempt.
type OutcomeStatus string

const (
	OutcomeOK            OutcomeStatus = "ok"
	OutcomeRemoteFailure OutcomeStatus = "remote_failure"
)

// CascadeOutcome reports whether the remote wallet service accepted a
// propagated transition. A RemoteFailure never undoes the local change.
type CascadeOutcome struct {
	Action CascadeAction `json:"action"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func (o CascadeOutcome) OK() bool { return o.Status == OutcomeOK }

// CascadeFailure is an unresolved propagation failure kept for operators.
type CascadeFailure struct {
	UserID     int64         `json:"user_id"`
	Action     CascadeAction `json:"action"`
	Reason     string        `json:"reason"`
	OccurredAt time.Time     `json:"occurred_at"`
}

var ErrWalletUnavailable = errors.New("wallet service is currently unavailable")
