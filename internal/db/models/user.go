package models

import (
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type UserRole string

const (
	UserRoleProponent UserRole = "proponent"
	UserRoleEvaluator UserRole = "evaluator"
	UserRoleAdmin     UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) CapitalizedString() string {
	return cases.Title(language.English).String(r.String())
}

func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case UserRoleProponent, UserRoleEvaluator, UserRoleAdmin:
		return UserRole(raw), true
	default:
		return "", false
	}
}

// Actor is an already authenticated identity acting on the engine.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role UserRole  `json:"role"`
}

// SystemActor is used by scheduled jobs. It is recorded in ledgers as a null actor.
var SystemActor = Actor{ID: uuid.Nil, Role: UserRoleAdmin}

func (a Actor) IsSystem() bool {
	return a.ID == uuid.Nil
}

// LedgerActorID returns nil for the system actor.
func (a Actor) LedgerActorID() *uuid.UUID {
	if a.IsSystem() {
		return nil
	}
	id := a.ID
	return &id
}
