package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
)

type ProponentKind string

const (
	ProponentKindIndividual   ProponentKind = "individual"
	ProponentKindOrganization ProponentKind = "organization"
)

// Proponent is either an IndividualProponent or an OrganizationProponent.
type Proponent interface {
	Kind() ProponentKind
	// Key identifies the bidder for the one-proposal-per-bidder rule.
	Key() string
	DisplayName() string
	isProponent()
}

type IndividualProponent struct {
	UserID uuid.UUID `json:"user_id" yaml:"user_id"`
	Name   string    `json:"name" yaml:"name"`
}

type OrganizationProponent struct {
	OrganizationID uuid.UUID `json:"organization_id" yaml:"organization_id"`
	LegalName      string    `json:"legal_name" yaml:"legal_name"`
}

func (IndividualProponent) Kind() ProponentKind { return ProponentKindIndividual }

func (p IndividualProponent) Key() string { return "individual:" + p.UserID.String() }

func (p IndividualProponent) DisplayName() string { return p.Name }

func (IndividualProponent) isProponent() {}

func (OrganizationProponent) Kind() ProponentKind { return ProponentKindOrganization }

func (p OrganizationProponent) Key() string { return "organization:" + p.OrganizationID.String() }

func (p OrganizationProponent) DisplayName() string { return p.LegalName }

func (OrganizationProponent) isProponent() {}

// ProponentValue carries a Proponent through JSON and jsonb columns as a tagged object.
type ProponentValue struct {
	Proponent
}

type taggedProponent struct {
	Kind         ProponentKind          `json:"kind"`
	Individual   *IndividualProponent   `json:"individual,omitempty"`
	Organization *OrganizationProponent `json:"organization,omitempty"`
}

func (v ProponentValue) MarshalJSON() ([]byte, error) {
	switch p := v.Proponent.(type) {
	case IndividualProponent:
		return json.Marshal(taggedProponent{Kind: p.Kind(), Individual: &p})
	case OrganizationProponent:
		return json.Marshal(taggedProponent{Kind: p.Kind(), Organization: &p})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unsupported proponent %T", p)
	}
}

func (v *ProponentValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Proponent = nil
		return nil
	}

	var tagged taggedProponent
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}

	switch tagged.Kind {
	case ProponentKindIndividual:
		if tagged.Individual == nil {
			return errors.New("individual proponent without payload")
		}
		v.Proponent = *tagged.Individual
	case ProponentKindOrganization:
		if tagged.Organization == nil {
			return errors.New("organization proponent without payload")
		}
		v.Proponent = *tagged.Organization
	default:
		return fmt.Errorf("unknown proponent kind %q", tagged.Kind)
	}
	return nil
}
