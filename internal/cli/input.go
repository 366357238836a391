package cli

import (
	"fmt"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"os"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
	"strings"
	"time"
)

type opportunityFile struct {
	Title            string                   `yaml:"title"`
	Kind             string                   `yaml:"kind"`
	PriceWeight      int                      `yaml:"price_weight"`
	ProposalDeadline string                   `yaml:"proposal_deadline"`
	Stages           []models.EvaluationStage `yaml:"stages"`
}

type proponentFile struct {
	Kind           string `yaml:"kind"`
	UserID         string `yaml:"user_id"`
	Name           string `yaml:"name"`
	OrganizationID string `yaml:"organization_id"`
	LegalName      string `yaml:"legal_name"`
}

type proposalFile struct {
	Price     float64       `yaml:"price"`
	Proponent proponentFile `yaml:"proponent"`
}

func LoadOpportunityInput(path string) (evaluation.OpportunityInput, error) {
	var file opportunityFile
	if err := readYAML(path, &file); err != nil {
		return evaluation.OpportunityInput{}, err
	}

	deadline, err := time.Parse(time.RFC3339, file.ProposalDeadline)
	if err != nil {
		return evaluation.OpportunityInput{}, fmt.Errorf("invalid proposal_deadline %q: %w", file.ProposalDeadline, err)
	}

	return evaluation.OpportunityInput{
		Title:            file.Title,
		Kind:             models.OpportunityKind(file.Kind),
		Stages:           file.Stages,
		PriceWeight:      file.PriceWeight,
		ProposalDeadline: deadline,
	}, nil
}

func LoadProposalInput(path string) (evaluation.ProposalInput, error) {
	var file proposalFile
	if err := readYAML(path, &file); err != nil {
		return evaluation.ProposalInput{}, err
	}

	proponent, err := file.Proponent.toModel()
	if err != nil {
		return evaluation.ProposalInput{}, err
	}

	return evaluation.ProposalInput{
		Proponent: models.ProponentValue{Proponent: proponent},
		Price:     file.Price,
	}, nil
}

func (f proponentFile) toModel() (models.Proponent, error) {
	switch models.ProponentKind(strings.TrimSpace(f.Kind)) {
	case models.ProponentKindIndividual:
		id, err := uuid.Parse(f.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid proponent user_id %q: %w", f.UserID, err)
		}
		return models.IndividualProponent{UserID: id, Name: f.Name}, nil
	case models.ProponentKindOrganization:
		id, err := uuid.Parse(f.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("invalid proponent organization_id %q: %w", f.OrganizationID, err)
		}
		return models.OrganizationProponent{OrganizationID: id, LegalName: f.LegalName}, nil
	default:
		return nil, fmt.Errorf("unknown proponent kind %q", f.Kind)
	}
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
