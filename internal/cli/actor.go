package cli

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"procurement_evaluation_system/internal/db/models"
)

const (
	actorFlag = "actor"
	roleFlag  = "role"
)

// actorFrom reads the acting identity from the persistent --actor and --role flags.
// Authentication happens outside this tool; the flags are trusted as given.
func actorFrom(cmd *cobra.Command) (models.Actor, error) {
	rawID, _ := cmd.Flags().GetString(actorFlag)
	rawRole, _ := cmd.Flags().GetString(roleFlag)

	role, ok := models.ParseUserRole(rawRole)
	if !ok {
		return models.Actor{}, fmt.Errorf("invalid --role %q (valid: proponent, evaluator, admin)", rawRole)
	}
	if rawID == "" {
		return models.Actor{}, fmt.Errorf("--actor is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid --actor %q: %w", rawID, err)
	}
	if id == uuid.Nil {
		return models.Actor{}, fmt.Errorf("--actor may not be the nil id")
	}

	return models.Actor{ID: id, Role: role}, nil
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", what, raw, err)
	}
	return id, nil
}

func parseIDs(raw []string, what string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
