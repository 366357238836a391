package cli

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"procurement_evaluation_system/internal/cli/render"
	"procurement_evaluation_system/internal/evaluation"
	"strconv"
)

func NewScoreCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "score <proposal-id> <stage> <raw-score>",
		Short: "Record a raw score for one stage of a proposal",
		Long: `Record a raw score for one stage of a proposal.

Stages are numbered from 1. Scores may be re-entered until the stage is finalized.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "proposal")
			if err != nil {
				return err
			}
			stage, err := strconv.Atoi(args[1])
			if err != nil || stage < 1 {
				return fmt.Errorf("invalid stage %q", args[1])
			}
			raw, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[2], err)
			}

			result, err := engine.RecordStageScore(cmd.Context(), id, stage-1, raw, actor)
			if err != nil {
				return err
			}

			pct := result.Percentage
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("stage %d scored %s%%", stage, evaluation.FormatScore(&pct))))
			return nil
		},
	}
}

func NewStageCmd(engine *evaluation.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Screen proposals and close the active stage",
	}

	cmd.AddCommand(newStageSuggestCmd(engine), newStageFinalizeCmd(engine))
	return cmd
}

func newStageSuggestCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <opportunity-id>",
		Short: "Suggest advance decisions from the stage minimum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			suggestions, err := engine.SuggestDecisions(cmd.Context(), id)
			if err != nil {
				return err
			}

			render.RenderSuggestions(cmd.OutOrStdout(), suggestions)
			return nil
		},
	}
}

func newStageFinalizeCmd(engine *evaluation.Engine) *cobra.Command {
	var (
		advance   []string
		screenOut []string
		suggested bool
	)

	cmd := &cobra.Command{
		Use:   "finalize <opportunity-id>",
		Short: "Finalize the active stage",
		Long: `Finalize the active stage. Every contender needs a decision, given with
--advance and --screen-out or taken from the stage minimum with --suggested.
Explicit decisions override suggestions.`,
		Example: `  evaluation stage finalize <opportunity-id> --suggested --screen-out <proposal-id>`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			decisions := make(map[uuid.UUID]bool)
			if suggested {
				if decisions, err = engine.SuggestDecisions(cmd.Context(), id); err != nil {
					return err
				}
			}
			if err := applyDecisions(decisions, advance, true); err != nil {
				return err
			}
			if err := applyDecisions(decisions, screenOut, false); err != nil {
				return err
			}

			changed, err := engine.FinalizeStage(cmd.Context(), id, decisions, actor)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("stage finalized for %d proposals", len(changed))))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&advance, "advance", nil, "Proposal IDs that advance")
	cmd.Flags().StringSliceVar(&screenOut, "screen-out", nil, "Proposal IDs that are screened out")
	cmd.Flags().BoolVar(&suggested, "suggested", false, "Start from the suggested decisions")
	return cmd
}

func applyDecisions(decisions map[uuid.UUID]bool, raw []string, advance bool) error {
	ids, err := parseIDs(raw, "proposal")
	if err != nil {
		return err
	}
	for _, id := range ids {
		decisions[id] = advance
	}
	return nil
}

func NewAwardCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "award <opportunity-id> <winning-proposal-id>",
		Short: "Award an opportunity after its final stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			opportunityID, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}
			winnerID, err := parseID(args[1], "proposal")
			if err != nil {
				return err
			}

			if _, err := engine.Award(cmd.Context(), opportunityID, winnerID, actor); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("opportunity %s awarded to %s", opportunityID, winnerID)))
			return nil
		},
	}
}

func NewRankingCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "ranking <opportunity-id>",
		Short: "List ranked proposals by total score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			ranking, err := engine.GetRanking(cmd.Context(), id)
			if err != nil {
				return err
			}

			render.RenderRanking(cmd.OutOrStdout(), ranking)
			return nil
		},
	}
}

func NewScorecardCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "scorecard <opportunity-id>",
		Short: "Print per-stage percentages, price score and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			card, err := engine.Scorecard(cmd.Context(), id)
			if err != nil {
				return err
			}

			render.RenderScorecard(cmd.OutOrStdout(), card)
			return nil
		},
	}
}
