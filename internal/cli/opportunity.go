package cli

import (
	"fmt"
	"github.com/spf13/cobra"
	"procurement_evaluation_system/internal/cli/render"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
)

func NewOpportunityCmd(engine *evaluation.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "opportunity",
		Aliases: []string{"opp"},
		Short:   "Create and move opportunities through their lifecycle",
	}

	cmd.AddCommand(
		newOpportunityCreateCmd(engine),
		newOpportunityTransitionCmd(engine),
		newOpportunityAddendumCmd(engine),
		newOpportunityShowCmd(engine),
		newOpportunityCloseLapsedCmd(engine),
	)
	return cmd
}

func newOpportunityCreateCmd(engine *evaluation.Engine) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft opportunity from a YAML file",
		Example: `  # opportunity.yaml
  title: Digital services
  kind: multi_stage
  price_weight: 30
  proposal_deadline: "2026-03-01T12:00:00Z"
  stages:
    - {type: team_questions, weight: 30, minimum_percentage: 60}
    - {type: code_challenge, weight: 40}

  evaluation opportunity create -f opportunity.yaml --actor <id> --role evaluator`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			input, err := LoadOpportunityInput(file)
			if err != nil {
				return err
			}

			o, err := engine.CreateOpportunity(cmd.Context(), input, actor)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("created opportunity %s", o.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the opportunity YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newOpportunityTransitionCmd(engine *evaluation.Engine) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "transition <opportunity-id> <status>",
		Short: "Move an opportunity to another status",
		Long: `Move an opportunity to another status.

Valid statuses: under_review, published, evaluation, suspended, canceled.
"evaluation" resumes at the first stage that is not finalized.
Stage changes and awards go through "stage finalize" and "award".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}
			to, err := models.ParseOpportunityStatus(args[1])
			if err != nil {
				return err
			}
			if args[1] == models.OpportunityEvaluation.String() {
				current, err := engine.GetOpportunity(cmd.Context(), id)
				if err != nil {
					return err
				}
				to = models.Evaluation(evaluation.EntryStage(current))
			}

			o, err := engine.TransitionOpportunity(cmd.Context(), id, to, actor, note)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("opportunity %s is now %s", o.ID, o.Status)))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Reason recorded in the history")
	return cmd
}

func newOpportunityAddendumCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "addendum <opportunity-id> <text>",
		Short: "Record an addendum on a published opportunity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			if _, err := engine.AddAddendum(cmd.Context(), id, args[1], actor); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("addendum recorded"))
			return nil
		},
	}
}

func newOpportunityShowCmd(engine *evaluation.Engine) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "show <opportunity-id>",
		Short: "Show an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}

			o, err := engine.GetOpportunity(cmd.Context(), id)
			if err != nil {
				return err
			}
			render.RenderOpportunity(cmd.OutOrStdout(), o)

			if history {
				render.RenderHistory(cmd.OutOrStdout(), o.Ledger.Entries())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Also print the status history")
	return cmd
}

func newOpportunityCloseLapsedCmd(engine *evaluation.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "close-lapsed",
		Short: "Move published opportunities past their deadline into evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closed, err := engine.CloseLapsedOpportunities(cmd.Context())
			for _, o := range closed {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("opportunity %s closed for submissions", o.ID)))
			}
			return err
		},
	}
}
