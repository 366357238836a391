package cli

import (
	"fmt"
	"github.com/spf13/cobra"
	"procurement_evaluation_system/internal/cli/render"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
)

func NewProposalCmd(engine *evaluation.Engine) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Create and move proposals through their lifecycle",
	}

	cmd.AddCommand(
		newProposalCreateCmd(engine),
		newProposalTransitionCmd(engine),
		newProposalShowCmd(engine),
	)
	return cmd
}

func newProposalCreateCmd(engine *evaluation.Engine) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create <opportunity-id>",
		Short: "Create a draft proposal from a YAML file",
		Example: `  # proposal.yaml
  price: 125000
  proponent:
    kind: organization
    organization_id: 6f1c2b7e-3d0a-4a51-9a57-0c6f3e8b9d21
    legal_name: Acme Ltd

  evaluation proposal create <opportunity-id> -f proposal.yaml --actor <id> --role proponent`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			opportunityID, err := parseID(args[0], "opportunity")
			if err != nil {
				return err
			}
			input, err := LoadProposalInput(file)
			if err != nil {
				return err
			}

			p, err := engine.CreateProposal(cmd.Context(), opportunityID, input, actor)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("created proposal %s", p.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the proposal YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProposalTransitionCmd(engine *evaluation.Engine) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "transition <proposal-id> <status>",
		Short: "Move a proposal to another status",
		Long: `Move a proposal to another status.

Proponents submit, withdraw and resubmit (submitted -> draft); evaluators disqualify.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "proposal")
			if err != nil {
				return err
			}
			to, ok := models.ParseProposalStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown proposal status %q", args[1])
			}

			p, err := engine.TransitionProposal(cmd.Context(), id, to, actor, note)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("proposal %s is now %s", p.ID, p.Status)))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Reason recorded in the history")
	return cmd
}

func newProposalShowCmd(engine *evaluation.Engine) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "show <proposal-id>",
		Short: "Show a proposal with its stage results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "proposal")
			if err != nil {
				return err
			}

			p, err := engine.GetProposal(cmd.Context(), id)
			if err != nil {
				return err
			}
			render.RenderProposal(cmd.OutOrStdout(), p)

			if history {
				render.RenderHistory(cmd.OutOrStdout(), p.Ledger.Entries())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Also print the status history")
	return cmd
}
