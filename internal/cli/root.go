package cli

import (
	"github.com/spf13/cobra"
	"procurement_evaluation_system/internal/evaluation"
)

// NewRootCmd builds the operator CLI around an engine the caller already wired to a store.
func NewRootCmd(engine *evaluation.Engine) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "evaluation",
		Short:         "Procurement opportunity lifecycle and proposal evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(actorFlag, "", "ID of the acting user")
	rootCmd.PersistentFlags().String(roleFlag, "evaluator", "Role of the acting user (proponent, evaluator, admin)")

	rootCmd.AddGroup(&cobra.Group{ID: "lifecycle", Title: "Lifecycle Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "evaluation", Title: "Evaluation Commands"})

	opportunityCmd := NewOpportunityCmd(engine)
	opportunityCmd.GroupID = "lifecycle"
	rootCmd.AddCommand(opportunityCmd)

	proposalCmd := NewProposalCmd(engine)
	proposalCmd.GroupID = "lifecycle"
	rootCmd.AddCommand(proposalCmd)

	scoreCmd := NewScoreCmd(engine)
	scoreCmd.GroupID = "evaluation"
	rootCmd.AddCommand(scoreCmd)

	stageCmd := NewStageCmd(engine)
	stageCmd.GroupID = "evaluation"
	rootCmd.AddCommand(stageCmd)

	awardCmd := NewAwardCmd(engine)
	awardCmd.GroupID = "evaluation"
	rootCmd.AddCommand(awardCmd)

	rankingCmd := NewRankingCmd(engine)
	rankingCmd.GroupID = "evaluation"
	rootCmd.AddCommand(rankingCmd)

	scorecardCmd := NewScorecardCmd(engine)
	scorecardCmd.GroupID = "evaluation"
	rootCmd.AddCommand(scorecardCmd)

	return rootCmd
}
