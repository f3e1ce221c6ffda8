package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/internal/goals"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/validation"
)

func newGoalCommand(g *globalFlags) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage savings goals",
	}
	goalCmd.AddCommand(
		newGoalAddCommand(g),
		newGoalListCommand(g),
		newGoalContributeCommand(g),
		newGoalDeleteCommand(g),
	)
	return goalCmd
}

func newGoalAddCommand(g *globalFlags) *cobra.Command {
	var in validation.GoalInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a savings goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := validation.Get().Goal(in)
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			goal, err = goals.NewService(e.store, e.user()).Add(ctx, goal)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %q (%s)\n", goal.Title, goal.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "goal title")
	f.StringVar(&in.Description, "description", "", "what the goal is for")
	f.StringVar(&in.TargetAmount, "target", "", "target amount")
	f.StringVar(&in.CurrentAmount, "current", "", "amount already saved")
	f.StringVar(&in.TargetDate, "date", "", "target date YYYY-MM-DD")
	f.StringVar(&in.Category, "category", string(model.GoalOther), "goal category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newGoalListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := goals.NewService(e.store, e.user()).Load(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No goals")
				return nil
			}

			t := now()
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSAVED\tTARGET\tPROGRESS\tSTATUS")
			for _, goal := range list {
				p := goals.ProgressOf(goal, t)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					goal.ID, goal.Title, goal.Category, money(goal.CurrentAmount), money(goal.TargetAmount),
					percent(p.Percent), goalStatus(p))
			}
			return tw.Flush()
		},
	}
}

func goalStatus(p goals.Progress) string {
	switch {
	case p.Completed:
		return "completed"
	case p.Overdue:
		return fmt.Sprintf("%d days overdue", -p.DaysRemaining)
	default:
		return fmt.Sprintf("%d days remaining", p.DaysRemaining)
	}
}

func newGoalContributeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <id> <amount>",
		Short: "Add funds to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := validation.Get().Amount("amount", args[1])
			if err != nil {
				return err
			}

			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			goal, err := goals.NewService(e.store, e.user()).Contribute(ctx, args[0], amount)
			if err != nil {
				return err
			}
			p := goals.ProgressOf(goal, now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s of %s (%s)\n",
				goal.Title, money(goal.CurrentAmount), money(goal.TargetAmount), percent(p.Percent))
			return nil
		},
	}
}

func newGoalDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ctx, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := goals.NewService(e.store, e.user()).Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", args[0])
			return nil
		},
	}
}
