package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ojtool/internal/judge"
)

var contestsCmd = &cobra.Command{
	Use:   "contests",
	Short: "List upcoming and running contests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		contests, err := a.client.Contests(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range contests {
			id, err := a.client.ContestID(c.Contest)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\t%s\n", id, c.StartsAt.Format("2006-01-02 15:04 MST"), c.Title)
		}
		return nil
	},
}

var tasksDetails bool

var tasksCmd = &cobra.Command{
	Use:   "tasks URL",
	Short: "List a contest's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.restoreAuth(cmd.Context()); err != nil {
			return err
		}
		contest, err := a.client.Route(args[0])
		if err != nil {
			return err
		}
		tasks, err := a.client.ContestTasks(cmd.Context(), contest)
		if err != nil {
			return err
		}
		if !tasksDetails {
			for _, t := range tasks {
				fmt.Printf("%s\t%s\n", t.Symbol, t.Title)
			}
			return nil
		}
		return printTaskDetails(cmd, a, contest, tasks)
	},
}

// printTaskDetails fetches every task statement concurrently, then prints
// them in contest order.
func printTaskDetails(cmd *cobra.Command, a *app, contest judge.Resource, tasks []judge.ContestTask) error {
	details := make([]*judge.TaskDetails, len(tasks))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			url, err := a.client.ContestURL(contest)
			if err != nil {
				return err
			}
			task, err := a.client.Route(url + "problem/" + t.Symbol)
			if err != nil {
				return err
			}
			d, err := a.client.FetchStatement(ctx, task)
			if err != nil {
				return fmt.Errorf("task %s: %w", t.Symbol, err)
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, d := range details {
		fmt.Printf("%s\t%s\t%d examples\t%s\n", d.Symbol, d.Title, len(d.Examples), d.URL)
	}
	return nil
}

func init() {
	tasksCmd.Flags().BoolVar(&tasksDetails, "details", false, "fetch statement metadata for each task")
}
