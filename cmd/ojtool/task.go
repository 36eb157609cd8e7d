package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ojtool/internal/judge"
)

var (
	statementOut      string
	statementExamples string
)

var statementCmd = &cobra.Command{
	Use:   "statement URL",
	Short: "Fetch a task's statement and examples",
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
		task, err := a.routeTask(args[0])
		if err != nil {
			return err
		}
		details, err := a.client.FetchStatement(cmd.Context(), task)
		if err != nil {
			return err
		}

		fmt.Printf("%s. %s (contest %s)\n", details.Symbol, details.Title, details.ContestID)
		fmt.Printf("url: %s\n", details.URL)

		if statementOut != "" {
			if details.Statement == nil {
				return fmt.Errorf("task has no retrievable statement")
			}
			if err := os.WriteFile(statementOut, details.Statement.Data, 0644); err != nil {
				return fmt.Errorf("write statement: %w", err)
			}
			fmt.Printf("statement (%s) written to %s\n", details.Statement.MIME(), statementOut)
		}

		if statementExamples != "" {
			if err := writeExamples(statementExamples, details); err != nil {
				return err
			}
			fmt.Printf("%d examples written to %s\n", len(details.Examples), statementExamples)
		} else {
			fmt.Printf("examples: %d\n", len(details.Examples))
		}
		return nil
	},
}

// writeExamples lays out sample tests as 1.in/1.out pairs under dir.
func writeExamples(dir string, details *judge.TaskDetails) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create examples dir: %w", err)
	}
	for i, ex := range details.Examples {
		in := filepath.Join(dir, fmt.Sprintf("%d.in", i+1))
		out := filepath.Join(dir, fmt.Sprintf("%d.out", i+1))
		if err := os.WriteFile(in, []byte(ex.Input), 0644); err != nil {
			return fmt.Errorf("write example input: %w", err)
		}
		if err := os.WriteFile(out, []byte(ex.Output), 0644); err != nil {
			return fmt.Errorf("write example output: %w", err)
		}
	}
	return nil
}

var languagesCmd = &cobra.Command{
	Use:   "languages URL",
	Short: "List submission languages for a task",
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
		task, err := a.routeTask(args[0])
		if err != nil {
			return err
		}
		langs, err := a.client.Languages(cmd.Context(), task)
		if err != nil {
			return err
		}
		for _, lang := range langs {
			fmt.Printf("%s\t%s\n", lang.ID, lang.Name)
		}
		return nil
	},
}

func init() {
	statementCmd.Flags().StringVar(&statementOut, "out", "", "write the statement body to this file")
	statementCmd.Flags().StringVar(&statementExamples, "examples", "", "write sample tests into this directory")
}
