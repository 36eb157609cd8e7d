package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ojtool/internal/judge"
	"ojtool/internal/util/style"
	"ojtool/internal/watch"
)

var (
	submitLang    string
	submitNoWatch bool
)

// resolveLanguage accepts either a venue language ID or an exact name.
func resolveLanguage(ctx context.Context, a *app, task judge.Resource, want string) (judge.Language, error) {
	langs, err := a.client.Languages(ctx, task)
	if err != nil {
		return judge.Language{}, err
	}
	for _, lang := range langs {
		if lang.ID == want || lang.Name == want {
			return lang, nil
		}
	}
	return judge.Language{}, fmt.Errorf("language %q not offered for this task", want)
}

func styledVerdict(v judge.Verdict) string {
	if !style.StdoutSupportsColor() {
		return v.String()
	}
	switch v.Kind {
	case judge.VerdictAccepted:
		return style.WithS(v.String(), style.Bold, style.Green)
	case judge.VerdictRejected:
		return style.WithS(v.String(), style.Bold, style.Red)
	case judge.VerdictScored:
		return style.WithS(v.String(), style.Bold, style.Yellow)
	case judge.VerdictPending:
		return style.WithS(v.String(), style.Cyan)
	default:
		return v.String()
	}
}

func watchVerdict(cmd *cobra.Command, a *app, task judge.Resource, id string) error {
	verdict, err := watch.Wait(cmd.Context(), a.log, a.opts.Watch,
		watch.Submission(a.client, task, id))
	if err != nil {
		return err
	}
	fmt.Printf("submission %s: %s\n", id, styledVerdict(verdict))
	return nil
}

var submitCmd = &cobra.Command{
	Use:   "submit URL FILE",
	Short: "Submit a solution and watch its verdict",
	Args:  cobra.ExactArgs(2),
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
		source, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		lang, err := resolveLanguage(cmd.Context(), a, task, submitLang)
		if err != nil {
			return err
		}

		id, err := a.client.Submit(cmd.Context(), task, lang, string(source))
		if err != nil {
			return err
		}
		fmt.Printf("submitted as %s (%s)\n", id, lang.Name)
		if submitNoWatch {
			return nil
		}
		return watchVerdict(cmd, a, task, id)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch URL ID",
	Short: "Watch an existing submission until its verdict is final",
	Args:  cobra.ExactArgs(2),
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
		return watchVerdict(cmd, a, task, args[1])
	},
}

func init() {
	submitCmd.Flags().StringVarP(&submitLang, "lang", "l", "", "language ID or name (required)")
	_ = submitCmd.MarkFlagRequired("lang")
	submitCmd.Flags().BoolVar(&submitNoWatch, "no-watch", false, "do not wait for the verdict")
}
