package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ojtool/internal/judge"
)

func readPassword() (string, error) {
	if pass, ok := os.LookupEnv("OJTOOL_PASSWORD"); ok {
		return pass, nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var loginCmd = &cobra.Command{
	Use:   "login HANDLE",
	Short: "Log into the judge and cache the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		handle := args[0]

		password, err := readPassword()
		if err != nil {
			return err
		}
		if err := a.client.Login(cmd.Context(), handle, password); err != nil {
			if errors.Is(err, judge.ErrWrongCredentials) {
				return fmt.Errorf("login rejected for %s: %w", handle, err)
			}
			return err
		}
		if err := a.saveAuth(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", handle)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the cached session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.store.Delete(cmd.Context(), a.client.Name()); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the cached session's user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.restoreAuth(cmd.Context()); err != nil {
			return err
		}
		auth, err := a.client.ExportAuth()
		if err != nil {
			return err
		}
		if auth == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Println(auth.Username)
		return nil
	},
}
