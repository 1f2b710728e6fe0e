package main

import (
	"fmt"
	"os"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/session"
	"github.com/spf13/cobra"
)

func passwordFlag(cmd *cobra.Command) string {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("DOCVAULT_PASSWORD")
	}
	return password
}

func loginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")

			sess, err := a.svcs.Auth.Login(cmd.Context(), &models.LoginRequest{
				Username: username,
				Password: passwordFlag(cmd),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s)\n", sess.Username, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "login name")
	cmd.Flags().StringP("password", "p", "", "password (default $DOCVAULT_PASSWORD)")
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			fullName, _ := cmd.Flags().GetString("full-name")

			next, err := a.svcs.Auth.Register(cmd.Context(), &models.RegisterRequest{
				Username: username,
				Password: passwordFlag(cmd),
				FullName: fullName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Account %s created, continue with 'docctl %s'\n", username, next)
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "login name")
	cmd.Flags().StringP("password", "p", "", "password (default $DOCVAULT_PASSWORD)")
	cmd.Flags().String("full-name", "", "display name")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.svcs.Auth.Logout()
			fmt.Fprintln(a.out, "Logged out")
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewProfile); err != nil {
				return err
			}
			w := a.table()
			fmt.Fprintf(w, "ID\t%d\n", a.sess.ID)
			fmt.Fprintf(w, "Username\t%s\n", a.sess.Username)
			fmt.Fprintf(w, "Full name\t%s\n", a.sess.FullName)
			fmt.Fprintf(w, "Role\t%s\n", a.sess.Role)
			fmt.Fprintf(w, "Since\t%s\n", a.sess.CreatedAt)
			fmt.Fprintf(w, "Session file\t%s\n", a.store.Path())
			return w.Flush()
		},
	}
}

func navCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the screens available to the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := session.Navigation(a.sess)
			if len(items) == 0 {
				fmt.Fprintln(a.out, "login\nregister")
				return nil
			}
			w := a.table()
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\n", item.View, item.Label)
			}
			return w.Flush()
		},
	}
}
