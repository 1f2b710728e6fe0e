package main

import (
	"fmt"

	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/session"
	"github.com/spf13/cobra"
)

func auditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewAudit); err != nil {
				return err
			}
			entries, err := a.svcs.Audit.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No entries")
				return nil
			}
			w := a.table()
			fmt.Fprintln(w, "TIME\tUSER\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt, e.Username, e.Action, e.Details)
			}
			return w.Flush()
		},
	}
}

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
	}
	cmd.AddCommand(usersListCmd(a), usersUpdateCmd(a), usersDeleteCmd(a))
	return cmd
}

func usersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewUsers); err != nil {
				return err
			}
			users, err := a.svcs.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tUSERNAME\tFULL NAME\tROLE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Role, u.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func usersUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change another account's login, name or role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewUsers); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := a.svcs.Users.Find(cmd.Context(), id)
			if err != nil {
				return err
			}

			// Unset flags keep the current values
			req := &models.UpdateUserRequest{Username: target.Username, FullName: target.FullName, Role: target.Role}
			if cmd.Flags().Changed("username") {
				req.Username, _ = cmd.Flags().GetString("username")
			}
			if cmd.Flags().Changed("full-name") {
				req.FullName, _ = cmd.Flags().GetString("full-name")
			}
			if cmd.Flags().Changed("role") {
				role, _ := cmd.Flags().GetString("role")
				req.Role = models.Role(role)
			}

			if err := a.svcs.Users.Update(cmd.Context(), target, req); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated user %d\n", id)
			return nil
		},
	}
	cmd.Flags().String("username", "", "new login name")
	cmd.Flags().String("full-name", "", "new display name")
	cmd.Flags().String("role", "", "new role: user or admin")
	return cmd
}

func usersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete another account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewUsers); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := a.svcs.Users.Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.svcs.Users.Delete(cmd.Context(), target); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted user %d\n", id)
			return nil
		},
	}
}
