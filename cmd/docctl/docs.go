package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docvault-console/internal/docquery"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/service"
	"github.com/docvault-console/internal/session"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", arg, models.ErrValidation)
	}
	return id, nil
}

func printDocuments(a *app, docs []*models.Document) error {
	w := a.table()
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCATEGORY\tCREATED")
	for _, d := range docs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Author, orDash(string(d.CategoryOrEmpty())), orDash(d.CreatedAtOrEmpty()))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counters and the latest documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDashboard); err != nil {
				return err
			}
			dash, err := a.svcs.Dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome, %s\n", dash.Session.FullName)
			fmt.Fprintf(a.out, "Users: %d  Documents: %d  Audit entries: %d\n\n", dash.Stats.Users, dash.Stats.Docs, dash.Stats.Audits)
			return printDocuments(a, dash.Recent)
		},
	}
}

func docsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Browse and manage documents",
	}
	cmd.AddCommand(docsListCmd(a), docsShowCmd(a), docsDeleteCmd(a), docsDownloadCmd(a), docsReportCmd(a), docsCommentCmd(a))
	return cmd
}

func docsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents with filters and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			text, _ := cmd.Flags().GetString("search")
			year, _ := cmd.Flags().GetString("year")
			category, _ := cmd.Flags().GetString("category")
			sortBy, _ := cmd.Flags().GetString("sort")
			sortDir, _ := cmd.Flags().GetString("dir")

			q, err := docquery.ParseQuery(text, year, category, sortBy, sortDir)
			if err != nil {
				return err
			}
			list, err := a.svcs.Documents.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if err := printDocuments(a, list.Documents); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\n%d of %d documents; years: %s\n", len(list.Documents), list.Total, strings.Join(list.Years, ", "))
			return nil
		},
	}
	cmd.Flags().StringP("search", "s", "", "case-insensitive title search")
	cmd.Flags().String("year", docquery.All, "creation year or All")
	cmd.Flags().String("category", docquery.All, "category or All")
	cmd.Flags().String("sort", string(docquery.SortByTitle), "sort key: title or date")
	cmd.Flags().String("dir", string(docquery.Asc), "sort direction: asc or desc")
	return cmd
}

func docsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a document and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := a.svcs.Documents.Open(cmd.Context(), id)
			if err != nil {
				return err
			}

			d := view.Document
			fmt.Fprintf(a.out, "#%d %s\nAuthor: %s  Category: %s  Created: %s\n\n", d.ID, d.Title, d.Author, orDash(string(d.CategoryOrEmpty())), orDash(d.CreatedAtOrEmpty()))
			if raw, err := d.DecodedContent(); err == nil {
				fmt.Fprintf(a.out, "%s\n\n", raw)
			} else {
				fmt.Fprintf(a.out, "%s\n\n", d.Content)
			}

			fmt.Fprintf(a.out, "Comments (%d):\n", len(view.Comments))
			for _, c := range view.Comments {
				fmt.Fprintf(a.out, "  [%s] %s: %s\n", c.CreatedAt, c.AdminName, c.Text)
			}

			var actions []string
			if view.CanDownload {
				actions = append(actions, "download")
			}
			if view.CanDelete {
				actions = append(actions, "delete")
			}
			if view.CanComment {
				actions = append(actions, "comment")
			}
			actions = append(actions, "report")
			fmt.Fprintf(a.out, "\nActions: %s\n", strings.Join(actions, ", "))
			return nil
		},
	}
}

func docsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a document (author or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := a.svcs.Documents.Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.svcs.Documents.Delete(cmd.Context(), doc); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted document %d\n", id)
			return nil
		},
	}
}

func docsDownloadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Save the document content to a file (author or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")

			doc, err := a.svcs.Documents.Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			path, err := a.svcs.Documents.Download(doc, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().String("dir", ".", "target directory")
	return cmd
}

func docsReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report ID",
		Short: "Render the PDF security report of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")
			open, _ := cmd.Flags().GetBool("open")
			if dir == "" {
				dir = a.cfg.Report.OutputDir
			}

			doc, err := a.svcs.Documents.Find(cmd.Context(), id)
			if err != nil {
				return err
			}

			var path string
			if open {
				path, err = a.svcs.Documents.OpenReport(doc, systemOpener)
			} else {
				path, err = a.svcs.Documents.Report(doc, dir)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().String("dir", "", "output directory (default $REPORT_DIR)")
	cmd.Flags().Bool("open", false, "open the report in the default viewer instead of saving it")
	return cmd
}

func docsCommentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment ID TEXT",
		Short: "Add an administrator comment to a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewDocuments); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			thread, err := a.svcs.Documents.Comment(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if thread == nil {
				fmt.Fprintln(a.out, "Nothing to send")
				return nil
			}
			for _, c := range thread {
				fmt.Fprintf(a.out, "[%s] %s: %s\n", c.CreatedAt, c.AdminName, c.Text)
			}
			return nil
		},
	}
}

func createCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a new document from flags or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewCreate); err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			category, _ := cmd.Flags().GetString("category")
			file, _ := cmd.Flags().GetString("file")

			form := service.DocumentForm{Title: title, Content: content, Category: category}

			var (
				req *models.CreateDocumentRequest
				err error
			)
			if file != "" {
				req, err = a.svcs.Create.CreateFromFile(cmd.Context(), file, form)
			} else {
				req, err = a.svcs.Create.Create(cmd.Context(), form)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Uploaded %q (%s)\n", req.Title, *req.Category)
			return nil
		},
	}
	cmd.Flags().String("title", "", "document title (default: file name)")
	cmd.Flags().String("content", "", "document text")
	cmd.Flags().String("file", "", "read content from this file")
	cmd.Flags().String("category", string(models.CategoryOther), "one of: "+categoryList())
	return cmd
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func profileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account and your documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.ViewProfile); err != nil {
				return err
			}
			profile, err := a.svcs.Profile.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%s), role %s\n\n", profile.Session.FullName, profile.Session.Username, profile.Session.Role)
			return printDocuments(a, profile.Documents)
		},
	}
}
