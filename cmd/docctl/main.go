package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/report"
	"github.com/docvault-console/internal/service"
	"github.com/docvault-console/internal/session"
	"github.com/docvault-console/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Exit codes by failure kind
const (
	exitOK             = 0
	exitFailure        = 1
	exitValidation     = 2
	exitAuthentication = 3
	exitAuthorization  = 4
	exitNotFound       = 5
)

// app holds what every command needs, built once per invocation
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *session.Store
	sess  *models.Session
	svcs  *service.Services
	out   io.Writer
}

func newApp(out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stderr, zerolog.WarnLevel)
	store := session.NewStore(cfg.Session.FilePath, log)
	sess, _ := store.Get()

	public := apiclient.New(&cfg.API, log)
	client := public
	if sess != nil && sess.Token != "" {
		client = public.WithToken(sess.Token)
	}

	svcs := service.NewServices(service.Dependencies{
		API:      client,
		Public:   public,
		Session:  sess,
		Store:    store,
		Renderer: report.NewRenderer(&cfg.Report, log),
	}, log)

	return &app{cfg: cfg, log: log, store: store, sess: sess, svcs: svcs, out: out}, nil
}

// require redirects protected screens to login when there is no session
func (a *app) require(v session.View) error {
	if session.RequireSession(v, a.sess) != v {
		return fmt.Errorf("%s requires a session, run 'docctl login' first: %w", v, models.ErrNoSession)
	}
	return nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "docctl",
		Short:         "Console client for the docvault document registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}

	rootCmd.AddCommand(
		loginCmd(a), registerCmd(a), logoutCmd(a), whoamiCmd(a), navCmd(a),
		dashboardCmd(a), docsCmd(a), createCmd(a), profileCmd(a),
		auditCmd(a), usersCmd(a),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", headline(err), err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch apiclient.KindOf(err) {
	case apiclient.KindValidation:
		return exitValidation
	case apiclient.KindAuthentication:
		return exitAuthentication
	case apiclient.KindAuthorization:
		return exitAuthorization
	case apiclient.KindNotFound:
		return exitNotFound
	default:
		return exitFailure
	}
}

func headline(err error) string {
	switch apiclient.KindOf(err) {
	case apiclient.KindValidation:
		return "Invalid input"
	case apiclient.KindAuthentication:
		return "Authentication failed"
	case apiclient.KindAuthorization:
		return "Not permitted"
	case apiclient.KindNotFound:
		return "Not found"
	default:
		return "Request failed"
	}
}

// systemOpener shows a file with the desktop's default application
func systemOpener(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
