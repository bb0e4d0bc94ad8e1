package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/client"
)

const defaultServer = "http://localhost:8080"

// app holds the flags and collaborators shared by every command.
type app struct {
	server      string
	verbose     bool
	sessionFile string

	now func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Manage portfolio content from the terminal",
		Long: `portfolioctl edits the projects, blog posts and education entries of a
running portfolio server through its admin API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	server := os.Getenv("PORTFOLIO_URL")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVar(&a.server, "server", server, "Portfolio server URL (env PORTFOLIO_URL)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "Override the session file location")
	rootCmd.PersistentFlags().MarkHidden("session-file")

	rootCmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.statsCmd(),
		a.seedCmd(),
		collectionCmd(a, "projects", "Manage projects", admin.Projects, projectColumns),
		collectionCmd(a, "blogs", "Manage blog posts", admin.Blogs, blogColumns),
		collectionCmd(a, "education", "Manage education entries", admin.Education, educationColumns),
	)
	return rootCmd
}

func (a *app) sessions() (*client.SessionStore, error) {
	if a.sessionFile != "" {
		return client.NewSessionStore(a.sessionFile), nil
	}
	return client.DefaultSessionStore()
}

// connect returns a client carrying the saved session for a.server.
func (a *app) connect() (*client.Client, error) {
	store, err := a.sessions()
	if err != nil {
		return nil, err
	}
	saved, err := store.Load(a.server, a.now())
	if errors.Is(err, client.ErrNoSession) {
		return nil, errors.New("not logged in, run: portfolioctl login")
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("using saved session", "server", a.server, "expires_at", saved.ExpiresAt)
	return client.New(a.server, client.WithToken(saved.Token)), nil
}

// explain turns API errors into something the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidSession):
		return errors.New("session rejected by server, run: portfolioctl login")
	case errors.Is(err, auth.ErrThrottled):
		return errors.New("too many login attempts, try again in a minute")
	}
	return err
}
