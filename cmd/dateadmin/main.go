package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/config"
	"github.com/alfredjeanlab/dateadmin/internal/console"
	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/logging"
	"github.com/alfredjeanlab/dateadmin/internal/session"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var (
	configPath string
	profile    string
	logLevel   string
	jsonOutput bool
	assumeYes  bool
	noColor    bool

	cfg       *config.Config
	log       *logrus.Logger
	publisher events.Publisher
	app       *console.Console
)

var rootCmd = &cobra.Command{
	Use:           "dateadmin <command>",
	Short:         "Admin console for the dating app backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dateadmin/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", os.Getenv(config.EnvPrefix+"PROFILE"), "named backend profile from the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Content
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(loungesCmd())
	rootCmd.AddCommand(faqsCmd())
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)

	// Account
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(notificationsCmd)

	// System
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and assembles the console every command
// works through.
func setup() error {
	c, err := config.Load(config.Options{Path: configPath, Profile: profile})
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c

	log, err = logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	ui.SetColor(!noColor && ui.ShouldUseColor())

	printer := ui.NewToastPrinter(os.Stderr)
	toasts := toast.New(
		toast.WithDefaultDuration(cfg.ToastDuration),
		toast.WithNotify(printer.Print),
	)

	tokenPath := cfg.SessionFile
	if tokenPath == "" {
		if tokenPath, err = session.DefaultTokenPath(); err != nil {
			return fmt.Errorf("locating session file: %w", err)
		}
	}
	store, err := session.NewStore(session.FileTokenStore{Path: tokenPath}, session.WithLogger(log))
	if err != nil {
		return err
	}

	api := client.NewHTTPClient(cfg.APIURL,
		client.WithTokenSource(store.Token),
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
	)

	publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.WithError(err).Warn("event bus unavailable, continuing without events")
		} else {
			publisher = p
		}
	}

	var confirm ui.Confirmer = ui.PromptConfirmer{In: os.Stdin, Out: os.Stderr}
	if assumeYes {
		confirm = ui.AutoConfirm(true)
	}

	app = console.New(console.Options{
		Client:   api,
		Session:  store,
		Toasts:   toasts,
		Media:    client.MediaResolver{BaseURL: cfg.MediaBase(), APIPrefix: cfg.APIPrefix},
		Events:   publisher,
		Confirm:  confirm,
		Log:      log,
		PageSize: cfg.PageSize,
	})
	return nil
}

func teardown() {
	if app != nil {
		app.Close()
		app.Toasts.Close()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Debug("closing event publisher")
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError("Error: "+err.Error()))
		os.Exit(1)
	}
}
