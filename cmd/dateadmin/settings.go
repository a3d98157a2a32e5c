package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/console"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

type settingsRunner interface {
	show(ctx context.Context) error
	save(ctx context.Context, values map[string]string) error
}

type tabRunner[D any] struct {
	tab *console.SettingsTab[D]
}

func (r tabRunner[D]) show(ctx context.Context) error {
	if err := r.tab.Load(ctx); err != nil {
		return err
	}
	defer r.tab.Form.Close()
	if !jsonOutput {
		fmt.Println(ui.RenderAccent(console.TabNoun(r.tab.Tab())))
	}
	return printJSON(r.tab.Form.Draft())
}

func (r tabRunner[D]) save(ctx context.Context, values map[string]string) error {
	if err := r.tab.Load(ctx); err != nil {
		return err
	}
	if len(values) == 0 && ui.IsTerminal(os.Stdin) {
		var err error
		if values, err = promptFields(r.tab.Form.Fields(), true); err != nil {
			return err
		}
	}
	return fillAndSubmit(ctx, r.tab.Form, values, nil, r.tab.Save)
}

func settingsTab(name string) (settingsRunner, error) {
	switch model.SettingsTab(strings.ToLower(name)) {
	case model.TabSMTP:
		return tabRunner[model.SMTPSettings]{app.SMTP}, nil
	case model.TabStripe:
		return tabRunner[model.StripeSettings]{app.Stripe}, nil
	case model.TabPrivacy:
		return tabRunner[model.PrivacySettings]{app.Privacy}, nil
	case model.TabInvitation:
		return tabRunner[model.InvitationSettings]{app.Invitation}, nil
	}
	names := make([]string, len(model.SettingsTabs))
	for i, t := range model.SettingsTabs {
		names[i] = t.String()
	}
	return nil, fmt.Errorf("unknown settings tab %q (must be one of: %s)", name, strings.Join(names, ", "))
}

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Short:   "View and change platform settings",
	GroupID: "content",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <tab>",
	Short: "Show a settings tab (smtp, stripe, privacy, invitation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		r, err := settingsTab(args[0])
		if err != nil {
			return err
		}
		return r.show(ctx)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <tab>",
	Short: "Change fields of a settings tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		r, err := settingsTab(args[0])
		if err != nil {
			return err
		}
		setFlags, _ := cmd.Flags().GetStringArray("set")
		values, err := parsePairs("set", setFlags)
		if err != nil {
			return err
		}
		return r.save(ctx, values)
	},
}

func init() {
	settingsSetCmd.Flags().StringArrayP("set", "s", nil, "set a field (key=value, repeatable)")
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
}
