package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/console"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var matchesCmd = entityCommand[model.Match, console.NoDraft]{
	use:     "matches",
	aliases: []string{"match"},
	short:   "Review member matches",
	page:    func() *console.Page[model.Match, console.NoDraft] { return app.Matches.Page },
	headers: []string{"ID", "Members", "Status", "Score", "Matched", "Active"},
	row: func(m model.Match) []any {
		matched := "-"
		if m.MatchedAt != nil {
			matched = formatTime(*m.MatchedAt)
		}
		return []any{
			m.ID,
			m.UserA.Name + " & " + m.UserB.Name,
			matchStatusLabel(m.Status),
			fmt.Sprintf("%.2f", m.Score),
			matched,
			activeLabel(m.IsActive),
		}
	},
}.command()

var matchBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Block a match so neither member sees the other",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		_, err := app.Matches.Block(ctx, args[0])
		return err
	},
}

func init() {
	matchesCmd.AddCommand(matchBlockCmd)
}

func matchStatusLabel(s model.MatchStatus) string {
	switch s {
	case model.MatchMatched:
		return ui.RenderSuccess(s.String())
	case model.MatchBlocked:
		return ui.RenderError(s.String())
	case model.MatchPending:
		return ui.RenderWarning(s.String())
	}
	return ui.RenderMuted(s.String())
}
