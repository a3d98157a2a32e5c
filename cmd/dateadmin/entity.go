package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/console"
	"github.com/alfredjeanlab/dateadmin/internal/form"
	"github.com/alfredjeanlab/dateadmin/internal/listctl"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

// entityCommand describes the command tree of one list screen.
type entityCommand[T model.Entity, D any] struct {
	use     string
	aliases []string
	short   string
	page    func() *console.Page[T, D]
	headers []string
	row     func(T) []any

	// editable adds create and update.
	editable bool
}

func (e entityCommand[T, D]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     e.use,
		Aliases: e.aliases,
		Short:   e.short,
		GroupID: "content",
	}
	cmd.AddCommand(e.listCmd(), e.showCmd())
	if e.editable {
		cmd.AddCommand(e.saveCmd(false), e.saveCmd(true))
	}
	cmd.AddCommand(e.deleteCmd(), e.statusCmd(true), e.statusCmd(false), e.toggleCmd())
	return cmd
}

func (e entityCommand[T, D]) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + e.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")
			search, _ := cmd.Flags().GetString("search")
			sortBy, _ := cmd.Flags().GetString("sort")
			order, _ := cmd.Flags().GetString("order")
			filterFlags, _ := cmd.Flags().GetStringArray("filter")

			filters, err := parsePairs("filter", filterFlags)
			if err != nil {
				return err
			}
			if !listctl.SortOrder(order).IsValid() {
				return fmt.Errorf("invalid --order %q (must be asc or desc)", order)
			}
			p := e.page()
			q := p.List.Query()
			q.Page = page
			q.Search = search
			q.SortBy = sortBy
			q.SortOrder = listctl.SortOrder(order)
			q.Filters = filters
			if pageSize > 0 {
				q.PageSize = pageSize
			}
			if err := p.List.SetQuery(ctx, q); err != nil {
				return err
			}
			return e.printList(p)
		},
	}
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("page-size", 0, "rows per page (default from config)")
	cmd.Flags().StringP("search", "q", "", "free-text search")
	cmd.Flags().String("sort", "", "field to sort by")
	cmd.Flags().String("order", "", "sort order (asc or desc)")
	cmd.Flags().StringArrayP("filter", "f", nil, "filter by field (key=value, repeatable)")
	return cmd
}

func (e entityCommand[T, D]) printList(p *console.Page[T, D]) error {
	r := p.List.Result()
	stats := p.List.Stats()
	if jsonOutput {
		return printJSON(struct {
			listctl.PageResult[T]
			Stats map[string]int `json:"stats,omitempty"`
		}{r, stats})
	}

	printStats(stats)
	if len(r.Items) == 0 {
		fmt.Printf("No %s found.\n", e.use)
		return nil
	}
	t := ui.NewTable(os.Stdout, e.headers...)
	for _, item := range r.Items {
		t.Row(e.row(item)...)
	}
	if err := t.Flush(); err != nil {
		return err
	}
	fmt.Println(ui.RenderMuted(fmt.Sprintf("Page %d of %d (%d %s)", r.CurrentPage, max(r.TotalPages, 1), r.TotalRecords, e.use)))
	return nil
}

func (e entityCommand[T, D]) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			item, err := e.page().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(item)
		},
	}
}

// saveCmd builds create, or update when edit is set.
func (e entityCommand[T, D]) saveCmd(edit bool) *cobra.Command {
	use, short, args := "create", "Create a record", cobra.NoArgs
	if edit {
		use, short, args = "update <id>", "Update a record", cobra.ExactArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			setFlags, _ := cmd.Flags().GetStringArray("set")
			fileFlags, _ := cmd.Flags().GetStringArray("file")
			values, err := parsePairs("set", setFlags)
			if err != nil {
				return err
			}
			files, err := parsePairs("file", fileFlags)
			if err != nil {
				return err
			}

			p := e.page()
			if edit {
				err = p.Edit(ctx, args[0])
			} else {
				err = p.Create()
			}
			if err != nil {
				return err
			}
			if len(values) == 0 && len(files) == 0 && ui.IsTerminal(os.Stdin) {
				if values, err = promptFields(p.Form.Fields(), edit); err != nil {
					return err
				}
			}
			return fillAndSubmit(ctx, p.Form, values, files, p.Submit)
		},
	}
	cmd.Flags().StringArrayP("set", "s", nil, "set a form field (key=value, repeatable)")
	cmd.Flags().StringArray("file", nil, "attach a file to an upload field (field=path, repeatable)")
	return cmd
}

// promptFields asks for every field on the terminal. An empty answer keeps
// the current value.
func promptFields(fields []string, edit bool) (map[string]string, error) {
	hint := ""
	if edit {
		hint = ui.RenderMuted(" (blank keeps current)")
	}
	out := map[string]string{}
	for _, name := range fields {
		v, err := ui.ReadLine(name+hint+": ", os.Stdin, os.Stderr)
		if err != nil {
			return nil, err
		}
		if v != "" {
			out[name] = v
		}
	}
	return out, nil
}

func fillAndSubmit[D any](ctx context.Context, m *form.Modal[D], values, files map[string]string, submit func(context.Context) error) error {
	if err := m.SetFields(values); err != nil {
		return err
	}
	for field, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		a, err := m.Attach(field, filepath.Base(path), data)
		if err != nil {
			return err
		}
		log.WithField("field", field).WithField("type", a.ContentType).Debug("attached file")
	}
	if err := submit(ctx); err != nil {
		printFieldErrors(m.Errors())
		if errors.Is(err, form.ErrInvalid) {
			return fmt.Errorf("%w: fix the fields above and retry", err)
		}
		return err
	}
	return nil
}

func (e entityCommand[T, D]) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			_, err := e.page().Delete(ctx, args[0])
			return err
		},
	}
}

func (e entityCommand[T, D]) statusCmd(active bool) *cobra.Command {
	use, short := "deactivate <id>", "Deactivate a record"
	if active {
		use, short = "activate <id>", "Activate a record"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			return e.page().SetActive(ctx, args[0], active)
		},
	}
}

func (e entityCommand[T, D]) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the active flag of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx); err != nil {
				return err
			}
			p := e.page()
			item, err := p.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return p.SetActive(ctx, args[0], !item.Active())
		},
	}
}

func templatesCmd() *cobra.Command {
	return entityCommand[model.Template, model.TemplateDraft]{
		use:      "templates",
		aliases:  []string{"template", "tpl"},
		short:    "Manage date-plan templates",
		page:     func() *console.Page[model.Template, model.TemplateDraft] { return app.Templates },
		headers:  []string{"ID", "Title", "Category", "Duration", "Cost", "Status"},
		editable: true,
		row: func(t model.Template) []any {
			return []any{t.ID, t.Title, t.Category, strconv.Itoa(t.DurationMinutes) + "m", t.EstimatedCost.StringFixed(2), activeLabel(t.IsActive)}
		},
	}.command()
}

func loungesCmd() *cobra.Command {
	return entityCommand[model.Lounge, model.LoungeDraft]{
		use:      "lounges",
		aliases:  []string{"lounge"},
		short:    "Manage lounges",
		page:     func() *console.Page[model.Lounge, model.LoungeDraft] { return app.Lounges },
		headers:  []string{"ID", "Name", "City", "Members", "Capacity", "Status"},
		editable: true,
		row: func(l model.Lounge) []any {
			return []any{l.ID, l.Name, l.City, l.MemberCount, l.Capacity, activeLabel(l.IsActive)}
		},
	}.command()
}

func faqsCmd() *cobra.Command {
	return entityCommand[model.FAQ, model.FAQDraft]{
		use:      "faqs",
		aliases:  []string{"faq"},
		short:    "Manage help-center FAQs",
		page:     func() *console.Page[model.FAQ, model.FAQDraft] { return app.FAQs },
		headers:  []string{"ID", "Question", "Category", "Order", "Status"},
		editable: true,
		row: func(f model.FAQ) []any {
			return []any{f.ID, f.Question, f.Category, f.SortOrder, activeLabel(f.IsActive)}
		},
	}.command()
}
