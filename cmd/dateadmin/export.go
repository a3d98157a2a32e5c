package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/export"
	"github.com/alfredjeanlab/dateadmin/internal/listctl"
	"github.com/alfredjeanlab/dateadmin/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export <templates|lounges|faqs|matches>",
	Short: "Export every record of a list as JSONL",
	Long: `Export every record of a list as JSONL.

The dump is written to stdout unless --out or --s3 is given. With --every the
export repeats on that interval until interrupted.`,
	GroupID: "content",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		toS3, _ := cmd.Flags().GetBool("s3")
		every, _ := cmd.Flags().GetDuration("every")
		search, _ := cmd.Flags().GetString("search")
		filterFlags, _ := cmd.Flags().GetStringArray("filter")
		filters, err := parsePairs("filter", filterFlags)
		if err != nil {
			return err
		}

		entity, render, err := exporterFor(ctx, args[0], search, filters)
		if err != nil {
			return err
		}

		var dests []export.Destination
		if out != "" {
			dests = append(dests, export.FileDestination{Path: out})
		}
		if toS3 {
			if cfg.Export.S3Bucket == "" {
				return errors.New("--s3 needs export.s3_bucket (or DATEADMIN_EXPORT_S3_BUCKET)")
			}
			d, err := export.NewS3Destination(ctx, cfg.Export.S3Bucket, cfg.Export.S3Key, cfg.Export.S3Region, cfg.Export.S3Endpoint)
			if err != nil {
				return err
			}
			dests = append(dests, d)
		}
		if len(dests) == 0 {
			dests = append(dests, export.WriterDestination{W: os.Stdout, Name: "stdout"})
		}

		produce := func(ctx context.Context) ([]byte, error) {
			var buf bytes.Buffer
			n, err := render(ctx, &buf)
			if err != nil {
				return nil, err
			}
			log.WithField("entity", entity).WithField("records", n).Info("rendered export")
			return buf.Bytes(), nil
		}

		if every <= 0 {
			data, err := produce(ctx)
			if err != nil {
				return err
			}
			if err := export.WriteAll(ctx, data, dests...); err != nil {
				return err
			}
			announceExport(ctx, entity, dests)
			return nil
		}

		s := export.NewScheduler(produce, dests, every, log)
		s.Start(ctx)
		<-ctx.Done()
		s.Stop()
		return nil
	},
}

type renderFunc func(ctx context.Context, w io.Writer) (int, error)

// exporterFor narrows the list behind name to the given search and filters
// and returns a renderer for it.
func exporterFor(ctx context.Context, name, search string, filters map[string]string) (model.EntityName, renderFunc, error) {
	switch strings.ToLower(name) {
	case "templates", "template":
		return exporter(ctx, model.EntityTemplate, app.Templates.List, search, filters)
	case "lounges", "lounge":
		return exporter(ctx, model.EntityLounge, app.Lounges.List, search, filters)
	case "faqs", "faq":
		return exporter(ctx, model.EntityFAQ, app.FAQs.List, search, filters)
	case "matches", "match":
		return exporter(ctx, model.EntityMatch, app.Matches.List, search, filters)
	}
	return "", nil, fmt.Errorf("cannot export %q (must be templates, lounges, faqs or matches)", name)
}

func exporter[T model.Entity](ctx context.Context, entity model.EntityName, list *listctl.Controller[T], search string, filters map[string]string) (model.EntityName, renderFunc, error) {
	if search != "" || len(filters) > 0 {
		err := list.Update(ctx, func(q *listctl.Query) {
			q.Search = search
			q.Filters = filters
		})
		if err != nil {
			return "", nil, err
		}
	}
	return entity, func(ctx context.Context, w io.Writer) (int, error) {
		return export.JSONL[T](ctx, entity, list, w)
	}, nil
}

func announceExport(ctx context.Context, entity model.EntityName, dests []export.Destination) {
	actor := ""
	if u := app.Session.State().User; u != nil {
		actor = u.Email
	}
	for _, d := range dests {
		m := events.Mutation{
			Entity: entity,
			Action: events.ActionExported,
			ID:     d.Location(),
			Actor:  actor,
		}
		if err := events.PublishMutation(ctx, publisher, m); err != nil {
			log.WithError(err).Warn("publishing export event")
		}
	}
	if !jsonOutput {
		for _, d := range dests {
			if d.Location() != "stdout" {
				fmt.Fprintf(os.Stderr, "Exported %s to %s at %s\n", entity, d.Location(), time.Now().Format("15:04:05"))
			}
		}
	}
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "write the dump to this file")
	exportCmd.Flags().Bool("s3", false, "upload the dump to the configured S3 bucket")
	exportCmd.Flags().Duration("every", 0, "repeat the export on this interval")
	exportCmd.Flags().StringP("search", "q", "", "only export records matching this search")
	exportCmd.Flags().StringArrayP("filter", "f", nil, "only export records matching key=value (repeatable)")
}
