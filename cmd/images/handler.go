package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/bollard/cmd/core"
	"github.com/projecteru2/bollard/columns"
	"github.com/projecteru2/bollard/images"
	"github.com/projecteru2/bollard/selector"
	"github.com/projecteru2/bollard/types"
)

var removeColumns = []columns.Column{columns.ID, columns.Repository, columns.Tag}

// engine is the slice of the Docker collaborator the handlers need.
type engine interface {
	images.Fetcher
	images.Lister
	images.Remover
}

type Handler struct {
	cmdcore.BaseHandler
}

type listOptions struct {
	columns  []string
	defaults []string
	orderBy  string
	filters  []string
	all      bool
	digests  bool
	noTrunc  bool
	quiet    bool
}

type removeOptions struct {
	yes   bool
	force bool
}

func (h Handler) List(cmd *cobra.Command, args []string) error {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	opts := listOptions{defaults: conf.Columns}
	opts.columns, _ = flags.GetStringArray("column")
	opts.orderBy, _ = flags.GetString("order-by")
	opts.filters, _ = flags.GetStringArray("filter")
	opts.all, _ = flags.GetBool("all")
	opts.digests, _ = flags.GetBool("digests")
	opts.noTrunc, _ = flags.GetBool("no-trunc")
	opts.quiet, _ = flags.GetBool("quiet")

	eng, err := cmdcore.InitEngine(conf)
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck
	return listImages(ctx, cmd.OutOrStdout(), eng, args, opts, cmdcore.Formats(conf, opts.noTrunc))
}

func (h Handler) Remove(cmd *cobra.Command, args []string) error {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return err
	}
	var opts removeOptions
	opts.yes, _ = cmd.Flags().GetBool("yes")
	opts.force, _ = cmd.Flags().GetBool("force")

	eng, err := cmdcore.InitEngine(conf)
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck
	return removeImages(ctx, cmd.OutOrStdout(), eng, args, opts, cmdcore.Formats(conf, false))
}

func listImages(ctx context.Context, w io.Writer, eng engine, args []string, opts listOptions, f columns.Formats) error {
	cols, err := resolveColumns(ctx, opts)
	if err != nil {
		return err
	}
	orderBy, desc, ordered, err := parseOrderBy(ctx, opts.orderBy, cols)
	if err != nil {
		return err
	}

	selectors, top := selector.ParseTopN(args)
	ids, err := eng.List(ctx, types.ListOptions{All: opts.all, Filters: opts.filters})
	if err != nil {
		return err
	}

	store := images.NewStore(eng)
	ids = store.Filter(ctx, ids, selectors, selector.NewTranslator())

	rows := columns.Collect(ctx, store, ids, cols, f)
	if ordered {
		rows = columns.Order(rows, orderBy, desc)
	}
	rows = columns.Truncate(rows, top)
	return columns.Render(w, cols, rows)
}

func removeImages(ctx context.Context, w io.Writer, eng engine, args []string, opts removeOptions, f columns.Formats) error {
	logger := log.WithFunc("images.Remove")

	ids, err := eng.List(ctx, types.ListOptions{})
	if err != nil {
		return err
	}
	store := images.NewStore(eng)
	picked := store.Pick(ctx, ids, args, selector.NewTranslator())
	if len(picked) == 0 {
		_, err := fmt.Fprintln(w, "No image to be removed")
		return err
	}

	title := "Would remove this image:"
	if len(picked) > 1 {
		title = "Would remove these images:"
	}
	fmt.Fprintf(w, "%s\n\n", title) //nolint:errcheck
	if err := columns.Render(w, removeColumns, columns.Collect(ctx, store, picked, removeColumns, f)); err != nil {
		return err
	}
	fmt.Fprintln(w) //nolint:errcheck

	if !opts.yes {
		_, err := fmt.Fprintln(w, "Nothing removed, re-run with --yes to proceed.")
		return err
	}

	fmt.Fprintln(w, "Removing...") //nolint:errcheck
	var errs []error
	for _, id := range picked {
		refs, err := eng.Remove(ctx, id, opts.force)
		if err != nil {
			logger.Warnf(ctx, "remove %s: %v", id, err)
			errs = append(errs, err)
			continue
		}
		for _, ref := range refs {
			fmt.Fprintln(w, ref) //nolint:errcheck
		}
	}
	return errors.Join(errs...)
}

// resolveColumns turns the column flags into the displayed columns.
// --quiet wins over everything, --digests appends the digest column.
func resolveColumns(ctx context.Context, opts listOptions) ([]columns.Column, error) {
	logger := log.WithFunc("images.resolveColumns")
	if opts.digests && len(opts.columns) > 0 {
		logger.Infof(ctx, "`--digests` is kept for docker compatibility, use `--column digest` instead")
	}
	if opts.quiet && len(opts.columns) > 0 {
		logger.Warnf(ctx, "`--quiet` overrides `--column` settings")
	}
	if opts.quiet && opts.digests {
		logger.Warnf(ctx, "`--quiet` overrides `--digests` setting")
	}

	names := opts.columns
	if len(names) == 0 {
		names = opts.defaults
	}
	if len(names) == 0 {
		names = []string{"default"}
	}
	if opts.digests {
		names = append(names[:len(names):len(names)], columns.Digest.String())
	}
	if opts.quiet {
		names = []string{columns.ID.String()}
	}

	cols, err := columns.Normalize(names)
	if err != nil {
		return nil, fmt.Errorf("parse columns: %w (choices: %s)", err, strings.Join(columns.Choices(), ", "))
	}
	return cols, nil
}

// parseOrderBy reads "COLUMN" or "-COLUMN". A column that is not displayed
// is dropped with a warning.
func parseOrderBy(ctx context.Context, value string, cols []columns.Column) (columns.Column, bool, bool, error) {
	if value == "" {
		return 0, false, false, nil
	}
	name, desc := strings.CutPrefix(value, "-")
	c, ok := columns.Parse(name)
	if !ok {
		return 0, false, false, fmt.Errorf("bad --order-by %q: unknown column", value)
	}
	for _, shown := range cols {
		if shown == c {
			return c, desc, true, nil
		}
	}
	names := make([]string, len(cols))
	for i, shown := range cols {
		names[i] = shown.String()
	}
	log.WithFunc("images.parseOrderBy").Warnf(ctx, "`--order-by` field (%s) not in selected columns (%s), ignored", c, strings.Join(names, ", "))
	return 0, false, false, nil
}
