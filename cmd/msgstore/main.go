// Command msgstore manages database-backed message catalogs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"msgstore/internal/application"
	"msgstore/internal/config"
	"msgstore/internal/domain"
	"msgstore/internal/infrastructure/i18n"
)

// errNotApplied is returned when a command ran but changed nothing.
var errNotApplied = errors.New("not applied")

const usage = `usage: msgstore [-catalog name] <command> [args]

commands:
  migrate                               apply database migrations
  catalogues                            list catalogs
  info <locale>                         show catalog metadata
  show <locale>                         list the messages of a catalog
  add <locale> <message>...             append untranslated messages
  update <locale> <source> <target> [comments]
  delete <locale> <source>
  translate <locale> <source>           print the translation of source
  export <locale>                       print a go-i18n TOML message file
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errNotApplied) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("msgstore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	catalogue := fs.String("catalog", domain.DefaultCatalogue, "Catalog base name")

	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}
	cmd, rest := rest[0], rest[1:]

	b, err := openBackend(ctx, cfg, cmd == "migrate")
	if err != nil {
		return err
	}
	defer b.Close()

	c := &cli{
		src:       application.NewMessageSource(b.repo, b.cache),
		tr:        i18n.NewTranslator(cfg.Locale),
		locale:    cfg.Locale,
		catalogue: *catalogue,
		out:       stdout,
	}

	switch cmd {
	case "migrate":
		c.say("cli.migrated", nil)
		return nil
	case "catalogues":
		return c.catalogues(ctx)
	case "info":
		return c.withLocale(rest, 1, func(locale string, _ []string) error { return c.info(ctx, locale) })
	case "show":
		return c.withLocale(rest, 1, func(locale string, _ []string) error { return c.show(ctx, locale) })
	case "add":
		return c.withLocale(rest, 2, func(locale string, args []string) error { return c.add(ctx, locale, args) })
	case "update":
		return c.withLocale(rest, 3, func(locale string, args []string) error {
			comments := ""
			if len(args) > 2 {
				comments = args[2]
			}
			return c.update(ctx, locale, args[0], args[1], comments)
		})
	case "delete":
		return c.withLocale(rest, 2, func(locale string, args []string) error { return c.delete(ctx, locale, args[0]) })
	case "translate":
		return c.withLocale(rest, 2, func(locale string, args []string) error { return c.translate(ctx, locale, args[0]) })
	case "export":
		return c.withLocale(rest, 1, func(locale string, _ []string) error { return c.export(ctx, locale) })
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type cli struct {
	src       *application.MessageSource
	tr        *i18n.Translator
	locale    string
	catalogue string
	out       io.Writer
}

func (c *cli) withLocale(args []string, want int, fn func(locale string, args []string) error) error {
	if len(args) < want {
		return fmt.Errorf("expected at least %d argument(s), got %d", want, len(args))
	}
	return fn(args[0], args[1:])
}

func (c *cli) say(key string, data map[string]any) {
	fmt.Fprintln(c.out, c.tr.T(c.locale, key, data))
}

func (c *cli) variant(locale string) string {
	return application.ResolveVariant(c.catalogue, locale)
}

func (c *cli) catalogues(ctx context.Context) error {
	refs, err := c.src.Catalogues(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		c.say("cli.no_catalogs", nil)
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, ref := range refs {
		locale := ref.Locale
		if locale == "" {
			locale = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", ref.Name, locale)
	}
	return w.Flush()
}

func (c *cli) info(ctx context.Context, locale string) error {
	cat, err := c.src.CatalogInfo(ctx, c.catalogue, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		c.say("cli.not_found", map[string]any{"Variant": c.variant(locale)})
		return errNotApplied
	}
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%d\n", cat.ID)
	fmt.Fprintf(w, "name\t%s\n", cat.Name)
	fmt.Fprintf(w, "source\t%s\n", cat.SourceLang)
	fmt.Fprintf(w, "target\t%s\n", cat.TargetLang)
	fmt.Fprintf(w, "author\t%s\n", cat.Author)
	modified := "-"
	if t := cat.ModifiedAt(); !t.IsZero() {
		modified = t.Format(time.RFC3339)
	}
	fmt.Fprintf(w, "modified\t%s\n", modified)
	return w.Flush()
}

func (c *cli) show(ctx context.Context, locale string) error {
	table, err := c.src.Read(ctx, c.catalogue, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		c.say("cli.not_found", map[string]any{"Variant": c.variant(locale)})
		return errNotApplied
	}
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		c.say("cli.empty", map[string]any{"Variant": c.variant(locale)})
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, e := range table.Entries() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Source, e.Target, e.Comments)
	}
	return w.Flush()
}

func (c *cli) add(ctx context.Context, locale string, messages []string) error {
	variant := c.variant(locale)
	n, err := c.src.Append(ctx, messages, c.catalogue, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) || errors.Is(err, domain.ErrCatalogAmbiguous) {
		c.say("cli.not_found", map[string]any{"Variant": variant})
		return errNotApplied
	}
	if err != nil {
		return err
	}
	if n == 0 {
		c.say("cli.not_saved", map[string]any{"Variant": variant})
		return errNotApplied
	}
	c.say("cli.saved", map[string]any{"Count": n, "Variant": variant})
	return nil
}

func (c *cli) update(ctx context.Context, locale, source, target, comments string) error {
	data := map[string]any{"Source": source, "Variant": c.variant(locale)}
	ok, err := c.src.Update(ctx, source, target, comments, c.catalogue, locale)
	if err != nil {
		return err
	}
	if !ok {
		c.say("cli.not_updated", data)
		return errNotApplied
	}
	c.say("cli.updated", data)
	return nil
}

func (c *cli) delete(ctx context.Context, locale, source string) error {
	data := map[string]any{"Source": source, "Variant": c.variant(locale)}
	ok, err := c.src.Delete(ctx, source, c.catalogue, locale)
	if err != nil {
		return err
	}
	if !ok {
		c.say("cli.not_deleted", data)
		return errNotApplied
	}
	c.say("cli.deleted", data)
	return nil
}

func (c *cli) translate(ctx context.Context, locale, source string) error {
	table, err := c.src.Read(ctx, c.catalogue, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		c.say("cli.not_found", map[string]any{"Variant": c.variant(locale)})
		return errNotApplied
	}
	if err != nil {
		return err
	}
	bundle := i18n.NewTranslator(locale)
	if err := bundle.AddTable(locale, table); err != nil {
		return err
	}
	fmt.Fprintln(c.out, bundle.T(locale, source, nil))
	return nil
}

func (c *cli) export(ctx context.Context, locale string) error {
	table, err := c.src.Read(ctx, c.catalogue, locale)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		c.say("cli.not_found", map[string]any{"Variant": c.variant(locale)})
		return errNotApplied
	}
	if err != nil {
		return err
	}
	data, err := i18n.MarshalMessageFile(table)
	if err != nil {
		return fmt.Errorf("marshal message file: %w", err)
	}
	_, err = c.out.Write(data)
	return err
}
