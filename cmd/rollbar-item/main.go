// rollbar-item prints the details of a single Rollbar item: it resolves the
// item counter shown in the Rollbar UI, fetches the item and its latest
// occurrence, and prints a short summary or the full JSON. With --list it
// prints the active or most recent items instead, narrowed by the filter
// flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	client "github.com/peteraglen/rollbar-go-client"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)

	var usage usageError
	if errors.As(err, &usage) {
		os.Exit(exitUsage)
	}
	os.Exit(exitFailure)
}

type flags struct {
	project    string
	item       string
	list       string
	configPath string
	baseURL    string
	asJSON     bool
	verbose    bool
	listing    listFlags
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("rollbar-item", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.project, "project", "p", "", "configured project name (default: the active project)")
	flagSet.StringVarP(&f.item, "item", "i", "", "item counter as shown in the Rollbar UI")
	flagSet.StringVar(&f.configPath, "config", "", "path to the project config file")
	flagSet.StringVar(&f.baseURL, "base-url", client.DefaultBaseURL, "Rollbar API base URL")
	flagSet.BoolVar(&f.asJSON, "json", false, "print the item detail as JSON")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log requests to stderr")
	flagSet.StringVar(&f.list, "list", "", "list items instead of showing one: active or recent")
	f.listing.register(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageError{err}
	}

	if rest := flagSet.Args(); len(rest) > 0 {
		return usageError{fmt.Errorf("unexpected argument: %s", rest[0])}
	}

	var (
		counter client.Counter
		filter  client.ItemFilter
		err     error
	)
	switch {
	case f.list != "" && f.item != "":
		return usageError{errors.New("--item and --list are mutually exclusive")}
	case f.list != "":
		if f.list != listActive && f.list != listRecent {
			return usageError{fmt.Errorf("--list must be %s or %s, got %q", listActive, listRecent, f.list)}
		}
		if filter, err = f.listing.filter(flagSet); err != nil {
			return usageError{err}
		}
	case f.item == "":
		return usageError{errors.New("--item or --list is required")}
	default:
		if name, ok := f.listing.changed(flagSet); ok {
			return usageError{fmt.Errorf("--%s requires --list", name)}
		}
		if counter, err = client.ParseCounter(f.item); err != nil {
			return usageError{err}
		}
	}

	configPath := f.configPath
	if configPath == "" {
		if configPath, err = defaultConfigPath(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	token, projectName, err := cfg.resolveToken(f.project)
	if err != nil {
		return usageError{err}
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(token,
		client.WithBaseURL(f.baseURL),
		client.WithRequestLogger(client.NewSlogLogger(logger)),
	)
	if err != nil {
		return err
	}

	if f.list != "" {
		logger.Debug("listing items", "project", projectName, "list", f.list)
		return runList(ctx, c, f, filter, stdout)
	}

	logger.Debug("showing item", "project", projectName, "counter", counter.String())

	detail, err := c.ShowItem(ctx, counter)
	if err != nil {
		return err
	}

	if f.asJSON {
		return writeJSON(stdout, detail)
	}

	printDetail(stdout, detail)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printDetail(w io.Writer, detail client.ItemDetail) {
	item := detail.Item

	fmt.Fprintf(w, "#%s  %s\n", item.Counter, item.Title)
	fmt.Fprintf(w, "id:          %s\n", item.ID)
	fmt.Fprintf(w, "status:      %s\n", item.Status)
	if item.Level != "" {
		fmt.Fprintf(w, "level:       %s\n", item.Level)
	}
	if item.Environment != nil {
		fmt.Fprintf(w, "environment: %s\n", *item.Environment)
	}
	if item.TotalOccurrences != nil {
		fmt.Fprintf(w, "occurrences: %d\n", *item.TotalOccurrences)
	}
	if detail.Instance != nil && detail.Instance.Timestamp != nil {
		fmt.Fprintf(w, "last seen:   %s\n", detail.Instance.Time().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "main error:  %s\n", detail.MainError)
}
