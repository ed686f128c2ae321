package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratumdata/stratum/pkg/compression"
	"github.com/stratumdata/stratum/pkg/config"
	"github.com/stratumdata/stratum/pkg/formats"
	"github.com/stratumdata/stratum/pkg/logger"
	"github.com/stratumdata/stratum/pkg/render"
	"github.com/stratumdata/stratum/pkg/table"
	"github.com/stratumdata/stratum/pkg/value"
	"github.com/stratumdata/stratum/pkg/view"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var configFile, separator, logLevel string
	profile := config.Default()

	root := &cobra.Command{
		Use:   "stratum",
		Short: "Stratum - layered views over tabular data",
		Long: `Stratum reads delimited text, JSON, Arrow and Avro files into typed
in-memory tables and prints, reshapes, groups and converts them through
immutable layered views.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadProfile(configFile, separator, logLevel)
			if err != nil {
				return err
			}
			*profile = *loaded
			return logger.Init(profile.Logging.LoggerConfig())
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML profile (optional)")
	root.PersistentFlags().StringVar(&separator, "separator", "", "Cell separator for delimited files (overrides the profile)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stratum v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// View command
	var viewOpts viewOptions
	viewCmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Print a file as an aligned listing",
		Long: `Print a file as an aligned listing with physical row indices.

The listing can be reshaped before printing: select columns, sort by a
column, reverse the order, and trim to the first or last rows.

Example:
  stratum view sales.csv --columns city,total --sort total --reverse --head 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.OutOrStdout(), args[0], profile, viewOpts)
		},
	}
	viewCmd.Flags().StringSliceVar(&viewOpts.columns, "columns", nil, "Columns to show, in order")
	viewCmd.Flags().StringVar(&viewOpts.sortBy, "sort", "", "Sort rows by this column")
	viewCmd.Flags().BoolVar(&viewOpts.reverse, "reverse", false, "Reverse the row order")
	viewCmd.Flags().IntVar(&viewOpts.head, "head", 0, "Show only the first n rows")
	viewCmd.Flags().IntVar(&viewOpts.tail, "tail", 0, "Show only the last n rows")
	root.AddCommand(viewCmd)

	// Group command
	var groupBy string
	var distribution bool
	groupCmd := &cobra.Command{
		Use:   "group <file>",
		Short: "Group rows by a column",
		Long: `Group rows by the values of one column and print each group as its own
listing, in first-occurrence order.

With --distribution, print how many groups exist of each size instead,
ascending by size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd.OutOrStdout(), args[0], profile, groupBy, distribution)
		},
	}
	groupCmd.Flags().StringVar(&groupBy, "by", "", "Column to group by (required)")
	_ = groupCmd.MarkFlagRequired("by")
	groupCmd.Flags().BoolVar(&distribution, "distribution", false, "Print the group size distribution")
	root.AddCommand(groupCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize a file's columns",
		Long: `Print the row and column counts, then one line per column with its
resolved kind and the number of distinct values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.OutOrStdout(), args[0], profile)
		},
	}
	root.AddCommand(statsCmd)

	// Convert command
	convertCmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a file between formats",
		Long: `Convert between delimited text, JSON, Arrow and Avro. Both formats are
inferred from file extensions; a trailing compression extension adds a
compression layer.

Example:
  stratum convert sales.csv sales.arrow
  stratum convert sales.arrow sales.json.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], profile)
		},
	}
	root.AddCommand(convertCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProfile loads the YAML profile and applies flag overrides.
func loadProfile(path, separator, logLevel string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("profile error: %w", err)
		}
	}
	if separator != "" {
		cfg.Ingest.Separator = separator
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("profile error: %w", err)
	}
	return cfg, nil
}

// readInput loads path into a table. Files without a recognized format
// extension are read as delimited text. A ".tsv" extension implies a
// tab separator unless the profile names a non-default one.
func readInput(path string, cfg *config.Config) (*table.Table, error) {
	sep, err := cfg.Ingest.SeparatorRune()
	if err != nil {
		return nil, err
	}
	if format, ok := formats.DetectFormat(path); !ok || format == formats.CSV {
		if sep == table.DefaultSeparator {
			sep = formats.DetectSeparator(path)
		}
		return table.ReadFile(path, sep)
	}
	return formats.ReadFile(path)
}

type viewOptions struct {
	columns []string
	sortBy  string
	reverse bool
	head    int
	tail    int
}

// replaceView releases the old handle and adopts the next layer.
func replaceView(old, next *view.View) *view.View {
	old.Release()
	return next
}

func runView(w io.Writer, path string, cfg *config.Config, opts viewOptions) error {
	tbl, err := readInput(path, cfg)
	if err != nil {
		return err
	}

	v := view.New(tbl)
	if len(opts.columns) > 0 {
		next, err := v.Select(opts.columns...)
		if err != nil {
			v.Release()
			return err
		}
		v = replaceView(v, next)
	}
	if opts.sortBy != "" {
		next, err := sortByColumn(v, opts.sortBy)
		if err != nil {
			v.Release()
			return err
		}
		v = replaceView(v, next)
	}
	if opts.reverse {
		v = replaceView(v, v.Reverse())
	}
	if opts.head > 0 {
		v = replaceView(v, v.Head(opts.head))
	}
	if opts.tail > 0 {
		v = replaceView(v, v.Tail(opts.tail))
	}
	defer v.Release()

	return render.Fprint(w, v)
}

// sortByColumn sorts with a key matching the column's kind, so numeric
// and time columns order by value rather than by spelling.
func sortByColumn(v *view.View, name string) (*view.View, error) {
	j, err := visibleColumn(v, name)
	if err != nil {
		return nil, err
	}
	switch formats.ColumnKinds(v)[j] {
	case value.KindInteger:
		return view.SortBy(v, func(r view.Row) int32 {
			n, _ := r.At(j).AsInt()
			return n
		}), nil
	case value.KindFloat:
		return view.SortBy(v, func(r view.Row) float32 {
			f, _ := r.At(j).AsFloat()
			return f
		}), nil
	case value.KindTimestamp:
		return view.SortBy(v, func(r view.Row) int64 {
			ts, _ := r.At(j).AsTime()
			return ts.Time().Unix()
		}), nil
	default:
		return view.SortBy(v, func(r view.Row) string {
			return r.At(j).String()
		}), nil
	}
}

// visibleColumn resolves a column name to its visible index.
func visibleColumn(v *view.View, name string) (int, error) {
	for j, header := range v.Headers() {
		if header == name {
			return j, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", name)
}

func runGroup(w io.Writer, path string, cfg *config.Config, by string, distribution bool) error {
	tbl, err := readInput(path, cfg)
	if err != nil {
		return err
	}
	v := view.New(tbl)
	defer v.Release()

	j, err := visibleColumn(v, by)
	if err != nil {
		return err
	}
	groups := view.GroupBy(v, func(r view.Row) string { return r.At(j).String() })
	defer groups.Release()

	if distribution {
		summary := table.New("size", "count")
		for _, sc := range groups.Distribution() {
			if err := summary.AppendRow(value.Int(int32(sc.Size)), value.Int(int32(sc.Count))); err != nil {
				return err
			}
		}
		sv := view.New(summary)
		defer sv.Release()
		return render.Fprint(w, sv)
	}

	for i := 0; i < groups.Len(); i++ {
		key, bucket := groups.At(i)
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d rows)\n", key, bucket.Len())
		if err := render.Fprint(w, bucket); err != nil {
			return err
		}
	}
	return nil
}

func runStats(w io.Writer, path string, cfg *config.Config) error {
	tbl, err := readInput(path, cfg)
	if err != nil {
		return err
	}
	v := view.New(tbl)
	defer v.Release()

	fmt.Fprintf(w, "rows: %d\ncolumns: %d\n\n", v.Len(), v.NumColumns())

	kinds := formats.ColumnKinds(v)
	summary := table.New("column", "kind", "distinct")
	for j, name := range v.Headers() {
		seen, err := view.FoldColumn(v, name, make(map[string]struct{}),
			func(acc map[string]struct{}, val value.Value) map[string]struct{} {
				acc[val.String()] = struct{}{}
				return acc
			})
		if err != nil {
			return err
		}
		if err := summary.AppendRow(value.Str(name), value.Str(kinds[j].String()), value.Int(int32(len(seen)))); err != nil {
			return err
		}
	}

	sv := view.New(summary)
	defer sv.Release()
	return render.Fprint(w, sv)
}

func runConvert(in, out string, cfg *config.Config) error {
	format, ok := formats.DetectFormat(out)
	if !ok {
		return fmt.Errorf("cannot infer an output format from %q", filepath.Base(out))
	}
	sep, err := cfg.Ingest.SeparatorRune()
	if err != nil {
		return err
	}
	if sep == table.DefaultSeparator {
		sep = formats.DetectSeparator(out)
	}
	level, err := cfg.Export.Level()
	if err != nil {
		return err
	}

	tbl, err := readInput(in, cfg)
	if err != nil {
		return err
	}
	v := view.New(tbl)
	defer v.Release()

	log := logger.Get().With(zap.String("component", "stratum-cli"))
	start := time.Now()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	cw, err := compression.NewStreamWriter(f, compression.DetectAlgorithm(out), level)
	if err != nil {
		f.Close()
		return err
	}
	writerConfig := &formats.WriterConfig{
		Format:    format,
		Separator: sep,
		AvroCodec: cfg.Export.AvroCodec,
		BatchSize: cfg.Export.BatchSize,
	}
	if err := formats.ExportView(cw, v, writerConfig); err != nil {
		cw.Close()
		f.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", out, err)
	}

	log.Info("converted",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("rows", tbl.Len()),
		zap.Duration("duration", time.Since(start)))
	return nil
}
