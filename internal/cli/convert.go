package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/provider"
	"github.com/matzehuels/semtree/pkg/render/dot"
	"github.com/matzehuels/semtree/pkg/treeio"
)

// Output formats of the convert command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var formatExt = map[string]string{formatJSON: ".json", formatDOT: ".dot", formatSVG: ".svg"}

// convertOpts holds the command-line flags of the convert command that are
// not provider configuration.
type convertOpts struct {
	variant     string
	format      string
	output      string
	detailed    bool
	noCache     bool
	refresh     bool
	pick        bool
	concurrency int
}

// configFlags maps convert flags to provider config keys. Only flags the user
// set are forwarded, so a variant's values are not overridden by defaults.
var configFlags = map[string]string{
	"features":         "features",
	"max-recurse":      "maxRecurse",
	"max-links":        "maxLinks",
	"branch-threshold": "branchThreshold",
	"relations":        "relations",
	"font-size-factor": "fontSizeFactor",
	"expansion":        "expansion",
	"sweep":            "sweep",
	"orientation":      "orientation",
	"scheme":           "scheme",
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{variant: provider.DefaultVariant, format: formatJSON}

	cmd := &cobra.Command{
		Use:   "convert <source> [root...]",
		Short: "Convert concepts of a semantic graph into display trees",
		Long: `Convert one or more root concepts into bounded display trees.

The source is a graph document (JSON, TOML or YAML), a redis:// URL or a
mongodb:// URI. Without roots, the roots declared by the source are used.
A single tree goes to stdout unless -o is given; several trees are written as
<root>.<format> files into the -o directory.`,
		Example: `  semtree convert wordnet.toml n02084071
  semtree convert wordnet.toml n02084071 --variant compact -f svg -o dog.svg
  semtree convert redis://localhost:6379/0 --features forget-relation-node --max-links 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := formatExt[opts.format]; !ok {
				return fmt.Errorf("invalid format: %s (must be 'json', 'dot' or 'svg')", opts.format)
			}
			return c.runConvert(cmd.Context(), args[0], args[1:], configMap(cmd.Flags(), opts.variant), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.variant, "variant", opts.variant, "conversion variant (see 'semtree variants')")
	f.String("features", "", "feature flags: names (comma-separated) or a bit mask")
	f.Int("max-recurse", 0, "maximum relation recursion depth")
	f.Int("max-links", 0, "maximum children per node before truncation")
	f.Int("branch-threshold", 0, "group children into balanced groups above this count (0 disables)")
	f.String("relations", "", "relation kinds to walk (comma-separated)")
	f.Float64("font-size-factor", 1, "font size multiplier for renderers")
	f.Float64("expansion", 1, "level distance multiplier for renderers")
	f.Float64("sweep", 1, "sibling distance multiplier for renderers")
	f.String("orientation", treeio.OrientationRadial, "layout orientation: radial, north, south, east, west")
	f.String("scheme", "", "link scheme (default: the source's)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg")
	f.StringVarP(&opts.output, "output", "o", "", "output file, or directory for several roots")
	f.BoolVar(&opts.detailed, "detailed", false, "include node ids and metadata in dot/svg labels")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the tree cache")
	f.BoolVar(&opts.refresh, "refresh", false, "reconvert even when a cached tree exists")
	f.BoolVar(&opts.pick, "pick", false, "choose the variant interactively")
	f.IntVar(&opts.concurrency, "concurrency", provider.DefaultConcurrency, "conversions run in parallel")

	return cmd
}

// configMap collects the provider configuration from the flags set by the user.
func configMap(flags *pflag.FlagSet, variant string) map[string]any {
	raw := map[string]any{"variant": variant}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := configFlags[f.Name]; ok {
			raw[key] = f.Value.String()
		}
	})
	return raw
}

func (c *CLI) runConvert(ctx context.Context, source string, roots []string, raw map[string]any, opts *convertOpts) error {
	if opts.pick {
		reg, err := c.registry()
		if err != nil {
			return err
		}
		name, err := pickVariant(reg, opts.variant)
		if err != nil {
			return err
		}
		if name == "" {
			printDetail("No variant selected")
			return nil
		}
		raw["variant"] = name
	}

	runner, ch, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	spinner := newSpinner(ctx, "Opening "+source+"...")
	spinner.Start()
	defer spinner.Stop()

	p, err := c.openProvider(ctx, source, ch, diagnostics{logger: c.Logger, spinner: spinner})
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	defer p.Source().Close()

	cfg, unused, err := provider.DecodeConfig(raw, p.Registry())
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	if len(unused) > 0 {
		c.Logger.Debug("ignoring unknown config keys", "keys", unused)
	}

	if len(roots) == 0 {
		roots = rootsOf(p.Source())
	}
	if len(roots) == 0 {
		spinner.Stop()
		return errors.New(errors.ErrCodeInvalidInput, "no root given and %s declares none", source)
	}

	prog := newProgress(c.Logger)
	spinner.SetMessage(fmt.Sprintf("Converting %d root(s) with variant %s...", len(roots), cfg.Variant))
	results := runner.ConvertMany(ctx, p, roots, cfg, opts.refresh, opts.concurrency)
	spinner.Stop()

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
			printError("%s: %s", res.Root, errors.UserMessage(res.Err))
			continue
		}
		path, err := writeResult(ctx, res, opts, len(roots) > 1)
		if err != nil {
			return err
		}
		printSuccess("Converted %s", res.Root)
		printStats(res.Tree.Len(), res.Tree.Depth(), res.Report.Omitted, res.CacheHit, res.Status == provider.StatusPartial)
		if path != "" {
			printFile(path)
		}
	}
	prog.done(fmt.Sprintf("Converted %d of %d trees", len(results)-failed, len(results)))

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}

// writeResult encodes res and writes it to stdout, the output file or a file
// in the output directory. It returns the written path, or "" for stdout.
func writeResult(ctx context.Context, res *provider.Result, opts *convertOpts, many bool) (string, error) {
	data, err := encodeResult(ctx, res, opts.format, opts.detailed)
	if err != nil {
		return "", err
	}

	path := opts.output
	if many {
		dir := opts.output
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(dir, safeFileName(res.Root)+formatExt[opts.format])
	}

	if path == "" {
		if opts.format == formatSVG && stdoutIsTerminal() {
			return "", fmt.Errorf("refusing to write SVG to a terminal; use -o")
		}
		_, err := os.Stdout.Write(data)
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func encodeResult(ctx context.Context, res *provider.Result, format string, detailed bool) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot.ToDOT(res.Tree, dot.Options{Settings: res.Settings, Images: res.Images, Detailed: detailed})), nil
	case formatSVG:
		return dot.RenderSVG(ctx, dot.ToDOT(res.Tree, dot.Options{Settings: res.Settings, Images: res.Images, Detailed: detailed}))
	default:
		return treeio.Marshal(res.Document())
	}
}

// safeFileName replaces path separators in concept IDs.
func safeFileName(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(id)
}
