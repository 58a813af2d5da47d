package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/semantic/mongostore"
	"github.com/matzehuels/semtree/pkg/semantic/redisstore"
)

// importCommand loads a graph document into a Redis or MongoDB store.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <document> <redis://...|mongodb://...>",
		Short: "Load a graph document into a Redis or MongoDB store",
		Long: `Load every concept of a graph document (JSON, TOML or YAML) into a store,
replacing concepts with the same ID. The document header (name, scheme, roots)
is stored alongside, so the store can be used as a convert source.`,
		Example: `  semtree import wordnet.toml redis://localhost:6379/0
  semtree import wordnet.json mongodb://localhost:27017/wordnet`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runImport(ctx context.Context, path, target string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	doc, err := semantic.ReadDocumentFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Importing %d concepts...", len(doc.Concepts)))
	spinner.Start()

	var n int
	switch {
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		n, err = redisstore.ImportURL(ctx, target, doc)
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		n, err = mongostore.ImportURI(ctx, target, doc)
	default:
		spinner.Stop()
		return errors.New(errors.ErrCodeInvalidSource, "import target must be a redis:// or mongodb:// URI, got %q", target)
	}
	if err != nil {
		spinner.StopWithError("Import failed")
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "import into %s", target)
	}

	spinner.StopWithSuccess(fmt.Sprintf("Imported %d concepts", n))
	printKeyValue("Graph", doc.Name)
	printKeyValue("Scheme", doc.Scheme)
	printKeyValue("Roots", strings.Join(doc.Roots, ", "))
	prog.done("Import finished")
	printNextStep("Convert from the store", fmt.Sprintf("%s convert %s", appName, target))
	return nil
}
