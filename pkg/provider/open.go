package provider

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/semantic/mongostore"
	"github.com/matzehuels/semtree/pkg/semantic/redisstore"
)

// Open resolves a source URI:
//
//	path/to/graph.toml, file:///abs/graph.json   graph document (JSON, TOML, YAML)
//	redis://host:6379/0, rediss://...            redisstore
//	mongodb://host/db, mongodb+srv://...          mongostore
//
// A source that cannot be opened is a SOURCE_UNAVAILABLE error; a malformed
// document is INVALID_FORMAT.
func Open(ctx context.Context, uri string) (semantic.Source, error) {
	if err := errors.ValidateSourceURI(uri); err != nil {
		return nil, err
	}

	var (
		src semantic.Source
		err error
	)
	switch {
	case strings.HasPrefix(uri, "redis://"), strings.HasPrefix(uri, "rediss://"):
		src, err = redisstore.Open(ctx, uri)
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		src, err = mongostore.Open(ctx, uri)
	default:
		src, err = semantic.OpenFile(strings.TrimPrefix(uri, "file://"))
	}
	if err != nil {
		return nil, openError(uri, err)
	}
	return src, nil
}

func openError(uri string, err error) error {
	if stderrors.Is(err, semantic.ErrInvalidDocument) {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", uri)
	}
	return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "open %s", uri)
}

// SchemeOf returns the link scheme a source declares, or "".
func SchemeOf(src semantic.Source) string {
	for {
		if n, ok := src.(semantic.Named); ok {
			return n.Scheme()
		}
		u, ok := src.(interface{ Unwrap() semantic.Source })
		if !ok {
			return ""
		}
		src = u.Unwrap()
	}
}
