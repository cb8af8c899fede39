package cmd

import (
	"context"
	"fmt"

	"github.com/grailbio/svdb/refdb"
)

type buildOpts struct {
	dataset  string
	release  string
	source   string
	oneBased bool
}

func build(ctx context.Context, opts buildOpts, srcPath, destPath string) error {
	if opts.dataset == "" {
		return fmt.Errorf("build: -dataset is required")
	}
	dataset, err := refdb.ParseDataset(opts.dataset)
	if err != nil {
		return err
	}
	rel, err := refdb.ParseRelease(opts.release)
	if err != nil {
		return err
	}
	_, err = refdb.Build(ctx, dataset, srcPath, destPath, refdb.BuildOpts{
		Release:       rel,
		Source:        opts.source,
		OneBasedInput: opts.oneBased,
	})
	return err
}
