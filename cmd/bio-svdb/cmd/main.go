package cmd

import (
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func newCmdBuild() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "build",
		Short:    "Convert a TSV or BED source into a dataset file",
		ArgsName: "srcpath destpath",
		Long: `
TAD sets are read from BED files. The other datasets are read from TSV files
whose header row names the columns: chrom, begin, end (0-based, half-open),
followed by

  clinvar:     variation_type, pathogenicity, vcv
  pathogenic:  sv_type, id
  bg:          sv_type, count
  genes:       ensembl_id, entrez_id, symbol

Rows on chromosomes outside 1-22, X, Y, MT are skipped.`,
	}
	opts := buildOpts{}
	cmd.Flags.StringVar(&opts.dataset, "dataset", "", "Dataset type: clinvar, pathogenic, tads, bg or genes")
	cmd.Flags.StringVar(&opts.release, "release", "grch37", "Genome release of the coordinates: grch37 (hg19) or grch38 (hg38)")
	cmd.Flags.StringVar(&opts.source, "source", "", "Provenance recorded in the file. Defaults to srcpath")
	cmd.Flags.BoolVar(&opts.oneBased, "one-based", false, "Interpret BED coordinates as 1-based, closed intervals")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("build takes srcpath destpath, but got %v", argv)
		}
		return build(vcontext.Background(), opts, argv[0], argv[1])
	})
	return cmd
}

func newCmdQuery() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "query",
		Short:    "Print the records of a dataset overlapping a region",
		ArgsName: "region",
		Long: `
The region has the form chr:begin-end (1-based, closed, thousands separators
allowed), chr:pos, or chr. Records are printed as JSON, one per line.

With -sv-type, the region is treated as a structural variant: ClinVar records
must reach -min-overlap reciprocal overlap, and for background catalogs the
summed carrier count of compatible records is printed instead.`,
	}
	opts := queryOpts{}
	cmd.Flags.StringVar(&opts.root, "root", "", "Database directory")
	cmd.Flags.StringVar(&opts.release, "release", "grch37", "Genome release: grch37 (hg19) or grch38 (hg38)")
	cmd.Flags.StringVar(&opts.dataset, "dataset", "clinvar", "Dataset type: clinvar, pathogenic, tads, bg or genes")
	cmd.Flags.StringVar(&opts.variant, "variant", "", "TAD set (hesc, imr90) or background catalog (gnomad, dgv, dgv-gs, exac, g1k, dbvar, inhouse)")
	cmd.Flags.StringVar(&opts.minPathogenicity, "min-pathogenicity", "benign", "Minimum ClinVar pathogenicity")
	cmd.Flags.StringVar(&opts.svType, "sv-type", "", "Query as a structural variant of this type (DEL, DUP, INV, INS, BND, CNV)")
	cmd.Flags.Float64Var(&opts.minOverlap, "min-overlap", 0, "Minimum reciprocal overlap for -sv-type queries")
	cmd.Flags.BoolVar(&opts.allowMissing, "allow-missing", true, "Treat missing dataset files as empty")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("query takes one region argument, but got %v", argv)
		}
		if opts.root == "" {
			return fmt.Errorf("query: -root is required")
		}
		return query(vcontext.Background(), opts, argv[0], env.Stdout)
	})
	return cmd
}

func newCmdInfo() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "info",
		Short:    "Print the header and summary of dataset files",
		ArgsName: "path...",
	}
	verify := cmd.Flags.Bool("verify", false, "Decode every record and check the record counts")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("info takes one or more paths")
		}
		ctx := vcontext.Background()
		for _, path := range argv {
			if err := info(ctx, path, *verify, env.Stdout); err != nil {
				return err
			}
		}
		return nil
	})
	return cmd
}

// Run runs the command line args and returns the exit code.
func Run(args []string) int {
	cmdline.HideGlobalFlagsExcept()
	root := &cmdline.Command{
		Name:     "bio-svdb",
		Short:    "Tools for building and querying structural-variant reference databases",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdBuild(),
			newCmdQuery(),
			newCmdInfo(),
		},
	}
	return cmdline.ExitCode(cmdline.ParseAndRun(root, cmdline.EnvFromOS(), args), os.Stderr)
}
