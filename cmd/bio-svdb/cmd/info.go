package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/base/log"
	"github.com/grailbio/svdb/chrom"
	"github.com/grailbio/svdb/encoding/svdb"
)

func info(ctx context.Context, path string, verify bool, out io.Writer) (err error) {
	dec, err := svdb.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dec.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	s, err := dec.Decode(svdb.Schema{})
	if err != nil {
		return err
	}
	h := s.Header()
	fmt.Fprintf(out, "%s:\n", path)
	fmt.Fprintf(out, "\tversion: %s\n", h.Version)
	fmt.Fprintf(out, "\tdataset: %s\n", h.Dataset)
	fmt.Fprintf(out, "\tschema: %s\n", svdb.Schema{Columns: h.Columns})
	fmt.Fprintf(out, "\tsize: %s\n", humanize.Bytes(uint64(dec.Size())))
	if in := s.Info(); in != nil {
		fmt.Fprintf(out, "\trelease: %s\n", in.Release)
		fmt.Fprintf(out, "\tsource: %s\n", in.Source)
		fmt.Fprintf(out, "\trecords: %s\n", humanize.Comma(int64(in.NumRecords)))
		for i, n := range in.ChromCounts {
			if n == 0 {
				continue
			}
			name, err := chrom.Default.Name(i)
			if err != nil {
				name = fmt.Sprintf("#%d", i)
			}
			fmt.Fprintf(out, "\t\t%s\t%s\n", name, humanize.Comma(int64(n)))
		}
	}
	if !verify {
		return s.Finish()
	}
	n := 0
	for s.Scan() {
		n++
	}
	if err := s.Finish(); err != nil {
		return err
	}
	log.Printf("%s: verified %s records", path, humanize.Comma(int64(n)))
	fmt.Fprintf(out, "\tverified: ok\n")
	return nil
}
