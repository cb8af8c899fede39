package main

import (
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/svdb/cmd/bio-svdb/cmd"
)

func main() {
	shutdown := grail.Init()
	// Database roots and build sources may live on S3.
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	code := cmd.Run(os.Args[1:])
	shutdown()
	os.Exit(code)
}
