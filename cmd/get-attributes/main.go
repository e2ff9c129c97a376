// Command get-attributes prints one attribute of a token metadata file.
//
//	get-attributes <name|description|content|emissionMultiple|status> --path token.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/smarsx/larena/internal/metadata"
	"github.com/smarsx/larena/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("error loading .env file")
	}

	if len(args) == 0 || len(args[0]) == 0 || args[0][0] == '-' {
		fmt.Fprintln(stderr, "usage: get-attributes <type> --path file.json")
		return exitUsage
	}
	field := args[0]

	fs := flag.NewFlagSet("get-attributes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "Path to the token metadata JSON file")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}
	if *path == "" || fs.NArg() > 0 {
		fmt.Fprintln(stderr, "usage: get-attributes <type> --path file.json")
		return exitUsage
	}

	entry := log.WithComponent("get_attributes").WithFields(logger.Fields{
		"type": field,
		"path": *path,
	})

	token, err := metadata.Load(*path)
	if err != nil {
		entry.WithError(err).Error("failed to read metadata")
		return exitError
	}
	value, err := token.Field(field)
	if err != nil {
		entry.WithError(err).Error("failed to extract attribute")
		if errors.Is(err, metadata.ErrUnknownField) {
			return exitUsage
		}
		return exitError
	}

	fmt.Fprintln(stdout, value)
	return exitOK
}
