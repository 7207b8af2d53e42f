package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/academia/core/document"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no postgres database configured")
	errNoStore    = errors.New("no document store configured")
)

type commandLine struct {
	store *document.Store
	db    *sql.DB // postgres backend only
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  reseed - replace the whole document with the seed data")
	fmt.Fprintln(cli.out, "  export [-o FILE] - write the document as JSON to FILE (default: stdout)")
	fmt.Fprintln(cli.out, "  import -i FILE - replace the whole document with the JSON in FILE")
	fmt.Fprintln(cli.out, "  hashpassword - print a bcrypt hash of the prompted password, usable as CREATOR_ID")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (postgres backend)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportOut := exportCmd.String("o", "", "The output file. Defaults to stdout.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importCmd.SetOutput(cli.out)
	importIn := importCmd.String("i", "", "The JSON file holding the document to import.")

	switch args[1] {
	case "reseed":
		if cli.store == nil {
			return errNoStore
		}
		return cli.reseed()

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if cli.store == nil {
			return errNoStore
		}
		return cli.export(*exportOut)

	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		if cli.store == nil {
			return errNoStore
		}
		return cli.importDocument(*importIn)

	case "hashpassword":
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if cli.db == nil {
			return errNoDatabase
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}
