package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/docstore"
	pgstore "github.com/trezcool/academia/storage/docstore/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	ctx := context.Background()
	cli := commandLine{out: os.Stdout}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		// the store runs pending migrations on open; migrate talks to the database directly.
		if conf.Storage.Backend != core.StoragePostgres {
			errAndDie(errors.Errorf("migrate: storage backend is %q, not postgres", conf.Storage.Backend))
		}
		db, err := pgstore.Open(ctx, conf.Database.URL)
		errAndDie(err)
		defer db.Close()
		cli.db = db.DB
	} else if len(os.Args) > 1 && os.Args[1] != "hashpassword" {
		dbLogger := logsvc.NewStdoutLogger("DB", conf)
		backend, closer, err := docstore.Open(ctx, conf, dbLogger)
		errAndDie(err)
		defer closeQuietly(closer)
		cli.store = document.NewStore(backend, dbLogger)
	}

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Printf("closing storage: %v", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
