package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core/document"
)

func (cli *commandLine) reseed() error {
	if _, err := cli.store.Reseed(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "document reseeded")
	return nil
}

func (cli *commandLine) export(path string) error {
	doc, err := cli.store.Load(context.Background())
	if err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(cli.out, string(data))
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	fmt.Fprintf(cli.out, "document exported to %s\n", path)
	return nil
}

func (cli *commandLine) importDocument(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading import")
	}
	imported, err := document.Decode(data)
	if err != nil {
		return err
	}
	_, err = cli.store.Mutate(context.Background(), func(doc *document.Document) error {
		*doc = *imported
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "document imported from %s\n", path)
	return nil
}

func (cli *commandLine) hashPassword(pwd []byte) error {
	hash, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	fmt.Fprintln(cli.out, string(hash))
	return nil
}
