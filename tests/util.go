package testutil

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	inmemstore "github.com/trezcool/academia/storage/docstore/inmem"
)

// Creator credentials configured by NewConfig.
const (
	CreatorSchoolCode = "ROOT"
	CreatorID         = "creator-secret"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
// go test runs in the package directory.
func ProjectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			log.Fatal("project root not found")
		}
		currDir = newDir
	}
}

// NewConfig returns a test configuration with the in-memory backend.
func NewConfig() *core.Config {
	return &core.Config{
		WorkDir:  ProjectRoot(),
		Env:      "TEST",
		TestMode: true,
		AppName:  "Academia",
		Build:    "test",
		Storage:  core.StorageConfig{Backend: core.StorageMemory},
		Creator:  core.CreatorConfig{SchoolCode: CreatorSchoolCode, Secret: CreatorID},
		Email:    core.EmailConfig{DefaultFromEmail: "Academia <noreply@academia.test>"},
	}
}

func NewLogger() core.Logger {
	return logsvc.NewNopLogger()
}

// NewValidator returns a validator with the app's custom tags and translations.
func NewValidator() *validator.Validate {
	validate, _ := NewTranslatedValidator()
	return validate
}

// NewTranslatedValidator also returns the translator the translations were registered on.
// Field errors only translate through that same instance.
func NewTranslatedValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewStore returns a store over an empty in-memory backend.
func NewStore(t *testing.T) *document.Store {
	t.Helper()
	return document.NewStore(inmemstore.New(), NewLogger())
}

// Publisher records published change keys.
type Publisher struct {
	mu     sync.Mutex
	events [][]string
}

func (p *Publisher) Publish(keys ...string) {
	p.mu.Lock()
	p.events = append(p.events, keys)
	p.mu.Unlock()
}

func (p *Publisher) Events() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.events...)
}

// Deps bundles a school.Service with its collaborators.
type Deps struct {
	Conf       *core.Config
	Store      *document.Store
	Validate   *validator.Validate
	Translator ut.Translator
	Mailer     *emailsvc.ConsoleServiceMock
	Publisher  *Publisher
	Service    *school.Service
}

// NewService wires a school.Service over a fresh in-memory store.
func NewService(t *testing.T) *Deps {
	t.Helper()
	conf := NewConfig()
	if err := core.ParseEmailTemplates(conf); err != nil {
		t.Fatalf("ParseEmailTemplates() failed: %v", err)
	}
	validate, translator := NewTranslatedValidator()
	d := &Deps{
		Conf:       conf,
		Store:      NewStore(t),
		Validate:   validate,
		Translator: translator,
		Mailer:     emailsvc.NewConsoleServiceMock(conf, NewLogger()),
		Publisher:  new(Publisher),
	}
	d.Service = school.NewService(conf, d.Store, d.Validate, d.Mailer, d.Publisher, NewLogger())
	return d
}

// LoadDocument fails the test if the document cannot be loaded.
func LoadDocument(t *testing.T, store *document.Store) *document.Document {
	t.Helper()
	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("LoadDocument() failed: %v", err)
	}
	return doc
}

// Mutate fails the test if the mutation cannot be applied.
func Mutate(t *testing.T, store *document.Store, fn func(doc *document.Document)) {
	t.Helper()
	_, err := store.Mutate(context.Background(), func(doc *document.Document) error {
		fn(doc)
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}
}
