package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/ai"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
	aisvc "github.com/trezcool/academia/services/ai"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	metricsvc "github.com/trezcool/academia/services/metrics"
	"github.com/trezcool/academia/services/realtime"
	"github.com/trezcool/academia/storage/docstore"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Storage is the opened document backend with the closer releasing it.
type Storage struct {
	Backend document.Backend
	Closer  io.Closer
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewStdoutLogger("API", conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewStdoutLogger("DB", conf)
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) *Storage {
	backend, closer, err := docstore.Open(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage.Backend, err), err)
	}
	return &Storage{Backend: backend, Closer: closer}
}

func newStore(storage *Storage, loggerParam DBLoggerParam) *document.Store {
	return document.NewStore(storage.Backend, loggerParam.Logger, document.WithObserver(metricsvc.StorageObserver{}))
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newChangePublisher(hub *realtime.Hub) school.ChangePublisher {
	return hub
}

func newAIGateway(conf *core.Config, logger core.Logger, validate *validator.Validate) *ai.Gateway {
	provider, err := aisvc.NewProvider(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up AI provider: %v", err), err)
	}
	return ai.NewGateway(provider, validate)
}

func newServer(deps echoapi.ServerDeps) *echoapi.Server {
	return echoapi.NewServer(deps)
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	SchoolSvc  *school.Service
	Gateway    *ai.Gateway
	Hub        *realtime.Hub
	Validate   *validator.Validate
	Translator ut.Translator
}

func newServerDeps(p serverParams) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		SchoolSvc:  p.SchoolSvc,
		Gateway:    p.Gateway,
		Feed:       p.Hub,
		Validate:   p.Validate,
		Translator: p.Translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(realtime.NewHub))
	must(c.Provide(newChangePublisher))
	must(c.Provide(school.NewService))
	must(c.Provide(newAIGateway))
	must(c.Provide(newServerDeps))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
