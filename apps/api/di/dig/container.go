package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/stvstnfrd/edx-ora2/apps/api/echo"
	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
	"github.com/stvstnfrd/edx-ora2/core/staff"
	aisvc "github.com/stvstnfrd/edx-ora2/services/ai"
	uploadsvc "github.com/stvstnfrd/edx-ora2/services/fileupload"
	logsvc "github.com/stvstnfrd/edx-ora2/services/logger"
	"github.com/stvstnfrd/edx-ora2/storage/database"
	sqlxrepos "github.com/stvstnfrd/edx-ora2/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, *sqlx.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, sqlx.NewDb(db, conf.Database.Engine)
}

func newAIService(conf *core.Config, logger core.Logger) assessment.AIAPI {
	if conf.Debug {
		return aisvc.NewLocalService(logger)
	}
	return aisvc.NewHTTPService(conf, logger)
}

func newFileStore(conf *core.Config, logger core.Logger) core.FileStore {
	if conf.Debug {
		return uploadsvc.NewDummyService()
	}
	store, err := uploadsvc.NewB2Service(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file store: %v", err), err)
	}
	return store
}

func newStaffService(
	items assessment.ItemStore,
	submissions assessment.SubmissionReader,
	workflows assessment.WorkflowReader,
	peer assessment.PeerAPI,
	self assessment.SelfAPI,
	ai assessment.AIAPI,
	files core.FileStore,
	logger core.Logger,
) *staff.Service {
	return staff.NewService(staff.ServiceDeps{
		Items:       items,
		Submissions: submissions,
		Workflows:   workflows,
		Peer:        peer,
		Self:        self,
		AI:          ai,
		Files:       files,
		Logger:      logger,
	})
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	staffSvc *staff.Service,
	validate *validator.Validate,
	translator ut.Translator,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StaffSvc:   staffSvc,
		Validate:   validate,
		Translator: translator,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(sqlxrepos.NewItemRepository))
	must(c.Provide(sqlxrepos.NewSubmissionRepository))
	must(c.Provide(sqlxrepos.NewWorkflowRepository))
	must(c.Provide(sqlxrepos.NewPeerRepository))
	must(c.Provide(sqlxrepos.NewSelfRepository))
	must(c.Provide(newAIService))
	must(c.Provide(newFileStore))
	must(c.Provide(newStaffService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	_ = dig.Visualize(c, os.Stdout)

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
