package wire_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/jmoiron/sqlx"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
	"github.com/stvstnfrd/edx-ora2/core/staff"
	aisvc "github.com/stvstnfrd/edx-ora2/services/ai"
	uploadsvc "github.com/stvstnfrd/edx-ora2/services/fileupload"
	logsvc "github.com/stvstnfrd/edx-ora2/services/logger"
	"github.com/stvstnfrd/edx-ora2/storage/database"
)

// Providers live outside the wireinject file so the generated injectors can
// call them.

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, logger core.Logger) *sql.DB {
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
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newSqlxDB(conf *core.Config, db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, conf.Database.Engine)
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

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
