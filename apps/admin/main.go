package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
	"github.com/stvstnfrd/edx-ora2/core/staff"
	aisvc "github.com/stvstnfrd/edx-ora2/services/ai"
	uploadsvc "github.com/stvstnfrd/edx-ora2/services/fileupload"
	logsvc "github.com/stvstnfrd/edx-ora2/services/logger"
	"github.com/stvstnfrd/edx-ora2/storage/database"
	sqlxrepos "github.com/stvstnfrd/edx-ora2/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	svcLogger := logsvc.NewStdLogger(logger)

	var aiService assessment.AIAPI
	if conf.Debug {
		aiService = aisvc.NewLocalService(svcLogger)
	} else {
		aiService = aisvc.NewHTTPService(conf, svcLogger)
	}

	var fileStore core.FileStore
	if conf.Debug {
		fileStore = uploadsvc.NewDummyService()
	} else {
		fileStore, err = uploadsvc.NewB2Service(context.Background(), conf)
		errAndDie(err)
	}

	staffSvc := staff.NewService(staff.ServiceDeps{
		Items:       sqlxrepos.NewItemRepository(sdb),
		Submissions: sqlxrepos.NewSubmissionRepository(sdb),
		Workflows:   sqlxrepos.NewWorkflowRepository(sdb),
		Peer:        sqlxrepos.NewPeerRepository(sdb),
		Self:        sqlxrepos.NewSelfRepository(sdb),
		AI:          aiService,
		Files:       fileStore,
		Logger:      svcLogger,
	})

	// start CLI
	cli := commandLine{
		db:  db,
		svc: staffSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
