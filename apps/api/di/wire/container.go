//+build wireinject

package wire_container

import (
	"database/sql"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/wire"

	echoapi "github.com/stvstnfrd/edx-ora2/apps/api/echo"
	"github.com/stvstnfrd/edx-ora2/core"
	sqlxrepos "github.com/stvstnfrd/edx-ora2/storage/database/sqlx"
)

var appSet = wire.NewSet(
	core.NewConfig,
	newLogger,
	newDB,
	newSqlxDB,
	sqlxrepos.NewItemRepository,
	sqlxrepos.NewSubmissionRepository,
	sqlxrepos.NewWorkflowRepository,
	sqlxrepos.NewPeerRepository,
	sqlxrepos.NewSelfRepository,
	newAIService,
	newFileStore,
	newStaffService,
	validator.New,
	newTranslator,
	wire.Struct(new(echoapi.ServerDeps), "*"),
	echoapi.NewServer)

func NewConfig() *core.Config {
	wire.Build(appSet)
	return nil
}

func NewLogger() core.Logger {
	wire.Build(appSet)
	return nil
}

func NewDB() *sql.DB {
	wire.Build(appSet)
	return nil
}

func NewValidate() *validator.Validate {
	wire.Build(appSet)
	return nil
}

func NewTranslator() ut.Translator {
	wire.Build(appSet)
	return nil
}

func NewServer() *echoapi.Server {
	wire.Build(appSet)
	return nil
}
