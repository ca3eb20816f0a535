package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
	"github.com/stvstnfrd/edx-ora2/core/staff"
	aisvc "github.com/stvstnfrd/edx-ora2/services/ai"
	uploadsvc "github.com/stvstnfrd/edx-ora2/services/fileupload"
	logsvc "github.com/stvstnfrd/edx-ora2/services/logger"
	dummydb "github.com/stvstnfrd/edx-ora2/storage/database/dummy"
	testutil "github.com/stvstnfrd/edx-ora2/tests"
)

var (
	db        *dummydb.DB
	aiService *aisvc.LocalService
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	var err error
	db, err = dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}

	svcLogger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	aiService = aisvc.NewLocalService(svcLogger)
	svc := staff.NewService(staff.ServiceDeps{
		Items:       dummydb.NewItemRepository(db),
		Submissions: dummydb.NewSubmissionRepository(db),
		Workflows:   dummydb.NewWorkflowRepository(db),
		Peer:        dummydb.NewPeerRepository(db),
		Self:        dummydb.NewSelfRepository(db),
		AI:          aiService,
		Files:       uploadsvc.NewDummyService(),
		Logger:      svcLogger,
	})

	// migrations run through a mocked runner; no live DB handle needed
	return &commandLine{svc: svc}
}

func testCLIItem(slug string, steps ...assessment.StepConfig) assessment.Item {
	if len(steps) == 0 {
		steps = []assessment.StepConfig{{Step: assessment.StepPeer, MustGrade: 1, MustBeGradedBy: 1}}
	}
	return assessment.Item{
		CourseID: "course-v1:edX+DemoX+Demo_2026",
		ItemID:   "block-v1:edX+DemoX+Demo_2026+type@openassessment+block@" + slug,
		Title:    "Essay on Concurrency",
		Rubric: assessment.Rubric{
			Criteria: []assessment.Criterion{
				{Name: "ideas", Options: []assessment.Option{{Name: "poor"}, {Name: "good", Points: 5}}},
			},
		},
		Steps: steps,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func checkCLIErr(t *testing.T, err error, tt cliTest) {
	t.Helper()

	if err != nil {
		if tt.wantErr != nil {
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		} else if tt.wantErrStr != "" {
			if err.Error() != tt.wantErrStr {
				t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
			}
		} else {
			t.Errorf("cli.run() unexpected error = %v", err)
		}
	} else if tt.wantErr != nil || tt.wantErrStr != "" {
		t.Errorf("cli.run() error = nil, want %v%s", tt.wantErr, tt.wantErrStr)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "submission", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkCLIErr(t, cli.run(args), tt)
		})
	}
}

func Test_commandLine_status(t *testing.T) {
	cli := setup(t)

	item := testCLIItem("cli-status")
	db.AddItem(item)
	testutil.CreateSubmission(t, db, item, "cli.alice", "cli-sub-1", assessment.Answer{Text: "one"}, assessment.StepPeer)
	testutil.CreateSubmission(t, db, item, "cli.bob", "cli-sub-2", assessment.Answer{Text: "two"}, assessment.StepDone)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "missing flags", args: []string{"status"}, wantErr: errHelp},
		{name: "missing item flag", args: []string{"status", "-course", item.CourseID}, wantErr: errHelp},
		{name: "unknown item", args: []string{"status", "-course", item.CourseID, "-item", "lol"},
			wantErrStr: "loading assessment item: assessment item not found"},
		{name: "status", args: []string{"status", "-course", item.CourseID, "-item", item.ItemID}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkCLIErr(t, cli.run(args), tt)
		})
	}
}

func Test_commandLine_scheduleTraining(t *testing.T) {
	cli := setup(t)

	plain := testCLIItem("cli-train-plain")
	db.AddItem(plain)

	ebItem := testCLIItem("cli-train",
		assessment.StepConfig{Step: assessment.StepPeer, MustGrade: 1, MustBeGradedBy: 1},
		assessment.StepConfig{
			Step:        assessment.StepExampleBased,
			AlgorithmID: "ease",
			Examples: []assessment.TrainingExample{
				{Answer: "channels", OptionsSelected: map[string]string{"ideas": "good"}},
			},
		},
	)
	db.AddItem(ebItem)

	tests := []cliTest{
		{name: "missing flags", args: []string{"scheduletraining"}, wantErr: errHelp},
		{name: "not configured", args: []string{"scheduletraining", "-course", plain.CourseID, "-item", plain.ItemID},
			wantErrStr: "Example Based Assessment is not configured for this location."},
		{name: "scheduled", args: []string{"scheduletraining", "-course", ebItem.CourseID, "-item", ebItem.ItemID}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkCLIErr(t, cli.run(args), tt)
		})
	}
}

func Test_commandLine_rescheduleTasks(t *testing.T) {
	cli := setup(t)

	ebConfig := assessment.StepConfig{
		Step:        assessment.StepExampleBased,
		AlgorithmID: "ease",
		Examples: []assessment.TrainingExample{
			{Answer: "channels", OptionsSelected: map[string]string{"ideas": "good"}},
		},
	}
	item := testCLIItem("cli-resched",
		assessment.StepConfig{Step: assessment.StepPeer, MustGrade: 1, MustBeGradedBy: 1},
		ebConfig,
	)
	db.AddItem(item)

	tests := []cliTest{
		{name: "missing flags", args: []string{"rescheduletasks"}, wantErr: errHelp},
		{name: "nothing trained yet", args: []string{"rescheduletasks", "-course", item.CourseID, "-item", item.ItemID},
			wantErrStr: "An error occurred while rescheduling tasks: cannot reschedule grading: classifiers not trained for this item"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkCLIErr(t, cli.run(args), tt)
		})
	}

	t.Run("rescheduled after training", func(t *testing.T) {
		if _, err := aiService.TrainClassifiers(
			context.Background(), item.Rubric.WithLabels(), ebConfig.Examples, item.CourseID, item.ItemID, "ease",
		); err != nil {
			t.Fatalf("TrainClassifiers(): %v", err)
		}

		args := []string{"admin", "rescheduletasks", "-course", item.CourseID, "-item", item.ItemID}
		checkCLIErr(t, cli.run(args), cliTest{})
	})
}
