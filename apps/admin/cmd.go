package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/stvstnfrd/edx-ora2/core/staff"
)

var errHelp = errors.New("help provided")

// cliCaller is the identity terminal operations run as. Anyone who can run
// this binary already owns the deployment, so it carries every role.
var cliCaller = staff.Caller{Username: "admin", IsCourseStaff: true, IsAdmin: true}

type commandLine struct {
	db  *sql.DB
	svc *staff.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
	fmt.Println("  status -course COURSE -item ITEM - show submission counts by workflow step")
	fmt.Println("  scheduletraining -course COURSE -item ITEM - schedule classifier training for the item")
	fmt.Println("  rescheduletasks -course COURSE -item ITEM - reschedule unfinished AI grading tasks")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	statusCourse := statusCmd.String("course", "", "The course id.")
	statusItem := statusCmd.String("item", "", "The assessment item id.")

	trainCmd := flag.NewFlagSet("scheduletraining", flag.ExitOnError)
	trainCourse := trainCmd.String("course", "", "The course id.")
	trainItem := trainCmd.String("item", "", "The assessment item id.")

	reschedCmd := flag.NewFlagSet("rescheduletasks", flag.ExitOnError)
	reschedCourse := reschedCmd.String("course", "", "The course id.")
	reschedItem := reschedCmd.String("item", "", "The assessment item id.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "status":
		if err := statusCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statusCourse == "" || *statusItem == "" {
			statusCmd.Usage()
			return errHelp
		}
		return cli.status(*statusCourse, *statusItem)
	case "scheduletraining":
		if err := trainCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *trainCourse == "" || *trainItem == "" {
			trainCmd.Usage()
			return errHelp
		}
		return cli.scheduleTraining(*trainCourse, *trainItem)
	case "rescheduletasks":
		if err := reschedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reschedCourse == "" || *reschedItem == "" {
			reschedCmd.Usage()
			return errHelp
		}
		return cli.rescheduleTasks(*reschedCourse, *reschedItem)
	default:
		cli.printUsage()
		return errHelp
	}
}
