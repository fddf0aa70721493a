package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/darasa-lms/darasa/core/course"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db  *sqlx.DB
	svc *course.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run DB migrations. COMMAND: up|up-by-one|up-to|down|down-to|redo|reset|status|version")
	fmt.Println("  seed -instructor ID    - create a demo course owned by the given instructor")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedInstructor := seedCmd.String("instructor", "", "The owning instructor's ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedInstructor == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedInstructor)
	default:
		cli.printUsage()
		return errHelp
	}
}
