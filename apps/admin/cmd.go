package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/staff"
	"github.com/trezcool/mahudhurio/storage/database"
)

var (
	readPinFunc  = term.ReadPassword         // mockable
	migrateFunc  = database.RunMigrations    // mockable
	createDBFunc = database.CreateIfNotExist // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	validate  *validator.Validate
	db        *sql.DB
	staffRepo staff.Repository
	staffSvc  staff.Service
	out       io.Writer
}

// needsDB reports whether the command in args works on the application database.
func needsDB(args []string) bool {
	return len(args) > 1 && args[1] != "createdb"
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createdb - create the application user & database if they do not exist")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  addstaff -name NAME -subject SUBJECT -classes CLASS[,CLASS...] - sign up a staff")
	fmt.Fprintln(cli.out, "  classes -staff STAFFID - list a staff's classes")
	fmt.Fprintln(cli.out, "  resetpin -staff STAFFID - reset a staff's pin")
}

func (cli *commandLine) readPin(usage func()) (string, error) {
	fmt.Fprint(cli.out, "Enter pin:")
	pin, err := readPinFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pin) == 0 {
		usage()
		return "", errHelp
	}
	return string(pin), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStaffCmd := flag.NewFlagSet("addstaff", flag.ContinueOnError)
	addStaffName := addStaffCmd.String("name", "", "The staff's name.")
	addStaffSubject := addStaffCmd.String("subject", "", "The subject taught.")
	addStaffClasses := addStaffCmd.String("classes", "", "Comma-separated class names. The pin will be prompted next.")

	classesCmd := flag.NewFlagSet("classes", flag.ContinueOnError)
	classesStaffID := classesCmd.String("staff", "", "The staff id.")

	resetPinCmd := flag.NewFlagSet("resetpin", flag.ContinueOnError)
	resetPinStaffID := resetPinCmd.String("staff", "", "The staff id. The new pin will be prompted next.")

	switch args[1] {
	case "createdb":
		return createDBFunc(cli.conf)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addstaff":
		if err := addStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		classes := splitClasses(*addStaffClasses)
		if len(classes) == 0 {
			addStaffCmd.Usage()
			return errHelp
		}
		pin, err := cli.readPin(addStaffCmd.Usage)
		if err != nil {
			return err
		}
		return cli.addStaff(staff.NewStaff{Name: *addStaffName, Subject: *addStaffSubject, Classes: classes, Pin: pin})
	case "classes":
		if err := classesCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *classesStaffID == "" {
			classesCmd.Usage()
			return errHelp
		}
		return cli.listClasses(*classesStaffID)
	case "resetpin":
		if err := resetPinCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPinStaffID == "" {
			resetPinCmd.Usage()
			return errHelp
		}
		pin, err := cli.readPin(resetPinCmd.Usage)
		if err != nil {
			return err
		}
		return cli.resetPin(*resetPinStaffID, pin)
	default:
		cli.printUsage()
		return errHelp
	}
}

func splitClasses(s string) []string {
	classes := make([]string, 0)
	for _, name := range strings.Split(s, ",") {
		if name = core.CleanString(name); name != "" {
			classes = append(classes, name)
		}
	}
	return classes
}
