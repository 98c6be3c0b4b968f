package main

import (
	"context"
	"fmt"

	"github.com/trezcool/mahudhurio/core/staff"
)

func (cli *commandLine) addStaff(ns staff.NewStaff) error {
	if err := ns.Validate(cli.validate); err != nil {
		return err
	}
	stf, classes, err := cli.staffSvc.Signup(context.Background(), ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Staff %q created with id %s (%d classes)\n", stf.Name, stf.ID, len(classes))
	return nil
}

func (cli *commandLine) listClasses(staffID string) error {
	ctx := context.Background()
	if _, err := cli.staffRepo.GetStaff(ctx, staffID); err != nil {
		return err
	}
	classes, err := cli.staffRepo.ListClasses(ctx, staffID)
	if err != nil {
		return err
	}
	for _, cls := range classes {
		fmt.Fprintf(cli.out, "%d\t%s\n", cls.ID, cls.Name)
	}
	return nil
}

func (cli *commandLine) resetPin(staffID, pin string) error {
	return cli.staffSvc.ResetPin(context.Background(), staffID, pin)
}
