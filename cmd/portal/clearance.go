package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clearance-asce/portal/internal/api"
	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

func runClearance(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: portal clearance <my|update|summary>")
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "my":
		return runClearanceMy(cmdCtx)
	case "update":
		return runClearanceUpdate(cmdCtx, rest)
	case "summary":
		return runClearanceSummary(cmdCtx, rest)
	default:
		return apperrors.Validationf("unknown clearance subcommand %q", sub)
	}
}

func runClearanceMy(cmdCtx *commandContext) error {
	my, err := cmdCtx.Portal.API.Students.MyClearance(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s), %s\n", my.FullName, my.MatricNo, my.Department)
	printClearanceTable(my.ClearanceStatuses)
	return nil
}

func runClearanceUpdate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clearance update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	matric := fs.String("matric", "", "Student matric number (required)")
	dept := fs.String("department", "", "Clearance department (required)")
	status := fs.String("status", "", "New status: pending, approved or rejected (required)")
	remarks := fs.String("remarks", "", "Remarks shown to the student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *matric == "" || *dept == "" || *status == "" {
		return apperrors.Validation("--matric, --department and --status are required")
	}

	state := domain.ClearanceState(*status)
	if !state.Valid() {
		return apperrors.Validationf("invalid status %q", *status)
	}

	req := domain.ClearanceUpdate{
		MatricNo:   *matric,
		Department: domain.ClearanceDepartment(*dept),
		Status:     state,
	}
	if *remarks != "" {
		req.Remarks = remarks
	}

	updated, err := cmdCtx.Portal.API.Clearance.Update(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s is now %s\n", *matric, updated.Department, updated.Status)
	return nil
}

func runClearanceSummary(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clearance summary", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	matric := fs.String("matric", "", "Student matric number (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *matric == "" {
		return apperrors.Validation("--matric is required")
	}

	student, err := cmdCtx.Portal.API.Students.Lookup(cmdCtx.Ctx, api.StudentLookup{MatricNo: *matric})
	if err != nil {
		return err
	}

	summary := domain.SummarizeClearance(student.ClearanceStatuses)
	fmt.Printf("%s (%s)\n", student.FullName, student.MatricNo)
	fmt.Printf("Overall: %s\n", summary.Overall)
	fmt.Printf("Approved %d / %d (%s)\n", summary.Approved, summary.Total, formatPercent(summary.PercentComplete))
	if len(summary.RejectedDepartments) > 0 {
		fmt.Printf("Rejected by: %v\n", summary.RejectedDepartments)
	}
	if len(summary.PendingDepartments) > 0 {
		fmt.Printf("Pending at: %v\n", summary.PendingDepartments)
	}
	return nil
}
