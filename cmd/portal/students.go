package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/clearance-asce/portal/internal/api"
	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

func runStudents(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: portal students <list|get|create|update|delete|lookup>")
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return runStudentsList(cmdCtx)
	case "get":
		return runStudentsGet(cmdCtx, rest)
	case "create":
		return runStudentsCreate(cmdCtx, rest)
	case "update":
		return runStudentsUpdate(cmdCtx, rest)
	case "delete":
		return runStudentsDelete(cmdCtx, rest)
	case "lookup":
		return runStudentsLookup(cmdCtx, rest)
	default:
		return apperrors.Validationf("unknown students subcommand %q", sub)
	}
}

func runStudentsList(cmdCtx *commandContext) error {
	students, err := cmdCtx.Portal.API.Students.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMATRIC NO\tNAME\tDEPARTMENT\tCLEARANCE\tTAG")
	for _, s := range students {
		summary := domain.SummarizeClearance(s.ClearanceStatuses)
		tag := "-"
		if s.RFIDTag != nil {
			tag = s.RFIDTag.TagID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.MatricNo, s.FullName, s.Department, summary.Overall, tag)
	}
	return tw.Flush()
}

func runStudentsGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("students get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "Student ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}

	student, err := cmdCtx.Portal.API.Students.Get(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	printStudent(student)
	return nil
}

func runStudentsCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("students create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var req domain.StudentCreate
	var dept string
	fs.StringVar(&req.FullName, "name", "", "Full name (required)")
	fs.StringVar(&req.MatricNo, "matric", "", "Matric number (required)")
	fs.StringVar(&req.Email, "email", "", "Email address (required)")
	fs.StringVar(&dept, "department", "", "Department (required)")
	fs.StringVar(&req.Password, "password", "", "Initial portal password (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.FullName == "" || req.MatricNo == "" || req.Email == "" || dept == "" || req.Password == "" {
		return apperrors.Validation("--name, --matric, --email, --department and --password are required")
	}
	req.Department = domain.Department(dept)

	student, err := cmdCtx.Portal.API.Students.Create(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Created student %d (%s)\n", student.ID, student.MatricNo)
	return nil
}

func runStudentsUpdate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("students update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "Student ID (required)")
	name := fs.String("name", "", "New full name")
	email := fs.String("email", "", "New email address")
	dept := fs.String("department", "", "New department")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}

	var req domain.StudentUpdate
	if *name != "" {
		req.FullName = name
	}
	if *email != "" {
		req.Email = email
	}
	if *dept != "" {
		d := domain.Department(*dept)
		req.Department = &d
	}

	student, err := cmdCtx.Portal.API.Students.Update(cmdCtx.Ctx, *id, req)
	if err != nil {
		return err
	}
	fmt.Printf("Updated student %d (%s)\n", student.ID, student.MatricNo)
	return nil
}

func runStudentsDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("students delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "Student ID (required)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}
	if !*yes && !confirmPrompt(fmt.Sprintf("Delete student %d and all their records?", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	student, err := cmdCtx.Portal.API.Students.Delete(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted student %d (%s)\n", student.ID, student.MatricNo)
	return nil
}

func runStudentsLookup(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("students lookup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	matric := fs.String("matric", "", "Matric number")
	tagID := fs.String("tag", "", "RFID tag ID")
	remember := fs.Bool("remember", false, "Remember this matric number for next time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Fall back to the remembered matric number from a previous lookup.
	if *matric == "" && *tagID == "" && cmdCtx.Portal.FileCache != nil {
		if saved := cmdCtx.Portal.FileCache.RememberedMatric(); saved != "" {
			fmt.Printf("Using remembered matric number %s\n", saved)
			*matric = saved
		}
	}
	if (*matric == "") == (*tagID == "") {
		return apperrors.Validation("provide exactly one of --matric or --tag")
	}

	student, err := cmdCtx.Portal.API.Students.Lookup(cmdCtx.Ctx, api.StudentLookup{
		MatricNo: *matric,
		TagID:    *tagID,
	})
	if err != nil {
		return err
	}
	printStudent(student)

	if *remember && *matric != "" && cmdCtx.Portal.FileCache != nil {
		if err := cmdCtx.Portal.FileCache.RememberMatric(*matric); err != nil {
			cmdCtx.Logger.Warn("remember matric failed", "error", err)
		}
	}
	return nil
}

func printStudent(s domain.StudentWithClearance) {
	fmt.Printf("Student %d: %s (%s)\n", s.ID, s.FullName, s.MatricNo)
	fmt.Printf("Department: %s\n", s.Department)
	if s.RFIDTag != nil {
		fmt.Printf("RFID tag:   %s\n", s.RFIDTag.TagID)
	}
	printClearanceTable(s.ClearanceStatuses)
}

func printClearanceTable(statuses []domain.ClearanceStatus) {
	summary := domain.SummarizeClearance(statuses)
	fmt.Printf("Clearance:  %s (%s complete)\n", summary.Overall, formatPercent(summary.PercentComplete))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tSTATUS\tREMARKS")
	for _, st := range statuses {
		remarks := ""
		if st.Remarks != nil {
			remarks = *st.Remarks
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Department, st.Status, remarks)
	}
	tw.Flush()
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
