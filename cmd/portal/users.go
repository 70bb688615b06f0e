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

func runUsers(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: portal users <list|create|update|delete|lookup>")
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return runUsersList(cmdCtx)
	case "create":
		return runUsersCreate(cmdCtx, rest)
	case "update":
		return runUsersUpdate(cmdCtx, rest)
	case "delete":
		return runUsersDelete(cmdCtx, rest)
	case "lookup":
		return runUsersLookup(cmdCtx, rest)
	default:
		return apperrors.Validationf("unknown users subcommand %q", sub)
	}
}

func runUsersList(cmdCtx *commandContext) error {
	users, err := cmdCtx.Portal.API.Users.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tROLE\tCLEARANCE DESK")
	for _, u := range users {
		desk := "-"
		if u.ClearanceDepartment != nil {
			desk = string(*u.ClearanceDepartment)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Role, desk)
	}
	return tw.Flush()
}

func runUsersCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var req domain.UserCreate
	var role, dept, desk string
	fs.StringVar(&req.Username, "username", "", "Username (required)")
	fs.StringVar(&req.Password, "password", "", "Password (required)")
	fs.StringVar(&req.Email, "email", "", "Email address (required)")
	fs.StringVar(&req.FullName, "name", "", "Full name (required)")
	fs.StringVar(&role, "role", "staff", "Role: admin or staff")
	fs.StringVar(&dept, "department", "", "Academic department")
	fs.StringVar(&desk, "clearance-department", "", "Clearance desk this staff member signs off for")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" || req.Email == "" || req.FullName == "" {
		return apperrors.Validation("--username, --password, --email and --name are required")
	}
	req.Role = domain.Role(role)
	if !req.Role.Valid() {
		return apperrors.Validationf("invalid role %q", role)
	}
	if dept != "" {
		d := domain.Department(dept)
		req.Department = &d
	}
	if desk != "" {
		d := domain.ClearanceDepartment(desk)
		req.ClearanceDepartment = &d
	}

	user, err := cmdCtx.Portal.API.Users.Create(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Created user %d (%s, %s)\n", user.ID, user.Username, user.Role)
	return nil
}

func runUsersUpdate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "User ID (required)")
	name := fs.String("name", "", "New full name")
	email := fs.String("email", "", "New email address")
	role := fs.String("role", "", "New role")
	desk := fs.String("clearance-department", "", "New clearance desk")
	password := fs.String("password", "", "New password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}

	var req domain.UserUpdate
	if *name != "" {
		req.FullName = name
	}
	if *email != "" {
		req.Email = email
	}
	if *role != "" {
		r := domain.Role(*role)
		if !r.Valid() {
			return apperrors.Validationf("invalid role %q", *role)
		}
		req.Role = &r
	}
	if *desk != "" {
		d := domain.ClearanceDepartment(*desk)
		req.ClearanceDepartment = &d
	}
	if *password != "" {
		req.Password = password
	}

	user, err := cmdCtx.Portal.API.Users.Update(cmdCtx.Ctx, *id, req)
	if err != nil {
		return err
	}
	fmt.Printf("Updated user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runUsersDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "User ID (required)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}
	if !*yes && !confirmPrompt(fmt.Sprintf("Delete user %d?", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	user, err := cmdCtx.Portal.API.Users.Delete(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runUsersLookup(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("users lookup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	username := fs.String("username", "", "Username")
	tagID := fs.String("tag", "", "RFID tag ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*username == "") == (*tagID == "") {
		return apperrors.Validation("provide exactly one of --username or --tag")
	}

	user, err := cmdCtx.Portal.API.Users.Lookup(cmdCtx.Ctx, api.UserLookup{
		Username: *username,
		TagID:    *tagID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("User %d: %s (%s)\n", user.ID, user.FullName, user.Username)
	fmt.Printf("Role: %s\n", user.Role)
	if user.ClearanceDepartment != nil {
		fmt.Printf("Clearance desk: %s\n", *user.ClearanceDepartment)
	}
	return nil
}
