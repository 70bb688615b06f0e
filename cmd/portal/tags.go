package main

import (
	"flag"
	"fmt"
	"os"

	apperrors "github.com/clearance-asce/portal/internal/errors"
	"github.com/clearance-asce/portal/internal/taglink"
)

func runTags(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: portal tags <link|unlink|info>")
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "link":
		return runTagsLink(cmdCtx, rest)
	case "unlink":
		return runTagsUnlink(cmdCtx, rest)
	case "info":
		return runTagsInfo(cmdCtx, rest)
	default:
		return apperrors.Validationf("unknown tags subcommand %q", sub)
	}
}

func runTagsLink(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("tags link", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tagID := fs.String("tag", "", "RFID tag ID (required)")
	matric := fs.String("matric", "", "Student matric number")
	username := fs.String("username", "", "Staff username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tagID == "" {
		return apperrors.Validation("--tag is required")
	}

	tag, err := cmdCtx.Portal.TagLink.Link(cmdCtx.Ctx, *tagID, taglink.Target{
		MatricNo: *matric,
		Username: *username,
	})
	if err != nil {
		return err
	}
	switch {
	case tag.StudentID != nil:
		fmt.Printf("Linked tag %s to student %d\n", tag.TagID, *tag.StudentID)
	case tag.UserID != nil:
		fmt.Printf("Linked tag %s to user %d\n", tag.TagID, *tag.UserID)
	default:
		fmt.Printf("Linked tag %s\n", tag.TagID)
	}
	return nil
}

func runTagsUnlink(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("tags unlink", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tagID := fs.String("tag", "", "RFID tag ID (required)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tagID == "" {
		return apperrors.Validation("--tag is required")
	}

	confirm := taglink.ConfirmerFunc(confirmPrompt)
	if *yes {
		confirm = taglink.ConfirmerFunc(func(string) bool { return true })
	}

	tag, err := cmdCtx.Portal.TagLink.Unlink(cmdCtx.Ctx, *tagID, confirm)
	if err != nil {
		return err
	}
	fmt.Printf("Tag %s is now unlinked and available.\n", tag.TagID)
	return nil
}

func runTagsInfo(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("tags info", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	tagID := fs.String("tag", "", "RFID tag ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tagID == "" {
		return apperrors.Validation("--tag is required")
	}

	res, err := cmdCtx.Portal.TagLink.Lookup(cmdCtx.Ctx, *tagID)
	if err != nil {
		return err
	}
	printResolution(res)
	return nil
}

func printResolution(res taglink.Resolution) {
	switch res.Kind {
	case taglink.EntityStudent:
		printStudent(res.Student)
	case taglink.EntityUser:
		u := res.User
		fmt.Printf("User %d: %s (%s)\n", u.ID, u.FullName, u.Username)
		fmt.Printf("Role: %s\n", u.Role)
		if u.ClearanceDepartment != nil {
			fmt.Printf("Clearance desk: %s\n", *u.ClearanceDepartment)
		}
	}
}
