package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

func runDevices(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: portal devices <list|create|delete>")
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return runDevicesList(cmdCtx)
	case "create":
		return runDevicesCreate(cmdCtx, rest)
	case "delete":
		return runDevicesDelete(cmdCtx, rest)
	default:
		return apperrors.Validationf("unknown devices subcommand %q", sub)
	}
}

func runDevicesList(cmdCtx *commandContext) error {
	devices, err := cmdCtx.Portal.API.Devices.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tDEPARTMENT\tACTIVE")
	for _, d := range devices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", d.ID, d.DeviceName, d.Location, d.Department, d.IsActive)
	}
	return tw.Flush()
}

func runDevicesCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("devices create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var req domain.DeviceCreate
	var dept string
	fs.StringVar(&req.DeviceName, "name", "", "Device name (required)")
	fs.StringVar(&req.Location, "location", "", "Physical location (required)")
	fs.StringVar(&dept, "department", "", "Department the device serves (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.DeviceName == "" || req.Location == "" || dept == "" {
		return apperrors.Validation("--name, --location and --department are required")
	}
	req.Department = domain.Department(dept)

	device, err := cmdCtx.Portal.API.Devices.Create(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Created device %d (%s)\n", device.ID, device.DeviceName)
	fmt.Printf("API key: %s\n", device.APIKey)
	fmt.Println("Store the API key now; it is not shown again.")
	return nil
}

func runDevicesDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("devices delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int64("id", 0, "Device ID (required)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return apperrors.Validation("--id is required")
	}
	if !*yes && !confirmPrompt(fmt.Sprintf("De-authorise device %d? Its API key stops working immediately.", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	device, err := cmdCtx.Portal.API.Devices.Delete(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted device %d (%s)\n", device.ID, device.DeviceName)
	return nil
}
