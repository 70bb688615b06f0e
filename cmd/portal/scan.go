package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/clearance-asce/portal/internal/errors"
)

type scanOptions struct {
	DeviceID int64
	Resolve  bool
}

func parseScanFlags(args []string) (scanOptions, error) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts scanOptions
	fs.Int64Var(&opts.DeviceID, "device", 0, "Device ID to activate (required)")
	fs.BoolVar(&opts.Resolve, "resolve", true, "Look up each scanned tag and print who it belongs to")

	if err := fs.Parse(args); err != nil {
		return scanOptions{}, err
	}
	if opts.DeviceID == 0 {
		return scanOptions{}, apperrors.Validation("--device is required")
	}
	return opts, nil
}

// runScan activates a device and streams detections until interrupted.
func runScan(cmdCtx *commandContext, args []string) error {
	opts, err := parseScanFlags(args)
	if err != nil {
		return err
	}
	if err := restoreSession(cmdCtx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := cmdCtx.Portal.Scanner
	if err := ctrl.Activate(ctx, opts.DeviceID); err != nil {
		return err
	}
	defer ctrl.Deactivate()

	fmt.Printf("Scanning on device %d. Hold a tag to the reader; Ctrl-C to stop.\n", opts.DeviceID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case tagID := <-ctrl.Tags():
				fmt.Printf("Scanned tag: %s\n", tagID)
				if opts.Resolve {
					resolveTag(cmdCtx, tagID)
				}
				ctrl.ConsumeScannedTag()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("Scanner stopped.")
	return nil
}

// resolveTag prints who a tag belongs to. Lookup failures are reported but
// never stop the scan session.
func resolveTag(cmdCtx *commandContext, tagID string) {
	res, err := cmdCtx.Portal.TagLink.Lookup(cmdCtx.Ctx, tagID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			fmt.Printf("  %s\n", apperrors.UserMessage(err))
			fmt.Printf("  Link it with: portal tags link --tag %s --matric <matric>\n", tagID)
			return
		}
		fmt.Printf("  lookup failed: %s\n", apperrors.UserMessage(err))
		return
	}
	printResolution(res)
}
