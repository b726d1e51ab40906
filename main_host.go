//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ember/app"
	"ember/hal"
)

func main() {
	var (
		headless    = flag.Bool("headless", false, "Run without a window.")
		ticks       = flag.Uint64("ticks", 0, "Stop after N scheduler ticks in headless mode (0 = run forever).")
		useTTY      = flag.Bool("tty", false, "Read controls from the terminal in headless mode.")
		profilePath = flag.String("profile", "", "Device profile YAML (default: built-in 84x48 device).")
		serialDev   = flag.String("serial", "", "Write telemetry to a serial device instead of stdout.")
		baud        = flag.Int("baud", 57600, "Serial baud rate.")
	)
	flag.Parse()

	prof := hal.DefaultProfile()
	if *profilePath != "" {
		var err error
		if prof, err = hal.LoadProfile(*profilePath); err != nil {
			fatal(err)
		}
	}

	var ser hal.Serial
	if *serialDev != "" {
		var err error
		if ser, err = hal.OpenSerial(*serialDev, *baud); err != nil {
			fatal(err)
		}
	}

	h := hal.New(prof, ser)
	boot := func(h hal.HAL) { app.Boot(h) }

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, h, boot, hal.HeadlessConfig{Ticks: *ticks, TTY: *useTTY})
		if err != nil && err != context.Canceled {
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(h, boot); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
