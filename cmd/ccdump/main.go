// Command ccdump reads a region of XDATA, CODE, or the 2KB information
// page from an attached CC2540/CC2541 and writes the raw bytes to a file
// or stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cc2540/ccdebugger"
	"github.com/cc2540/ccdebugger/internal/config"
	"github.com/cc2540/ccdebugger/internal/logx"
)

func main() {
	var (
		port    = pflag.StringP("port", "p", "", "Serial port the proxy is attached to")
		baud    = pflag.IntP("baud", "b", 0, "Serial baud rate (0 = config default)")
		cfgPath = pflag.StringP("config", "c", "", "YAML config file")
		region  = pflag.String("region", "xdata", "Region to dump: xdata, code, or infopage")
		offset  = pflag.Uint32("offset", 0, "Start offset within the region")
		size    = pflag.Int("size", 256, "Number of bytes to dump (ignored for infopage)")
		out     = pflag.StringP("out", "o", "", "Output file (default: stdout)")
		verbose = pflag.BoolP("verbose", "v", false, "Verbose logging")
	)
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "ccdump - read memory from an attached CC2540/CC2541")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ccdump:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "ccdump: -port is required")
		pflag.Usage()
		os.Exit(2)
	}

	log := logx.New(cfg.Verbose)

	session, err := ccdebugger.Open(cfg.Port,
		ccdebugger.WithBaud(cfg.Baud),
		ccdebugger.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccdump:", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Enter(); err != nil {
		fmt.Fprintln(os.Stderr, "ccdump: entering debug mode:", err)
		os.Exit(1)
	}
	defer session.Exit()

	var data []byte
	switch *region {
	case "xdata":
		data, err = session.ReadXDATA(uint16(*offset), *size)
	case "code":
		data, err = session.ReadCODE(*offset, *size)
	case "infopage":
		data, err = session.GetInfoPage()
	default:
		fmt.Fprintf(os.Stderr, "ccdump: unknown region %q (want xdata, code, or infopage)\n", *region)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccdump: reading memory:", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "ccdump: writing output:", err)
		os.Exit(1)
	}
}
