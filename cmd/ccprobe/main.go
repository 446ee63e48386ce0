// Command ccprobe opens a CC2540/CC2541 debug session and prints the
// chip's identity, info-page data, and debug config/status checklists.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cc2540/ccdebugger"
	"github.com/cc2540/ccdebugger/internal/config"
	"github.com/cc2540/ccdebugger/internal/logx"
	"github.com/cc2540/ccdebugger/transport"
)

func main() {
	var (
		port      = pflag.StringP("port", "p", "", "Serial port the proxy is attached to, e.g. /dev/ttyUSB0")
		baud      = pflag.IntP("baud", "b", 0, "Serial baud rate (0 = config default)")
		cfgPath   = pflag.StringP("config", "c", "", "YAML config file")
		verbose   = pflag.BoolP("verbose", "v", false, "Verbose logging")
		showBLE   = pflag.Bool("ble", false, "Also decode and print the Bluegiga BLE info page")
		listPorts = pflag.Bool("list", false, "List candidate serial ports and exit")
	)
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "ccprobe - identify an attached CC2540/CC2541 over a CCLib proxy")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *listPorts {
		ports, err := transport.ListCandidatePorts()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ccprobe: listing candidate ports:", err)
			os.Exit(1)
		}
		if len(ports) == 0 {
			fmt.Println("no candidate serial ports found")
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ccprobe:", err)
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
		fmt.Fprintln(os.Stderr, "ccprobe: -port is required")
		pflag.Usage()
		os.Exit(2)
	}

	log := logx.New(cfg.Verbose)

	session, err := ccdebugger.Open(cfg.Port,
		ccdebugger.WithBaud(cfg.Baud),
		ccdebugger.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprobe:", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Enter(); err != nil {
		fmt.Fprintln(os.Stderr, "ccprobe: entering debug mode:", err)
		os.Exit(1)
	}
	defer session.Exit()

	fmt.Printf("Chip ID:     0x%04x\n", session.ChipID())

	info, err := session.ChipInfo()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprobe: reading chip info:", err)
		os.Exit(1)
	}
	fmt.Printf("Flash:       %d KB\n", info.FlashKB)
	fmt.Printf("SRAM banks:  %d\n", info.SRAMBanks)
	fmt.Printf("USB:         %v\n", info.HasUSB)

	serial, err := session.GetSerial()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprobe: reading serial number:", err)
	} else {
		fmt.Printf("Serial:      %s\n", serial)
	}

	fmt.Println("\nDebug config:")
	fmt.Println(session.DebugConfig().String())

	current, err := session.ReadStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprobe: reading debug status:", err)
		os.Exit(1)
	}
	fmt.Println("\nDebug status:")
	fmt.Println(current.String())

	if *showBLE {
		ble, err := session.GetBLEInfo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ccprobe: reading BLE info page:", err)
			os.Exit(1)
		}
		fmt.Println("\nBLE info page:")
		fmt.Printf("  License:  %s\n", ble.License)
		fmt.Printf("  HW ver:   0x%02x\n", ble.HWVer)
		fmt.Printf("  BT addr:  %s\n", ble.BTAddr)
	}
}
