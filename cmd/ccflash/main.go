// Command ccflash programs a raw binary image into an attached
// CC2540/CC2541's code space.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/cc2540/ccdebugger"
	"github.com/cc2540/ccdebugger/flash"
	"github.com/cc2540/ccdebugger/internal/config"
	"github.com/cc2540/ccdebugger/internal/logx"
)

func main() {
	var (
		port      = pflag.StringP("port", "p", "", "Serial port the proxy is attached to")
		baud      = pflag.IntP("baud", "b", 0, "Serial baud rate (0 = config default)")
		cfgPath   = pflag.StringP("config", "c", "", "YAML config file")
		offset    = pflag.Uint32P("offset", "O", 0, "Code-space offset to write the image at")
		erase     = pflag.Bool("erase", true, "Erase each page before writing it")
		blockSize = pflag.Int("block-size", 0, "DMA chunk size (0 = config default)")
		pageSize  = pflag.Int("page-size", 0, "Flash page size (0 = config default)")
		timeout   = pflag.Duration("poll-timeout", 5*time.Second, "Timeout waiting on BUSY/IRQ per chunk")
		verbose   = pflag.BoolP("verbose", "v", false, "Verbose logging")
	)
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "ccflash - program a binary image into an attached CC2540/CC2541")
		fmt.Fprintln(os.Stderr, "usage: ccflash -p <port> <image.bin>")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	imagePath := pflag.Arg(0)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ccflash:", err)
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
	if *blockSize != 0 {
		cfg.BlockSize = *blockSize
	}
	if *pageSize != 0 {
		cfg.PageSize = *pageSize
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "ccflash: -port is required")
		pflag.Usage()
		os.Exit(2)
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccflash:", err)
		os.Exit(1)
	}

	log := logx.New(cfg.Verbose)

	session, err := ccdebugger.Open(cfg.Port,
		ccdebugger.WithBaud(cfg.Baud),
		ccdebugger.WithMemBase(cfg.MemBase),
		ccdebugger.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccflash:", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Enter(); err != nil {
		fmt.Fprintln(os.Stderr, "ccflash: entering debug mode:", err)
		os.Exit(1)
	}
	defer session.Exit()

	if err := session.PauseDMA(false); err != nil {
		fmt.Fprintln(os.Stderr, "ccflash: unpausing DMA:", err)
		os.Exit(1)
	}

	log.Info("programming flash", "image", imagePath, "bytes", len(image), "offset", *offset, "erase", *erase)

	err = session.WriteCode(*offset, image, flash.Options{
		BlockSize:   cfg.BlockSize,
		PageSize:    cfg.PageSize,
		Erase:       *erase,
		PollTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccflash: programming flash:", err)
		os.Exit(1)
	}

	log.Info("flash programmed successfully")
}
