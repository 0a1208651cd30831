package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/shlex"

	"kinetis/board"
	"kinetis/core"
	"kinetis/host/serial"
)

var (
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 0, "Baud rate (defaults to the board config)")
	configPath = flag.String("config", "", "Board config JSON file")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadBoardConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.SetDebugEnabled(true)
	}

	serialCfg := serial.DefaultConfig(*device)
	serialCfg.Baud = int(cfg.UARTBaud)
	if *baud > 0 {
		serialCfg.Baud = *baud
	}

	ctx := context.Background()
	s := newSession(os.Stdout, cfg, serialCfg)

	// One-shot mode: kinetis-host resolve c1=0x00 c6=0x40 ...
	if flag.NArg() > 0 {
		if err := s.execute(ctx, flag.Args()); err != nil && !errors.Is(err, errQuit) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Kinetis Host - %s clock tool\n", cfg.Name)
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		err = s.execute(ctx, args)
		if errors.Is(err, errQuit) {
			fmt.Println("Goodbye!")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func loadBoardConfig(path string) (*board.Config, error) {
	if path == "" {
		return board.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board config: %w", err)
	}
	return board.LoadConfig(data)
}
