// Command iplmon prints the IPL console output received over a serial port.
// With -exit-on-panic it terminates with a non-zero status as soon as the
// IPL panic banner is seen, which makes it usable in hardware test scripts.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.bug.st/serial"
)

const panicBanner = "*** ipl panic: system halted ***"

var errIPLPanic = errors.New("IPL panic detected")

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[iplmon] error: %s\n", err.Error())
	os.Exit(1)
}

// monitor copies lines from r to w. If stopOnPanic is set it returns
// errIPLPanic after copying the line holding the panic banner.
func monitor(r io.Reader, w io.Writer, stopOnPanic bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

		if stopOnPanic && strings.Contains(line, panicBanner) {
			return errIPLPanic
		}
	}

	return scanner.Err()
}

func listPorts(w io.Writer) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}

	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}

func runTool() error {
	portName := flag.String("port", "", "the serial device the badge console is attached to; empty lists the available ports")
	baud := flag.Int("baud", 115200, "the console baud rate")
	stopOnPanic := flag.Bool("exit-on-panic", false, "exit with a non-zero status when the IPL panics")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "iplmon: print the IPL console output\n\n")
		fmt.Fprint(os.Stderr, "Usage: iplmon [options]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *portName == "" {
		return listPorts(os.Stdout)
	}

	port, err := serial.Open(*portName, &serial.Mode{
		BaudRate: *baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	return monitor(port, os.Stdout, *stopOnPanic)
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
