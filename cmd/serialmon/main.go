// Command serialmon prints the text lines a microcontroller writes to a serial port.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/pico-cs/go-serialmon/monitor"
)

const envTCP = "SERIALMON_TCP"

var (
	tcpAddr   = os.Getenv(envTCP)
	listPorts bool
)

func init() {
	if err := monitor.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	monitor.SetupFlags()
	flag.StringVar(&tcpAddr, "tcp", tcpAddr, "Serial bridge address (host[:port]), read from TCP instead of a serial port.")
	flag.BoolVar(&listPorts, "list", listPorts, "List available serial ports and exit.")
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	code := run()
	glog.Flush()
	os.Exit(code)
}

func run() int {
	if listPorts {
		names, err := monitor.SerialPortNames()
		if err != nil {
			fmt.Fprintf(os.Stderr, "list ports: %s\n", err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}

	cfg := monitor.NewConfig()
	open := monitor.SerialOpener
	switch {
	case tcpAddr != "":
		cfg.PortName = tcpAddr
		open = monitor.TCPOpener
	case cfg.PortName == "":
		name, err := monitor.SerialDefaultPortName()
		if err != nil {
			fmt.Fprintf(os.Stderr, "no port given and %s\n", err)
			return 1
		}
		glog.Infof("using detected port %s", name)
		cfg.PortName = name
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := monitor.NewReader(cfg, open, os.Stdout).Run(ctx); err != nil {
		return 1
	}
	return 0
}
