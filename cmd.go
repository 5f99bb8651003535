package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"StudyBoard/internal/net"

	"github.com/pkg/errors"
)

var errHelp = errors.New("help provided")

type mode int

const (
	modeHost mode = iota
	modeJoin
	modeBrowse
)

// command is a parsed command line.
type command struct {
	mode    mode
	link    string
	timeout time.Duration
	noShare bool
}

type commandLine struct {
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  studyboard [host] [-no-share]   - open a board and share it on the LAN")
	fmt.Fprintln(cli.out, "  studyboard join ADDR|LINK       - watch a shared board")
	fmt.Fprintln(cli.out, "  studyboard "+net.Scheme+"HOST:PORT - same as join")
	fmt.Fprintln(cli.out, "  studyboard browse [-timeout 3s] - list boards advertised on the LAN")
}

func (cli *commandLine) parse(args []string) (command, error) {
	if len(args) < 2 {
		return command{mode: modeHost}, nil
	}
	if strings.HasPrefix(args[1], net.Scheme) {
		return command{mode: modeJoin, link: args[1]}, nil
	}

	hostCmd := flag.NewFlagSet("host", flag.ContinueOnError)
	hostCmd.SetOutput(cli.out)
	noShare := hostCmd.Bool("no-share", false, "Do not start the share server.")

	joinCmd := flag.NewFlagSet("join", flag.ContinueOnError)
	joinCmd.SetOutput(cli.out)

	browseCmd := flag.NewFlagSet("browse", flag.ContinueOnError)
	browseCmd.SetOutput(cli.out)
	timeout := browseCmd.Duration("timeout", 3*time.Second, "How long to wait for answers.")

	switch args[1] {
	case "host":
		if err := hostCmd.Parse(args[2:]); err != nil {
			return command{}, err
		}
		return command{mode: modeHost, noShare: *noShare}, nil
	case "join":
		if err := joinCmd.Parse(args[2:]); err != nil {
			return command{}, err
		}
		if joinCmd.NArg() != 1 {
			cli.printUsage()
			return command{}, errHelp
		}
		if _, err := net.ParseLink(joinCmd.Arg(0)); err != nil {
			return command{}, err
		}
		return command{mode: modeJoin, link: joinCmd.Arg(0)}, nil
	case "browse":
		if err := browseCmd.Parse(args[2:]); err != nil {
			return command{}, err
		}
		if *timeout <= 0 {
			return command{}, errors.Errorf("timeout must be positive (got %s)", *timeout)
		}
		return command{mode: modeBrowse, timeout: *timeout}, nil
	default:
		cli.printUsage()
		return command{}, errHelp
	}
}
