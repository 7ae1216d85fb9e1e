package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	varHome = flag.String(flagHome, "", "directory to store files under (overrides SUPERSIG_HOME)")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("supersig")
	fmt.Println("          Deposit backed multi-party authorization")
	fmt.Println("")
	fmt.Println("help                Print this message")
	fmt.Println("init <genesis>      Load the genesis file into a new state")
	fmt.Println("run <script>        Apply a script of operations, one per line")
	fmt.Println("account <group-id>  Print the address of a group account")
	fmt.Println("state <group-id>    Print a group and its pending payloads")
	fmt.Println("events [type]       Print the journaled events")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.supersig")

Environment: SUPERSIG_HOME, SUPERSIG_LOG_LEVEL, SUPERSIG_JOURNAL, SUPERSIG_DEBUG`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	conf, err := LoadConfig()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	if *varHome != "" {
		conf.Home = *varHome
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]
	ctx := context.Background()

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = InitCmd(ctx, conf, rest)
	case "run":
		err = RunCmd(ctx, conf, rest)
	case "account":
		err = AccountCmd(os.Stdout, rest)
	case "state":
		err = StateCmd(ctx, conf, os.Stdout, rest)
	case "events":
		err = EventsCmd(ctx, conf, os.Stdout, rest)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		if conf.Debug {
			fmt.Printf("Error: %+v\n\n", err)
		} else {
			fmt.Printf("Error: %s\n\n", err)
		}
		os.Exit(1)
	}
}
