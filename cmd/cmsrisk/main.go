// cmsrisk prices CMS caps, floors and coupons on a flat demo market and
// reports their risk. It exists to exercise the library end to end from the
// command line; curves and SABR parameters come from flags, not market feeds.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(&priceCmd{logger: logger}, "")
	commander.Register(&vegaCmd{logger: logger}, "")
	commander.Register(&cashflowsCmd{logger: logger}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
