package main

import (
	"flag"
	"os"

	"k8s.io/klog"

	"github.com/bankfeed-dev/bankfeed/internal/commands"
)

func main() {
	klog.InitFlags(nil)
	_ = flag.Set("logtostderr", "true")

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
