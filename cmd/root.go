package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dzgen",
	Short: "Deep Zoom pyramid generator for image montages",
	Long: `dzgen — combines a folder of equally sized images into one large montage
and cuts it into a Deep Zoom (DZI) tile pyramid: fixed-size overlapping
tiles at successive power-of-two scales, ready for progressive zoom
viewers such as OpenSeadragon.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"dzgen %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[dzgen] "+format+"\n", args...)
	}
}
