package cmd

import (
	"context"

	"github.com/jsphweid/mpusynth/util"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "mpusynth",
	Short: "Motion sensor synthesizer",
	Long: `Turns the motion of two MPU6050 sensors into a melody and a bass line,
lights up LED strips with them, and streams raw readings over OSC.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		util.InitLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging with source locations")
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
