package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hwtbuild "github.com/contriboss/hwtracer-build"
)

var probeCmd = &cobra.Command{
	Use:   "probe <name>",
	Short: "Compile one feature check and report whether it succeeded",
	Example: `  hwtracer-build probe check_perf_pt.c
  hwtracer-build probe --cpu`,
	Args: func(cmd *cobra.Command, args []string) error {
		if cpu, _ := cmd.Flags().GetBool("cpu"); cpu {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cpu, _ := cmd.Flags().GetBool("cpu"); cpu {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), hwtbuild.HostCPU().SupportsProcessorTrace())
			return err
		}

		config, err := loadConfig()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), hwtbuild.NewFeatureProbe(config).Check(args[0]))
		return err
	},
}

func init() {
	probeCmd.Flags().Bool("cpu", false, "report Intel Processor Trace support of this CPU instead")
}
