package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/riscv"
)

var showDMI bool

var registersCmd = &cobra.Command{
	Use:   "registers [catalog...]",
	Short: "List instruction catalogs and Debug Module registers",
	Long: `Print the Instruction Register encodings the decoder knows about and,
with --dmi, the Debug Module Interface register map.

Examples:
  rvjtag registers
  rvjtag registers arm-jtag-dp
  rvjtag registers --dmi`,
	RunE: runRegisters,
}

func init() {
	rootCmd.AddCommand(registersCmd)

	registersCmd.Flags().BoolVar(&showDMI, "dmi", false, "print the Debug Module register map")
}

func runRegisters(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	names := args
	if len(names) == 0 && !showDMI {
		names = riscv.CatalogNames()
	}

	for _, name := range names {
		c, err := riscv.LookupCatalog(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Catalog %s (IR length %d)\n", c.Name, c.IRLength)
		for _, ins := range c.Entries() {
			fmt.Fprintf(out, "  %s  %-8s %3d bits  %s\n", ins.Pattern, ins.Name, ins.Width, ins.Description)
		}
		fmt.Fprintln(out)
	}

	if showDMI {
		fmt.Fprintln(out, "Debug Module Interface")
		for _, reg := range riscv.DMIRegisters() {
			fmt.Fprintf(out, "  0x%02x  %-12s %s\n", reg.Address, reg.Name, reg.Description)
		}
	}
	return nil
}
