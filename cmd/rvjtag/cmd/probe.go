package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/jtag"
	"github.com/OpenTraceLab/OpenTraceRV/pkg/trace"
)

var (
	probeList  bool
	probeVID   string
	probePID   string
	probeSpeed int
	probeABits int
	probeOut   string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Record a read-only DTM session through a CMSIS-DAP probe",
	Long: `Drive a RISC-V target through a CMSIS-DAP USB probe and record the JTAG
traffic as a trace. The session only reads: IDCODE, dtmcs and dmstatus.

Examples:
  rvjtag probe --list
  rvjtag probe --out board.trace
  rvjtag probe --vid 0x0d28 --pid 0x0204 --speed 1000000`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolVar(&probeList, "list", false, "list connected CMSIS-DAP probes")
	probeCmd.Flags().StringVar(&probeVID, "vid", "0x2e8a", "probe USB vendor ID")
	probeCmd.Flags().StringVar(&probePID, "pid", "0x000c", "probe USB product ID")
	probeCmd.Flags().IntVar(&probeSpeed, "speed", 1_000_000, "TCK frequency in Hz")
	probeCmd.Flags().IntVar(&probeABits, "abits", 7, "dmi address width of the target")
	probeCmd.Flags().StringVarP(&probeOut, "out", "o", "", "write the trace to this file instead of stdout")
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out := cmd.OutOrStdout()

	if probeList {
		probes, err := jtag.ListProbes(ctx)
		if err != nil {
			return err
		}
		if len(probes) == 0 {
			fmt.Fprintln(out, "No CMSIS-DAP probes found")
		}
		for _, p := range probes {
			fmt.Fprintf(out, "%s  serial %s\n", p.Label(), p.Serial)
		}
		return nil
	}

	vid, err := strconv.ParseUint(probeVID, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid --vid %q: %w", probeVID, err)
	}
	pid, err := strconv.ParseUint(probePID, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid --pid %q: %w", probePID, err)
	}

	adapter, err := jtag.OpenCMSISDAP(uint16(vid), uint16(pid))
	if err != nil {
		return err
	}
	defer adapter.Close()
	if info, err := adapter.Info(); err == nil {
		logger.Info("Opened probe", "vendor", info.Vendor, "model", info.Model, "serial", info.Serial, "firmware", info.Firmware)
	}
	if err := adapter.SetSpeed(probeSpeed); err != nil {
		return err
	}

	rec := jtag.NewRecorder(adapter, 0)
	host := jtag.NewDTMHost(rec, probeABits)
	if err := host.Reset(); err != nil {
		return err
	}
	id, err := host.ReadIDCode()
	if err != nil {
		return err
	}
	logger.Info("Read IDCODE", "idcode", HexU32(id))
	dtmcs, err := host.DTMCS(false, false)
	if err != nil {
		return err
	}
	if abits := int(dtmcs>>4) & 0x3f; abits != 0 && abits != probeABits {
		logger.Warn("Using the address width reported by dtmcs", "abits", abits, "flag", probeABits)
		host = jtag.NewDTMHost(rec, abits)
	}
	status, err := host.ReadDM(jtag.DMStatus)
	if err != nil {
		return err
	}
	logger.Info("Read dmstatus", "value", HexU32(status))

	events := rec.Events()
	if probeOut == "" {
		return trace.Write(out, events)
	}
	f, err := os.Create(probeOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := trace.Write(f, events); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d records to %s\n", len(events), probeOut)
	return nil
}
