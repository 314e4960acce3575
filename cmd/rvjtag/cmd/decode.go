package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRV/pkg/idcode/deviceinfo"
	"github.com/OpenTraceLab/OpenTraceRV/pkg/riscv"
	"github.com/OpenTraceLab/OpenTraceRV/pkg/trace"
)

var (
	catalogName  string
	strict       bool
	channelNames []string
	outputFormat string
	showSummary  bool
	pprofCPU     bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <trace-file>",
	Short: "Decode a captured JTAG trace",
	Long: `Decode a trace of TAP state changes and IR/DR shifts into RISC-V DTM
(or ARM JTAG-DP) register annotations. Use "-" to read from stdin.

Trace records, one per line, bits MSB first:
  STATE    <start> <end> <TAP state>
  IR_TDI   <start> <end> 0b<bits> [@ <s>:<e> ...]
  IR_TDO | DR_TDI | DR_TDO  (same shape)

Without explicit spans the [start, end) range is split evenly across bits.

Examples:
  rvjtag decode session.trace
  rvjtag decode --catalog arm-jtag-dp --channels command,warning dp.trace
  rvjtag decode --format json - < session.trace`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&catalogName, "catalog", "c", "riscv", "instruction catalog: riscv, arm-jtag-dp")
	decodeCmd.Flags().BoolVar(&strict, "strict", false, "abort on annotation range defects instead of dropping them")
	decodeCmd.Flags().StringSliceVar(&channelNames, "channels", nil, "only print these channels (item, field, command, warning, state, diagnostic)")
	decodeCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json")
	decodeCmd.Flags().BoolVar(&showSummary, "summary", false, "print the devices identified by IDCODE after decoding")
	decodeCmd.Flags().BoolVar(&pprofCPU, "pprof-cpu", false, "write a CPU profile to the working directory")
}

func runDecode(cmd *cobra.Command, args []string) error {
	if pprofCPU {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	cfg, err := decodeConfig()
	if err != nil {
		return err
	}
	events, err := readTrace(args[0])
	if err != nil {
		return err
	}
	logger.Debug("Loaded trace", "file", args[0], "events", len(events))

	col := &riscv.Collector{}
	dec, err := riscv.NewDecoder(cfg, col, logger)
	if err != nil {
		return err
	}
	if err := dec.DecodeAll(events); err != nil {
		logger.Warn("Some records were skipped", "err", err)
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "text":
		printAnnotations(out, col.Annotations)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(col.Annotations); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	if showSummary {
		printDevices(out, dec.IDCodes())
	}
	return nil
}

func decodeConfig() (*riscv.Config, error) {
	cfg := riscv.DefaultConfig()
	cfg.Catalog = catalogName
	cfg.Strict = strict
	for _, name := range channelNames {
		ch, err := riscv.ParseChannel(name)
		if err != nil {
			return nil, err
		}
		cfg.Channels = append(cfg.Channels, ch)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readTrace(path string) ([]riscv.RawEvent, error) {
	p, err := trace.NewParser()
	if err != nil {
		return nil, err
	}
	if path == "-" {
		return p.Parse(os.Stdin)
	}
	return p.ParseFile(path)
}

func printAnnotations(w io.Writer, anns []riscv.Annotation) {
	for _, a := range anns {
		fmt.Fprintf(w, "%10d %10d  %-10s %s\n", a.Start, a.End, a.Channel, a.Text[0])
	}
}

func printDevices(w io.Writer, codes []uint32) {
	fmt.Fprintf(w, "\nIdentified %d device(s):\n", len(codes))
	for i, code := range codes {
		info := deviceinfo.Lookup(code)
		logger.Debug("Device lookup", "idcode", HexU32(code), "known", info.Known)
		fmt.Fprintf(w, "  %d. %s\n", i+1, info.IDCode)
		fmt.Fprintf(w, "     %s", info.Name)
		if info.Known {
			fmt.Fprintf(w, " [%s, %s, IR %d bits, catalog %s]", info.Family, info.Transport, info.IRLength, info.Catalog)
		}
		fmt.Fprintln(w)
	}
}
