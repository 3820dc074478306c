// Package main is the entry point for the mxl2mei CLI
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/james-see/mxl2mei/pkg/api"
	"github.com/james-see/mxl2mei/pkg/config"
	"github.com/james-see/mxl2mei/pkg/converter"
	"github.com/james-see/mxl2mei/pkg/logging"
	"github.com/james-see/mxl2mei/pkg/musicxml"
	"github.com/james-see/mxl2mei/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile string
	logLevel   string
	idPrefix   string
	outputFile string
	serverPort int
	dumpTarget string
	dumpDepth  int

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mxl2mei",
	Short: "Convert MusicXML scores to MEI",
	Long: `mxl2mei converts partwise MusicXML (.musicxml, .xml or compressed .mxl)
into MEI documents, and renders MIDI previews of the result.

Examples:
  mxl2mei convert score.musicxml -o score.mei
  mxl2mei midi score.mxl -o score.mid
  mxl2mei inspect score.musicxml --dump mei
  mxl2mei tui
  mxl2mei serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a score, picking the output format from its extension",
	Long:  `Converts MusicXML to MEI (.mei) or a MIDI preview (.mid), based on the output file extension. Without -o the output is written next to the input as .mei.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var midiCmd = &cobra.Command{
	Use:   "midi <input>",
	Short: "Render a MIDI preview of a MusicXML score",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDI,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Show what a file contains",
	Long: `For MusicXML input, converts in memory and prints the title, part and measure
counts and every conversion warning. --dump score|mei prints the parsed score or the
produced MEI tree. For MIDI input, prints a track and note summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var configCmd = &cobra.Command{
	Use:   "config [output]",
	Short: "Print the effective configuration, or write it to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfig,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&idPrefix, "id-prefix", "", "Prefix of generated MEI ids")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (.mei or .mid)")

	// midi command
	midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// inspect command
	inspectCmd.Flags().StringVar(&dumpTarget, "dump", "", "Dump the parsed score or the MEI tree (score, mei)")
	inspectCmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum dump depth (0 for unlimited)")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default from config, 8080)")

	// Add commands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if idPrefix != "" {
		cfg.IDPrefix = idPrefix
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.InitLogging()
	if configFile != "" {
		logging.Debug("loaded config", "path", configFile)
	}
	return nil
}

func newConverter() *converter.Converter {
	return converter.New(
		converter.WithIDPrefix(cfg.IDPrefix),
		converter.WithMIDI(cfg.MIDI.TicksPerQuarter, cfg.MIDI.Velocity),
	)
}

func getOutputPath(input string, target converter.Format) string {
	if outputFile != "" {
		return outputFile
	}
	return converter.OutputPath(input, target)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, converter.FormatMEI)

	result, err := newConverter().ConvertFile(input, output)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), input, output, result)
	return nil
}

func runMIDI(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, converter.FormatMIDI)
	if converter.DetectFormat(output) != converter.FormatMIDI {
		return fmt.Errorf("output %s is not a .mid file", output)
	}

	result, err := newConverter().ConvertFile(input, output)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), input, output, result)
	return nil
}

func printResult(w io.Writer, input, output string, r *converter.Result) {
	fmt.Fprintf(w, "Converted %s -> %s\n", input, output)
	fmt.Fprintf(w, "  %d part(s), %d measure(s)\n", r.Parts, r.Measures)
	printWarnings(w, r)
}

func printWarnings(w io.Writer, r *converter.Result) {
	if len(r.Warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "  %d warning(s):\n", len(r.Warnings))
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "    %s\n", warn)
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	format := converter.DetectFormat(input)
	if format == converter.FormatUnknown {
		format = converter.DetectFormatFromContent(data)
	}

	conv := newConverter()
	if format == converter.FormatMIDI {
		summary, err := conv.MIDI().ParseMIDI(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "MIDI file: %s\n", input)
		fmt.Fprintf(out, "  Tracks: %d\n  Notes: %d\n  Resolution: %d ticks per quarter\n  Tempo: %.1f BPM\n  Length: %d ticks\n",
			summary.Tracks, summary.Notes, summary.TicksPerQuarter, summary.Tempo, summary.Length)
		return nil
	}
	if !format.IsMusicXML() {
		return fmt.Errorf("%w: cannot inspect %s", converter.ErrUnsupportedConversion, format)
	}

	doc, result, err := conv.Convert(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Score: %s\n", result.Title)
	fmt.Fprintf(out, "  Parts: %d\n  Measures: %d\n", result.Parts, result.Measures)
	printWarnings(out, result)

	dumper := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                dumpDepth,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	switch dumpTarget {
	case "":
	case "score":
		score, err := musicxml.ParseBytes(data)
		if err != nil {
			return err
		}
		dumper.Fdump(out, score)
	case "mei":
		dumper.Fdump(out, doc)
	default:
		return fmt.Errorf("unknown dump target %q (want score or mei)", dumpTarget)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := config.WriteFile(cfg, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
		return nil
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(newConverter())
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Printf("Starting API server on port %d...\n", cfg.Server.Port)
	return api.NewServer(cfg).Run()
}
