package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-catalog/library"
	"library-catalog/logging"
)

var version = "dev"

// config holds the root command flags. Every flag defaults to its
// LIBRARY_* environment variable.
type config struct {
	logLevel     string
	logFormat    string
	output       string
	importPath   string
	exportOnExit string
	noSampleData bool
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var cfg config

	root := &cobra.Command{
		Use:          "library-catalog",
		Short:        "In-memory library catalog with circulation and reservation waitlists",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cfg, in, out, errOut)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.Flags()
	f.StringVar(&cfg.logLevel, "log-level", getEnv("LIBRARY_LOG_LEVEL", "warn"), "log level: debug, info, warn or error")
	f.StringVar(&cfg.logFormat, "log-format", getEnv("LIBRARY_LOG_FORMAT", "text"), "log format: text or json")
	f.StringVar(&cfg.output, "output", getEnv("LIBRARY_OUTPUT", "table"), "result format: table or json")
	f.StringVar(&cfg.importPath, "import", getEnv("LIBRARY_IMPORT", ""), "CSV file of books to load at startup")
	f.StringVar(&cfg.exportOnExit, "export-on-exit", getEnv("LIBRARY_EXPORT_ON_EXIT", ""), "write a SQLite snapshot to this path when the shell exits")
	f.BoolVar(&cfg.noSampleData, "no-sample-data", getEnvBool("LIBRARY_NO_SAMPLE_DATA", false), "start with an empty catalog")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

func runShell(cfg config, in io.Reader, out, errOut io.Writer) error {
	switch cfg.output {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", cfg.output)
	}

	sessionID := uuid.NewString()
	log := logging.WithSession(logging.New(cfg.logLevel, cfg.logFormat, errOut), sessionID)

	opts := []library.Option{library.WithLogger(log)}
	if cfg.noSampleData {
		opts = append(opts, library.WithoutSampleData())
	}
	mgr := library.NewLibraryManager(opts...)

	if cfg.importPath != "" {
		res, err := mgr.ImportBooksFromFile(cfg.importPath)
		if err != nil {
			return fmt.Errorf("import %s: %w", cfg.importPath, err)
		}
		for _, skipped := range res.Skipped {
			log.Warn("import row skipped", "path", cfg.importPath, "error", skipped)
		}
	}

	interactive, width := terminalInfo(in, out)
	log.Debug("shell started", "interactive", interactive, "width", width)
	newShell(mgr, in, out, newRenderer(out, cfg.output, width), log, interactive).run()

	if cfg.exportOnExit != "" {
		if _, err := mgr.ExportSnapshot(cfg.exportOnExit); err != nil {
			return fmt.Errorf("export on exit: %w", err)
		}
	}
	return nil
}

// terminalInfo reports whether both ends of the shell are a terminal and, if
// so, the terminal width.
func terminalInfo(in io.Reader, out io.Writer) (bool, int) {
	inFile, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(inFile.Fd())) {
		return false, 0
	}
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return false, 0
	}
	width, _, err := term.GetSize(int(outFile.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
