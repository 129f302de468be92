package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"migwatch/internal/config"
	"migwatch/pkg/statusclient"
)

// statusReport is the --json output of the status command.
type statusReport struct {
	URL      string               `json:"url"`
	Summary  statusclient.Summary `json:"summary"`
	Finished []string             `json:"finished"`
	At       time.Time            `json:"fetched_at"`
}

// runStatus builds the handler for the status command.
func runStatus(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for "+config.ConfigFileName+")")
		url := flags.String("url", "", "Operation URL override")
		asJSON := flags.Bool("json", false, "Print JSON")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, err := loadSessionConfig(*configPath, *url)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Endpoint.Timeout())
		defer cancel()
		report, err := fetchStatus(ctx, statusclient.New(cfg.Endpoint.URL))
		if err != nil {
			fmt.Fprintf(stderr, "Status failed: %v\n", err)
			return ExitError
		}
		report.URL = cfg.Endpoint.URL

		if *asJSON {
			encoder := json.NewEncoder(stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fmt.Fprintf(stderr, "Status failed: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		printStatus(stdout, report)
		return ExitOK
	}
}

// fetchStatus reads one summary and the finished entries it reports.
func fetchStatus(ctx context.Context, client *statusclient.Client) (statusReport, error) {
	summary, err := client.FetchSummary(ctx)
	if err != nil {
		return statusReport{}, err
	}
	report := statusReport{Summary: summary, Finished: []string{}, At: time.Now().UTC()}
	if summary.FinishedCount > 0 {
		page, err := client.FetchFinished(ctx, 0, summary.FinishedCount)
		if err != nil {
			return statusReport{}, fmt.Errorf("fetch finished: %w", err)
		}
		report.Finished = page
	}
	return report, nil
}

func printStatus(w io.Writer, report statusReport) {
	state := "idle"
	if report.Summary.Running {
		state = "running"
	}
	fmt.Fprintf(w, "%s: %s\n", report.URL, state)
	printList(w, "Status", report.Summary.StatusList)
	printList(w, "Instrument", report.Summary.InstrumentList)
	printList(w, "Active", report.Summary.ActiveList)
	printList(w, "Errors", report.Summary.Errors)
	fmt.Fprintf(w, "Finished (%d):\n", report.Summary.FinishedCount)
	for _, entry := range report.Finished {
		fmt.Fprintf(w, "  %s\n", entry)
	}
}

func printList(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
