package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/formatter"
	"github.com/Philipp01105/firelogger/handler"
)

var (
	decodePassword string
	decodePrefix   string
	decodeVersion  string
	decodeTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(replayCmd)
	decodeCmd.Flags().StringVarP(&decodePassword, "password", "p", "", "server password")
	decodeCmd.Flags().StringVar(&decodePrefix, "prefix", formatter.DefaultHeaderPrefix, "header name prefix")
	decodeCmd.Flags().StringVar(&decodeVersion, "client-version", "0.8", "version announced in the X-FireLogger header")
	decodeCmd.Flags().DurationVar(&decodeTimeout, "timeout", 30*time.Second, "request timeout")
}

// decodeCmd fetches a URL and prints its FireLogger records
var decodeCmd = &cobra.Command{
	Use:   "decode <url>",
	Short: "Fetch a URL and print its FireLogger records",
	Long: `Request a URL as a FireLogger client would and print the records found in
the response headers.

Examples:
  # Decode the demo server's records
  firelogger decode http://localhost:8080/

  # Server with a password
  firelogger decode -p secret http://localhost:8080/error`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

// replayCmd prints an archive written by the serve command
var replayCmd = &cobra.Command{
	Use:   "replay <archive>",
	Short: "Print the sessions of a FireLogger archive",
	Long: `Print every session stored in an archive file written by
"firelogger serve --archive". Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runDecode(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), decodeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(handler.VersionHeader, decodeVersion)
	if decodePassword != "" {
		req.Header.Set(handler.AuthHeader, handler.AuthHash(decodePassword))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", args[0], err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	records, err := formatter.Decode(resp.Header, decodePrefix)
	if err != nil {
		return err
	}
	cmd.Printf("%s %s: %d record(s)\n", resp.Proto, resp.Status, len(records))
	return printRecords(cmd.OutOrStdout(), records)
}

func runReplay(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer f.Close()
		in = f
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	session := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		records, err := formatter.DecodePayload(line)
		if err != nil {
			return fmt.Errorf("session %d: %w", session+1, err)
		}
		session++
		cmd.Printf("--- session %d: %d record(s)\n", session, len(records))
		if err := printRecords(cmd.OutOrStdout(), records); err != nil {
			return err
		}
	}
	return sc.Err()
}

func printRecords(w io.Writer, records []*core.Record) error {
	if len(records) == 0 {
		return nil
	}
	return formatter.NewTextFormatter(formatter.Config{IncludeCaller: true}).FormatTo(records, w)
}
