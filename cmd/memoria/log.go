package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/memoria/pkg/core"
)

var (
	payloadJSON string
	payloadFile string
	logJSON     bool
)

var logCmd = &cobra.Command{
	Use:   "log-session",
	Short: "Log a research session",
	Long: `Append a session to the devlog and record its experiments, decisions and TODOs.
The payload is JSON, given inline with --payload-json or read from --payload-file ("-" for stdin).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readPayload(cmd.InOrStdin())
		if err != nil {
			return err
		}

		var session core.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("invalid JSON payload - %w", err)
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		receipt, err := svc.LogSession(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to log session: %w", err)
		}

		if logJSON {
			return writeJSON(cmd.OutOrStdout(), receipt)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session logged successfully")
		return nil
	},
}

func readPayload(stdin io.Reader) ([]byte, error) {
	switch {
	case payloadJSON != "" && payloadFile != "":
		return nil, errors.New("use either --payload-json or --payload-file")
	case payloadJSON != "":
		return []byte(payloadJSON), nil
	case payloadFile == "-":
		return io.ReadAll(stdin)
	case payloadFile != "":
		return os.ReadFile(payloadFile)
	}
	return nil, errors.New("--payload-json or --payload-file is required")
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVar(&payloadJSON, "payload-json", "", "JSON payload for session logging")
	logCmd.Flags().StringVar(&payloadFile, "payload-file", "", "File holding the JSON payload")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "Print the receipt as JSON")
}
