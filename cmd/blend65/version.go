package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"blend65/internal/version"
)

const versionTagline = "every byte in its place"

// versionPayload is the serializable version report; absent build
// details stay omitted in JSON output.
type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show blend65 build fingerprints",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include the git commit hash")
	versionCmd.Flags().Bool("message", false, "include the git commit message")
	versionCmd.Flags().Bool("date", false, "include the build date")
	versionCmd.Flags().Bool("full", false, "include every build detail")
	versionCmd.Flags().String("format", "pretty", "output format: pretty or json")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	withHash, err := cmd.Flags().GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to get hash flag: %w", err)
	}
	withMessage, err := cmd.Flags().GetBool("message")
	if err != nil {
		return fmt.Errorf("failed to get message flag: %w", err)
	}
	withDate, err := cmd.Flags().GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}

	payload := buildVersionPayload()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		printVersionPretty(os.Stdout, payload, withHash || full, withMessage || full, withDate || full)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func buildVersionPayload() versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "unknown"
	}
	return versionPayload{
		Tool:       "blend65",
		Version:    v,
		Tagline:    versionTagline,
		GitCommit:  strings.TrimSpace(version.GitCommit),
		GitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
}

func printVersionPretty(out io.Writer, p versionPayload, withHash, withMessage, withDate bool) {
	fmt.Fprintf(out, "blend65 %s (%s)\n", p.Version, p.Tagline)
	shown := false
	if withHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(p.GitCommit))
		shown = true
	}
	if withMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(p.GitMessage))
		shown = true
	}
	if withDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(p.BuildDate))
		shown = true
	}
	if !shown {
		fmt.Fprintln(out, "set --hash, --message, --date, or --full for more build trivia")
	}
}

func valueOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
