package diag

// Severity ranks how serious a diagnostic is. The order matters: Bag
// counters and the CLI exit decision compare severities with >=.
type Severity uint8

const (
	// SevInfo marks purely informational output, timings included.
	SevInfo Severity = iota
	// SevWarning marks findings that do not fail the analysis.
	SevWarning
	// SevError marks findings that fail the analysis.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
