package analysis

import "time"

// Phase identifies one stage of the pipeline. Phases run strictly in
// order; there is no branching back.
type Phase uint8

const (
	PhaseReset Phase = iota
	PhaseModules
	PhaseDeclarations
	PhaseExpressions
	PhaseCoordination
	PhaseAggregation
	PhaseDone
)

var phaseNames = [...]string{
	"reset",
	"modules",
	"declarations",
	"expressions",
	"coordination",
	"aggregation",
	"done",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes one phase boundary: which phase, whether it is
// starting or ending, how many units the batch holds, and the elapsed
// time (end events only).
type PhaseEvent struct {
	Phase   Phase
	Status  PhaseStatus
	Units   int
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Analyze.
type PhaseObserver func(PhaseEvent)
