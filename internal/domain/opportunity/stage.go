package opportunity

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// Stage is a position in the opportunity pipeline. Any stage may be reached
// from any other; CLOSED_WON and CLOSED_LOST are terminal.
type Stage string

const (
	StageProspecting   Stage = "PROSPECTING"
	StageQualification Stage = "QUALIFICATION"
	StageProposal      Stage = "PROPOSAL"
	StageNegotiation   Stage = "NEGOTIATION"
	StageClosedWon     Stage = "CLOSED_WON"
	StageClosedLost    Stage = "CLOSED_LOST"
)

// probabilities is the fixed win probability (percent) for each stage.
var probabilities = map[Stage]int{
	StageProspecting:   10,
	StageQualification: 25,
	StageProposal:      50,
	StageNegotiation:   75,
	StageClosedWon:     100,
	StageClosedLost:    0,
}

// ParseStage converts a caller-supplied string into a known Stage. Unknown
// values return domain.ErrInvalidStage.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.TrimSpace(s))
	if !stage.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStage, s)
	}
	return stage, nil
}

// IsValid returns true if the stage is one of the defined constants.
func (s Stage) IsValid() bool {
	_, ok := probabilities[s]
	return ok
}

// IsTerminal reports whether the stage closes the opportunity.
func (s Stage) IsTerminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Probability returns the fixed win probability for the stage, or 0 for an
// unknown stage.
func (s Stage) Probability() int {
	return probabilities[s]
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	return string(s)
}
