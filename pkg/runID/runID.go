package runid

import (
	"fmt"
	"strings"

	"github.com/samborkent/uuidv7"
)

const suffixLength = 8

// New returns a time-ordered id for a seed run.
func New() string {
	return uuidv7.New().String()
}

// Suffix returns the trailing random part of a run id, without dashes.
func Suffix(runID string) string {
	compact := strings.ReplaceAll(runID, "-", "")
	if len(compact) <= suffixLength {
		return compact
	}
	return compact[len(compact)-suffixLength:]
}

// Label tags name with the run suffix so repeated seeds don't collide.
func Label(name, runID string) string {
	suffix := Suffix(runID)
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s #%s", name, suffix)
}
