package orchestrator

import (
	"fmt"
	"strings"
)

// Aggregate combines executor results into the final reply. A single
// result passes through verbatim; multiple results are labeled with
// the executor's display name.
func Aggregate(results []ExecutorResult) string {
	if len(results) == 1 {
		return results[0].Response
	}

	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, fmt.Sprintf("%s Agent:\n%s", r.Executor.DisplayName(), r.Response))
	}
	return strings.Join(sections, "\n\n")
}
