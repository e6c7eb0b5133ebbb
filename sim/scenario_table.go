package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// ScenarioTableHeader is the first line of a scenario table.
const ScenarioTableHeader = "UE#\tInit\tLatency\tPeriodicity"

// WriteScenarioTable writes the per-UE scenario vectors as a tab-separated
// report: the header, the UE count, then the init delays (µs), deadlines (µs)
// and periodicities (ms), one value per line, each vector followed by a blank line.
func WriteScenarioTable(w io.Writer, specs []FlowSpec) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ScenarioTableHeader)
	fmt.Fprintln(bw, len(specs))

	vectors := []func(FlowSpec) int64{
		func(f FlowSpec) int64 { return int64(f.InitDelay / time.Microsecond) },
		func(f FlowSpec) int64 { return int64(f.Deadline / time.Microsecond) },
		func(f FlowSpec) int64 { return int64(f.Periodicity / time.Millisecond) },
	}
	for _, column := range vectors {
		for _, f := range specs {
			fmt.Fprintln(bw, column(f))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// SaveScenarioTable writes the scenario table to path, truncating any
// previous content.
func SaveScenarioTable(path string, specs []FlowSpec) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating scenario table %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing scenario table %s: %w", path, closeErr)
		}
	}()
	return WriteScenarioTable(file, specs)
}
