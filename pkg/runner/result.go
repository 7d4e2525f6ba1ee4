package runner

// Conversion is what a Task reports for one converted file.
type Conversion struct {
	// Output is the path written, empty when nothing was written to disk.
	Output string

	// Written is true when Output was created or its content changed.
	Written bool

	// Diff is the pending change to Output when the run only previews.
	Diff string

	// Marks counts the marked ranges in the converted document by mark name.
	Marks map[string]int
}

// FileOutcome is the result of converting one discovered file.
type FileOutcome struct {
	File       File
	Conversion Conversion

	// Error is set when the file could not be converted.
	Error error
}

// Stats aggregates a batch.
type Stats struct {
	FilesDiscovered int
	FilesConverted  int
	FilesWritten    int
	FilesUnchanged  int
	FilesDiffered   int
	FilesFailed     int

	// MarkedRanges counts marked ranges across all converted files by mark name.
	MarkedRanges map[string]int
}

// Result is the outcome of a batch, with Files in discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file failed to convert.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesFailed > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesConverted++
	switch {
	case outcome.Conversion.Written:
		r.Stats.FilesWritten++
	case outcome.Conversion.Diff != "":
		r.Stats.FilesDiffered++
	case outcome.Conversion.Output != "":
		r.Stats.FilesUnchanged++
	}
	for name, n := range outcome.Conversion.Marks {
		r.Stats.MarkedRanges[name] += n
	}
}
