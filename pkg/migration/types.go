package migration

import (
	"time"
)

// Note is a file found under an import root
type Note struct {
	Path  string // Absolute path on disk
	Dir   string // Slash-separated directory relative to the root, "" at the top
	Title string
}

type Options struct {
	DryRun  bool
	Verbose bool
}

type Report struct {
	TotalFiles     int
	ImportedFiles  int
	SkippedFiles   int
	FailedFiles    int
	CreatedFolders int
	Errors         map[string]error
	StartTime      time.Time
	EndTime        time.Time
}

func NewReport() *Report {
	return &Report{
		Errors:    make(map[string]error),
		StartTime: time.Now(),
	}
}

func (r *Report) AddError(file string, err error) {
	r.Errors[file] = err
	r.FailedFiles++
}

func (r *Report) Complete() {
	r.EndTime = time.Now()
}

func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
