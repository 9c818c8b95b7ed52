package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase is a stage of a run
type Phase string

const (
	PhaseOpening   Phase = "Opening"
	PhaseQuerying  Phase = "Querying"
	PhaseExporting Phase = "Exporting"
)

// DefaultPhases is the order the CLI walks through
var DefaultPhases = []Phase{PhaseOpening, PhaseQuerying, PhaseExporting}

// ProgressBar wraps progressbar with the CLI's styling
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

// NewProgressBar creates a bar for phase writing to output
func NewProgressBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

func discardBar(phase Phase) *ProgressBar {
	return &ProgressBar{
		bar:   progressbar.NewOptions(-1, progressbar.OptionSetWriter(io.Discard)),
		phase: phase,
	}
}

// Phase returns the stage this bar tracks
func (pb *ProgressBar) Phase() Phase {
	return pb.phase
}

// Increment advances the bar by one step
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Describe shows what the current step is working on
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Finish completes the bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Pipeline walks through a fixed list of phases, one bar at a time
type Pipeline struct {
	phases   []Phase
	current  int
	bar      *ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline writing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		output:  output,
	}
}

// Disable swallows all bar output, e.g. when stdout is not a terminal
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the current bar and starts the next phase with total
// steps. It returns nil once every phase has been started.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		p.bar = nil
		return nil
	}

	phase := p.phases[p.current]
	if p.disabled {
		p.bar = discardBar(phase)
	} else {
		p.bar = NewProgressBar(phase, total, p.output)
	}
	return p.bar
}

// Finish completes the current bar, if any
func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// PrintSummary prints a closing line unless output is disabled
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
