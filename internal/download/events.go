package download

// Reporter receives structured progress events from the pipeline. The
// pipeline never writes to a terminal itself; presentation is entirely
// the listener's concern.
type Reporter interface {
	ItemStarted(item Item, index, total int)
	ItemProgress(item Item, percent float64)
	ItemSkipped(item Item, filename string)
	ItemSucceeded(item Item, filename string, sizeBytes int64)
	ItemFailed(item Item, reason string, err error)
	BatchFinished(summary Summary)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) ItemStarted(Item, int, int)          {}
func (NopReporter) ItemProgress(Item, float64)          {}
func (NopReporter) ItemSkipped(Item, string)            {}
func (NopReporter) ItemSucceeded(Item, string, int64)   {}
func (NopReporter) ItemFailed(Item, string, error)      {}
func (NopReporter) BatchFinished(Summary)               {}

// Failure identifies one failed item in a batch summary.
type Failure struct {
	ContentID string
	Title     string
	Reason    string
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
}
