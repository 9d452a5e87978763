package download

import (
	"context"

	"github.com/Postmodum37/beacon-dl/internal/logging"
	"github.com/Postmodum37/beacon-dl/internal/services"
)

// RunBatch processes items sequentially. A failed item is recorded in
// the summary and the loop continues; fatal errors (ledger or session
// loss) abort immediately since every remaining item would fail the
// same way. The returned summary is valid even when an error is
// returned.
func (o *Orchestrator) RunBatch(ctx context.Context, items []Item) (Summary, error) {
	summary := Summary{Total: len(items)}
	log := logging.NewComponentLogger(o.logger, "batch")

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		o.reporter.ItemStarted(item, i+1, len(items))

		outcome, err := o.ProcessItem(ctx, item)
		if err != nil {
			reason := services.Reason(err)
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				ContentID: item.ContentID,
				Title:     item.RawTitle,
				Reason:    reason,
			})
			o.reporter.ItemFailed(item, reason, err)
			log.Error("item failed",
				logging.String(logging.FieldContentID, item.ContentID),
				logging.String("reason", reason),
				logging.Error(err))
			if services.Fatal(err) {
				o.reporter.BatchFinished(summary)
				return summary, err
			}
			continue
		}

		switch outcome.Status {
		case StatusDeduped:
			summary.Skipped++
			o.reporter.ItemSkipped(item, outcome.Filename)
		default:
			summary.Succeeded++
			o.reporter.ItemSucceeded(item, outcome.Filename, outcome.Record.SizeBytes)
		}
	}

	o.reporter.BatchFinished(summary)
	return summary, nil
}
