package payroll

import "context"

// PayrollService builds day and site summaries from raw events
type PayrollService interface {
	// GetMySummary returns the last N civil days for the calling worker
	GetMySummary(ctx context.Context, req MySummaryRequest) (WorkerSummaryResponse, error)

	// GetWorkerSummary returns day summaries for a worker and civil-day range (admin)
	GetWorkerSummary(ctx context.Context, req WorkerSummaryRequest) (WorkerSummaryResponse, error)

	// GetSiteInvoice returns the site-level rollup for a worker and range (admin)
	GetSiteInvoice(ctx context.Context, req WorkerSummaryRequest) (InvoiceResponse, error)

	// GetPayouts lists every worker-day with events in the range, unpaid days first (admin)
	GetPayouts(ctx context.Context, req PayoutsRequest) (PayoutsResponse, error)

	// MarkDayPaid flags every unpaid event of one worker and civil day as paid
	MarkDayPaid(ctx context.Context, req MarkDayPaidRequest) (MarkDayPaidResponse, error)
}
