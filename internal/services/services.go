package services

import (
	"spendwise/internal/amqp"
	"spendwise/internal/cache"
	"spendwise/internal/store"
)

// Services groups the application services that share one store.
type Services struct {
	Transactions *TransactionService
	Budgets      *BudgetService
	Recurring    *RecurringService
	QuickAdd     *QuickAddService
	Analytics    *AnalyticsService
	Data         *DataService
	Processor    *RecurringProcessor
}

// New wires every service to s. events may be nil; overviews may be nil to
// disable analytics caching. Local mutations purge cached overviews
// directly, without waiting for the event round trip.
func New(s store.Store, events EventPublisher, clock Clock, overviews cache.Cache[Overview]) *Services {
	txns := NewTransactionService(s, events)
	recurring := NewRecurringService(s, txns, events, clock)
	svc := &Services{
		Transactions: txns,
		Budgets:      NewBudgetService(s, events, clock),
		Recurring:    recurring,
		QuickAdd:     NewQuickAddService(s, txns, events, clock),
		Analytics:    NewAnalyticsService(s, clock, overviews),
		Data:         NewDataService(s, events),
		Processor:    NewRecurringProcessor(recurring),
	}

	invalidate := func(ev *amqp.ChangeEvent) {
		if ev.AffectsAnalytics() {
			svc.Analytics.Invalidate()
		}
	}
	svc.Transactions.OnChange(invalidate)
	svc.Budgets.OnChange(invalidate)
	svc.Recurring.OnChange(invalidate)
	svc.Data.OnChange(invalidate)
	return svc
}
