// Package reminder implements the due-reminder dispatch cycle: selecting
// incomplete tasks due within a time window, claiming an idempotency marker
// per task, fanning deliveries out to the owner's push subscriptions, and
// pruning subscriptions the push service reports gone.
package reminder
