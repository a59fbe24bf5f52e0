package application

import (
	"context"
	"errors"
)

// Notifiers fans a mismatch out to every configured sink and joins their errors.
type Notifiers []Notifier

func (n Notifiers) NotifyMismatch(ctx context.Context, report *Report) error {
	var errs []error
	for _, notifier := range n {
		if notifier == nil {
			continue
		}
		if err := notifier.NotifyMismatch(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
