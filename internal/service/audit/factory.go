package audit

import (
	"context"

	"virtual-vr-console/internal/domain"
)

type notifyFunc func(context.Context, domain.ModerationEvent) error

type notifierFactory struct {
	byAction map[domain.ModerationAction]notifyFunc
}

func newNotifierFactory(onApprove, onReject notifyFunc) *notifierFactory {
	return &notifierFactory{
		byAction: map[domain.ModerationAction]notifyFunc{
			domain.ActionApprove: onApprove,
			domain.ActionReject:  onReject,
		},
	}
}

// get returns the notifier for courier events only; customers are never mailed.
func (f *notifierFactory) get(ev domain.ModerationEvent) (notifyFunc, bool) {
	if ev.Kind != domain.RoleDelivery {
		return nil, false
	}
	fn, ok := f.byAction[ev.Action]
	return fn, ok
}
