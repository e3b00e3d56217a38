// Command worker records moderation events in the audit log and e-mails
// couriers about approval decisions.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"virtual-vr-console/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.NewWorkerRunner().MustRun(app.MustBuildWorkerContainer(ctx))
}
