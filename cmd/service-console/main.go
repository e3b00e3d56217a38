// Command service-console serves the Virtual VR back office: sign-in,
// sign-up and the admin console API.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"virtual-vr-console/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := app.MustBuildContainer(ctx)
	app.NewRunner().MustRun(container)
}
