package app

import (
	"os"

	"virtual-vr-console/internal/config"
	"virtual-vr-console/internal/logx"
)

// NewLogger returns the JSON stdout logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel)
}
