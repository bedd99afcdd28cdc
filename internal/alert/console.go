package alert

import "TickerScout/internal/logger"

// ConsoleSink writes alerts to the log, used when Telegram is not
// configured.
type ConsoleSink struct {
	Log logger.Logger
}

func NewConsoleSink(log logger.Logger) *ConsoleSink { return &ConsoleSink{Log: log} }

func (c *ConsoleSink) AddAlert(message string) {
	c.Log.Infof("ALERT %s", message)
}
