// Package classify runs an ordered chain of classifiers over a scan
// result, annotating it with tags and scores.
package classify

import (
	"TickerScout/internal/logger"
	"TickerScout/internal/model"
)

// Classifier annotates a scan result in place. bars is the cleaned trailing
// window the result's indicators were computed from, most recent last.
type Classifier interface {
	Name() string
	Classify(result *model.EquityScanResult, bars []model.Bar)
}

// Engine invokes each registered classifier in a fixed order.
type Engine struct {
	classifiers []Classifier
	log         logger.Logger
}

// NewEngine builds an engine over the given chain. Order is preserved.
func NewEngine(log logger.Logger, classifiers ...Classifier) *Engine {
	return &Engine{classifiers: classifiers, log: log}
}

// Classify mutates result's tag set and scores through the whole chain.
func (e *Engine) Classify(result *model.EquityScanResult, bars []model.Bar) {
	for _, c := range e.classifiers {
		c.Classify(result, bars)
	}
	if len(result.Tags) > 0 {
		e.log.Debugf("%s classified: %v", result.Symbol, result.Tags)
	}
}
