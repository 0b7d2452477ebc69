package logger

import "fmt"

// StripeAdapter lets the processor SDK write through the application logger.
// It satisfies stripe.LeveledLoggerInterface.
type StripeAdapter struct {
	l *Logger
}

func (l *Logger) Stripe() *StripeAdapter {
	return &StripeAdapter{l: l}
}

func (a *StripeAdapter) Debugf(format string, v ...interface{}) {
	a.l.Debug("STRIPE", fmt.Sprintf(format, v...))
}

func (a *StripeAdapter) Infof(format string, v ...interface{}) {
	a.l.Info("STRIPE", fmt.Sprintf(format, v...))
}

func (a *StripeAdapter) Warnf(format string, v ...interface{}) {
	a.l.Warn("STRIPE", fmt.Sprintf(format, v...))
}

func (a *StripeAdapter) Errorf(format string, v ...interface{}) {
	a.l.Error("STRIPE", fmt.Sprintf(format, v...))
}
