package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover creates middleware that turns handler panics into logged errors
// so one bad update cannot take the poller down.
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Recovered from panic in handler",
						zap.Any("panic", r),
						zap.Int64("user_id", c.Sender().ID),
					)
				}
			}()
			return next(c)
		}
	}
}
