package server

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
)

// LoggingMiddleware logs every routed request
func LoggingMiddleware(logger Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(req *request.Request) (response.Response, error) {
			start := time.Now()

			res, err := next.ServeRequest(req)

			fields := []Field{
				{"method", req.Method},
				{"path", req.Path},
				{"duration", time.Since(start)},
			}
			if err != nil {
				logger.Warn("request failed", append(fields, Field{"error", err})...)
				return res, err
			}

			logger.Info("request handled", append(fields, Field{"status", int(res.Status)})...)
			return res, nil
		})
	}
}

// RecoveryMiddleware turns a handler panic into an error so the connection
// is dropped instead of the process
func RecoveryMiddleware(logger Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(req *request.Request) (res response.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						Field{"error", fmt.Sprint(r)},
						Field{"stack", string(debug.Stack())},
						Field{"path", req.Path},
					)
					res, err = response.Response{}, fmt.Errorf("%w: %v", ErrHandlerPanic, r)
				}
			}()

			return next.ServeRequest(req)
		})
	}
}
