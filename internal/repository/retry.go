package repository

import (
	"errors"
	"io"
	"strings"

	"poll-quiz-service/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// retryTransient runs op and retries it exactly once when the failure
// looks like a transient network problem. Anything else surfaces
// unchanged.
func retryTransient(op func() error) error {
	err := op()
	if err == nil || !isTransient(err) {
		return err
	}
	logger.Log.Warn("transient storage error, retrying once", zap.Error(err))
	return op()
}

func isTransient(err error) bool {
	if mongo.IsTimeout(err) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset")
}
