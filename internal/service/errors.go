package service

import (
	"errors"

	"github.com/haierkeys/note-tree-service/internal/domain"
	"github.com/haierkeys/note-tree-service/pkg/code"
	"github.com/haierkeys/note-tree-service/pkg/writequeue"
)

// toCode 将仓储层错误映射为带 HTTP 状态的业务码
func toCode(err error) error {
	if err == nil {
		return nil
	}

	var c *code.Code
	if errors.As(err, &c) {
		return err
	}

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		return code.ErrorNoteNotFound
	case errors.Is(err, domain.ErrImageNotFound):
		return code.ErrorImageNotFound
	case errors.Is(err, domain.ErrCycle):
		return code.ErrorNoteCycle
	case errors.As(err, &ve):
		return code.ErrorInvalidParams.WithDetails(ve.Error())
	case errors.Is(err, writequeue.ErrWriteQueueFull),
		errors.Is(err, writequeue.ErrWriteQueueClosed),
		errors.Is(err, writequeue.ErrWriteTimeout):
		return code.ErrorWriteQueue.WithDetails(err.Error())
	default:
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
