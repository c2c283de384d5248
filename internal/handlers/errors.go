package handlers

import (
	"errors"
	"net/http"

	"internhub/internal/apperrors"
	"internhub/internal/utils"

	"go.uber.org/zap"
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindMissingCV:            http.StatusUnprocessableEntity,
	apperrors.KindDuplicateApplication: http.StatusConflict,
	apperrors.KindDuplicateInterview:   http.StatusConflict,
	apperrors.KindInvalidSchedule:      http.StatusBadRequest,
	apperrors.KindFieldConflict:        http.StatusBadRequest,
	apperrors.KindInvalidDuration:      http.StatusBadRequest,
	apperrors.KindDateMismatch:         http.StatusBadRequest,
	apperrors.KindPastStartDate:        http.StatusBadRequest,
	apperrors.KindInvalidInput:         http.StatusBadRequest,
	apperrors.KindNotFound:             http.StatusNotFound,
	apperrors.KindUnauthorized:         http.StatusUnauthorized,
	apperrors.KindForbidden:            http.StatusForbidden,
	apperrors.KindInternal:             http.StatusInternalServerError,
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"code","message"}. Internal errors are logged with
// their stack and never leak their cause to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := StatusFor(kind)
	var appErr *apperrors.Error
	isAppErr := errors.As(err, &appErr)

	if status == http.StatusInternalServerError {
		fields := []zap.Field{zap.Error(err)}
		if isAppErr {
			fields = append(fields, zap.ByteString("stack", appErr.StackTrace()))
		}
		logger.Error("request failed", fields...)
		utils.JSONError(w, status, string(apperrors.KindInternal), "internal server error")
		return
	}

	message := err.Error()
	if isAppErr {
		message = appErr.Message
	}
	utils.JSONError(w, status, string(kind), message)
}

func badRequest(w http.ResponseWriter, message string) {
	utils.JSONError(w, http.StatusBadRequest, string(apperrors.KindInvalidInput), message)
}
