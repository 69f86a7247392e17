package httpError

import "net/http"

// CommonError is the error shape every usecase hands back inside utils.Result.
type CommonError struct {
	Code         int    `json:"code"`
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:         http.StatusBadRequest,
		ResponseCode: "BAD_REQUEST",
		Message:      "bad request",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:         http.StatusUnauthorized,
		ResponseCode: "UNAUTHORIZED",
		Message:      "unauthorized",
	}
}

func NewForbidden() *CommonError {
	return &CommonError{
		Code:         http.StatusForbidden,
		ResponseCode: "FORBIDDEN",
		Message:      "forbidden",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:         http.StatusNotFound,
		ResponseCode: "NOT_FOUND",
		Message:      "not found",
	}
}

func NewConflict() *CommonError {
	return &CommonError{
		Code:         http.StatusConflict,
		ResponseCode: "CONFLICT",
		Message:      "conflict",
	}
}

func NewUnprocessableEntity() *CommonError {
	return &CommonError{
		Code:         http.StatusUnprocessableEntity,
		ResponseCode: "UNPROCESSABLE_ENTITY",
		Message:      "unprocessable entity",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:         http.StatusInternalServerError,
		ResponseCode: "INTERNAL_SERVER_ERROR",
		Message:      "internal server error",
	}
}
