package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApiError is the structured body returned for every error response.
type ApiError struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Erro      string            `json:"erro"`
	Mensagem  string            `json:"mensagem"`
	Caminho   string            `json:"caminho"`
	Campos    map[string]string `json:"campos,omitempty"`
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

type InvalidInputError struct {
	Label   string // error category shown to the client, defaults to "Validação"
	Message string
	Campos  map[string]string
}

func (e *InvalidInputError) Error() string { return e.Message }

func InvalidInput(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// InvalidFile marks a file constraint violation ("Arquivo inválido" category).
func InvalidFile(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Label: "Arquivo inválido", Message: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// UploadFailedError wraps the underlying cause of a failed upload batch after
// compensation (deletion of already-uploaded objects) was attempted.
type UploadFailedError struct {
	Message string
	Err     error
}

func (e *UploadFailedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UploadFailedError) Unwrap() error { return e.Err }

func UploadFailed(err error, format string, args ...any) *UploadFailedError {
	return &UploadFailedError{Message: fmt.Sprintf(format, args...), Err: err}
}

// Respond translates err to an HTTP status and the ApiError body.
func Respond(c *gin.Context, err error) {
	body := ApiError{
		Timestamp: time.Now(),
		Mensagem:  err.Error(),
		Caminho:   c.Request.URL.Path,
	}

	var notFound *NotFoundError
	var invalid *InvalidInputError
	var conflict *ConflictError
	var upload *UploadFailedError

	// An upload failure may wrap a validation or integrity cause; the wrapper
	// decides the status, so it has to be matched before the wrapped kinds.
	switch {
	case errors.As(err, &upload):
		body.Status = http.StatusInternalServerError
		body.Erro = "Falha no upload"
	case errors.As(err, &notFound):
		body.Status = http.StatusNotFound
		body.Erro = "Não encontrado"
	case errors.As(err, &invalid):
		body.Status = http.StatusBadRequest
		body.Erro = invalid.Label
		if body.Erro == "" {
			body.Erro = "Validação"
		}
		body.Campos = invalid.Campos
	case errors.As(err, &conflict):
		body.Status = http.StatusConflict
		body.Erro = "Conflito"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		body.Status = http.StatusConflict
		body.Erro = "Conflito"
		body.Mensagem = "Violação de integridade (registro duplicado ou relação inválida)"
	default:
		body.Status = http.StatusInternalServerError
		body.Erro = "Erro interno"
	}
	c.JSON(body.Status, body)
}
