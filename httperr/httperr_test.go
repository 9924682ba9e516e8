package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErro   string
	}{
		{"not found", NotFound("Álbum não encontrado: %d", 7), http.StatusNotFound, "Não encontrado"},
		{"invalid input", InvalidInput("Parâmetro page inválido: x"), http.StatusBadRequest, "Validação"},
		{"invalid file", InvalidFile("Arquivos são obrigatórios"), http.StatusBadRequest, "Arquivo inválido"},
		{"conflict", Conflict("E-mail já cadastrado"), http.StatusConflict, "Conflito"},
		{"duplicated key", gorm.ErrDuplicatedKey, http.StatusConflict, "Conflito"},
		{"upload failed", UploadFailed(errors.New("connection reset"), "Falha ao enviar imagens para o MinIO"), http.StatusInternalServerError, "Falha no upload"},
		{"upload wrapping validation", UploadFailed(InvalidFile("Tipo de arquivo inválido. Use JPEG, PNG ou WEBP"), "Falha ao enviar imagens para o MinIO"), http.StatusInternalServerError, "Falha no upload"},
		{"upload wrapping duplicated key", UploadFailed(gorm.ErrDuplicatedKey, "Falha ao enviar imagens para o MinIO"), http.StatusInternalServerError, "Falha no upload"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Erro interno"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest("GET", "/api/v1/albuns/7", nil)

			Respond(c, tc.err)
			if recorder.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tc.wantStatus)
			}
			var body ApiError
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Erro != tc.wantErro {
				t.Errorf("erro = %q, want %q", body.Erro, tc.wantErro)
			}
			if body.Caminho != "/api/v1/albuns/7" {
				t.Errorf("caminho = %q", body.Caminho)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("body status = %d", body.Status)
			}
		})
	}
}

func TestRespondValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("POST", "/api/v1/artistas", nil)

	Respond(c, &InvalidInputError{
		Message: "Campos inválidos",
		Campos:  map[string]string{"nome": "required"},
	})
	var body ApiError
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Campos["nome"] != "required" {
		t.Errorf("campos = %v", body.Campos)
	}
}

func TestUploadFailedUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := UploadFailed(cause, "Falha ao enviar imagens para o MinIO")
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	want := "Falha ao enviar imagens para o MinIO: connection reset"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
