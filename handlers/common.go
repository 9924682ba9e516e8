package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"artists/httperr"
)

// Page is the shape every listing endpoint returns.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// PageRequest carries validated pagination input. Order is a safe SQL
// fragment built from the whitelist, never from raw request input.
type PageRequest struct {
	Page  int
	Size  int
	Order string
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParsePageRequest reads page/size/sort query parameters. sortable maps the
// exposed field names to database columns; anything outside it is rejected.
func ParsePageRequest(c *gin.Context, sortable map[string]string, defaultOrder string) (PageRequest, error) {
	req := PageRequest{Page: 0, Size: 10, Order: defaultOrder}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return req, httperr.InvalidInput("Parâmetro page inválido: %s", v)
		}
		req.Page = page
	}
	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > 100 {
			return req, httperr.InvalidInput("Parâmetro size inválido: %s", v)
		}
		req.Size = size
	}
	if v := c.Query("sort"); v != "" {
		field, direction := v, "asc"
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			field, direction = v[:idx], strings.ToLower(v[idx+1:])
		}
		column, ok := sortable[field]
		if !ok {
			return req, httperr.InvalidInput("Campo de ordenação inválido: %s", field)
		}
		if direction != "asc" && direction != "desc" {
			return req, httperr.InvalidInput("Direção de ordenação inválida: %s", direction)
		}
		req.Order = column + " " + direction
	}
	return req, nil
}

// bindJSON wraps gin binding so validation failures come back as the
// structured field→message map.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		campos := map[string]string{}
		for _, fe := range verrs {
			campos[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return &httperr.InvalidInputError{Message: "Campos inválidos", Campos: campos}
	}
	return httperr.InvalidInput("%s", err.Error())
}

func paramID(c *gin.Context, name string) (uint64, error) {
	v := c.Param(name)
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.InvalidInput("Identificador inválido: %s", v)
	}
	return id, nil
}
