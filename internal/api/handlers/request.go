package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

const maxBodySize = 1 << 20

var (
	// ErrEmptyBody возвращается, если тело запроса пустое
	ErrEmptyBody = errors.New("handlers: empty request body")

	// ErrInvalidParam возвращается при некорректном path или query параметре
	ErrInvalidParam = errors.New("handlers: invalid parameter")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем имена полей из json тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON читает JSON тело запроса в dst; лишние данные после объекта запрещены
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("handlers: unexpected data after JSON object")
	}
	return nil
}

// Validate проверяет теги validate у DTO и возвращает *domain.FieldError для первого нарушения
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	return domain.NewFieldError(ErrInvalidParam, first.Field(), describe(first))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	}
	return "is invalid"
}

// PathID читает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// QueryInt64 читает необязательный положительный int64 из query
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, domain.NewFieldError(ErrInvalidParam, name, "must be a positive integer")
	}
	return &v, nil
}

// QueryBool читает необязательный флаг из query; пустое значение - false
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewFieldError(ErrInvalidParam, name, "must be true or false")
	}
	return v, nil
}

// QueryDate читает необязательную дату YYYY-MM-DD из query
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, domain.NewFieldError(ErrInvalidParam, name, "must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// ParseDate разбирает дату YYYY-MM-DD в UTC полночь
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// QueryPage читает page и limit; нормализация выполняется сервисами
func QueryPage(r *http.Request) (domain.Page, error) {
	var page domain.Page
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, domain.NewFieldError(ErrInvalidParam, "page", "must be a positive integer")
		}
		page.Number = n
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, domain.NewFieldError(ErrInvalidParam, "limit", "must be a positive integer")
		}
		page.Limit = n
	}
	return page, nil
}

// MissingParam ошибка отсутствующего обязательного query параметра
func MissingParam(name string) error {
	return domain.NewFieldError(ErrInvalidParam, name, "is required")
}
