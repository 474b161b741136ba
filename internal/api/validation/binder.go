package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
)

const (
	msgValidationFailed = "Validation failed"
	msgNotInteger       = "must be an integer"
	msgInvalidBody      = "must be a valid JSON object"
	msgBodyTooLarge     = "must not exceed %d bytes"
)

// Binder собирает входные данные запроса и накапливает ошибки валидации
type Binder struct {
	validator    *Validator
	defaultToken string
}

// NewBinder создает Binder
// defaultToken подставляется, если в запросе нет параметра token
func NewBinder(validator *Validator, defaultToken string) *Binder {
	return &Binder{
		validator:    validator,
		defaultToken: defaultToken,
	}
}

// Bind начинает разбор одного запроса
func (b *Binder) Bind(r *http.Request) *Input {
	return &Input{
		r:      r,
		vars:   mux.Vars(r),
		query:  r.URL.Query(),
		binder: b,
	}
}

// Input входные данные одного запроса
// Все ошибки копятся и возвращаются разом из Err
type Input struct {
	r      *http.Request
	vars   map[string]string
	query  map[string][]string
	binder *Binder
	errs   []apperror.FieldError
}

// Param возвращает path параметр
func (in *Input) Param(name string) string {
	return strings.TrimSpace(in.vars[name])
}

// ParamInt64 разбирает числовой path параметр
func (in *Input) ParamInt64(name string) int64 {
	raw := in.Param(name)
	if raw == "" {
		return 0
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		in.addError(LocationParams+"."+name, msgNotInteger)
		return 0
	}
	return v
}

// Query возвращает query параметр
func (in *Input) Query(name string) string {
	values := in.query[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// QueryInt разбирает числовой query параметр, def используется при его отсутствии
func (in *Input) QueryInt(name string, def int) int {
	raw := in.Query(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		in.addError(LocationQuery+"."+name, msgNotInteger)
		return def
	}
	return v
}

// Token возвращает токен бота из query или токен по умолчанию
func (in *Input) Token() string {
	if token := in.Query("token"); token != "" {
		return token
	}
	return in.binder.defaultToken
}

// Body декодирует JSON тело в dst; пустое тело допустимо
func (in *Input) Body(dst any) {
	err := handlers.DecodeJSON(in.r, dst)
	if err == nil {
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		in.addError(LocationBody, fmt.Sprintf(msgBodyTooLarge, tooLarge.Limit))
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		in.addError(LocationBody+"."+typeErr.Field, "must be of type "+typeErr.Type.String())
		return
	}

	in.addError(LocationBody, msgInvalidBody)
}

// Validate проверяет структуру по тегам validate
// Для поля, которое уже не удалось разобрать, остаётся только ошибка разбора
func (in *Input) Validate(location string, s any) {
	for _, fe := range in.binder.validator.Struct(location, s) {
		if !in.hasError(fe.Path) {
			in.errs = append(in.errs, fe)
		}
	}
}

// Err возвращает ValidationError со всеми нарушениями или nil
func (in *Input) Err() error {
	if len(in.errs) == 0 {
		return nil
	}
	return apperror.Validation(msgValidationFailed, in.errs)
}

func (in *Input) addError(path, message string) {
	in.errs = append(in.errs, apperror.FieldError{Path: path, Message: message})
}

func (in *Input) hasError(path string) bool {
	for _, fe := range in.errs {
		if fe.Path == path {
			return true
		}
	}
	return false
}
