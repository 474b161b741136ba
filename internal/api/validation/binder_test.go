package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
)

type testParams struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID int64  `json:"userId" validate:"gt=0"`
}

type testQuery struct {
	Token  string `json:"token" validate:"required"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
}

type testBody struct {
	Message   string `json:"message" validate:"required_without=Media"`
	Media     string `json:"media" validate:"omitempty,url"`
	ParseMode string `json:"parseMode" validate:"omitempty,oneof=Markdown MarkdownV2 HTML"`
}

func newRequest(method, target, body string, vars map[string]string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return mux.SetURLVars(r, vars)
}

func fieldErrors(t *testing.T, err error) []apperror.FieldError {
	t.Helper()

	require.Error(t, err)
	appErr := apperror.From(err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)

	fields, ok := appErr.Details.([]apperror.FieldError)
	require.True(t, ok)
	return fields
}

func TestInput_Valid(t *testing.T) {
	binder := NewBinder(New(), "")
	in := binder.Bind(newRequest(http.MethodGet, "/x?token=abc&limit=25&offset=5", "", map[string]string{
		"chatId": "@gophers",
		"userId": "42",
	}))

	params := testParams{ChatID: in.Param("chatId"), UserID: in.ParamInt64("userId")}
	query := testQuery{Token: in.Token(), Limit: in.QueryInt("limit", 10), Offset: in.QueryInt("offset", 0)}
	in.Validate(LocationParams, params)
	in.Validate(LocationQuery, query)

	require.NoError(t, in.Err())
	assert.Equal(t, testParams{ChatID: "@gophers", UserID: 42}, params)
	assert.Equal(t, testQuery{Token: "abc", Limit: 25, Offset: 5}, query)
}

func TestInput_Defaults(t *testing.T) {
	binder := NewBinder(New(), "default-token")
	in := binder.Bind(newRequest(http.MethodGet, "/x", "", nil))

	query := testQuery{Token: in.Token(), Limit: in.QueryInt("limit", 10), Offset: in.QueryInt("offset", 0)}
	in.Validate(LocationQuery, query)

	require.NoError(t, in.Err())
	assert.Equal(t, testQuery{Token: "default-token", Limit: 10, Offset: 0}, query)
}

func TestInput_CollectsEveryViolation(t *testing.T) {
	binder := NewBinder(New(), "")
	in := binder.Bind(newRequest(http.MethodGet, "/x?limit=500&offset=-1", "", map[string]string{
		"userId": "abc",
	}))

	in.Validate(LocationParams, testParams{ChatID: in.Param("chatId"), UserID: in.ParamInt64("userId")})
	in.Validate(LocationQuery, testQuery{Token: in.Token(), Limit: in.QueryInt("limit", 10), Offset: in.QueryInt("offset", 0)})

	assert.ElementsMatch(t, []apperror.FieldError{
		{Path: "params.userId", Message: "must be an integer"},
		{Path: "params.chatId", Message: "is required"},
		{Path: "query.token", Message: "is required"},
		{Path: "query.limit", Message: "must be less than or equal to 100"},
		{Path: "query.offset", Message: "must be greater than or equal to 0"},
	}, fieldErrors(t, in.Err()))
}

func TestInput_NonNumericQuery(t *testing.T) {
	binder := NewBinder(New(), "")
	in := binder.Bind(newRequest(http.MethodGet, "/x?token=t&limit=ten", "", nil))

	limit := in.QueryInt("limit", 10)
	in.Validate(LocationQuery, testQuery{Token: in.Token(), Limit: limit})

	assert.Equal(t, 10, limit)
	assert.Equal(t, []apperror.FieldError{{Path: "query.limit", Message: "must be an integer"}}, fieldErrors(t, in.Err()))
}

func TestInput_Body(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []apperror.FieldError
	}{
		{
			name: "message only",
			body: `{"message":"hi"}`,
		},
		{
			name: "media only",
			body: `{"media":"https://example.com/cat.png"}`,
		},
		{
			name: "neither message nor media",
			body: `{"parseMode":"HTML"}`,
			want: []apperror.FieldError{{Path: "body.message", Message: "is required when media is not provided"}},
		},
		{
			name: "empty body",
			body: "",
			want: []apperror.FieldError{{Path: "body.message", Message: "is required when media is not provided"}},
		},
		{
			name: "bad media and parse mode",
			body: `{"message":"hi","media":"not a url","parseMode":"BBCode"}`,
			want: []apperror.FieldError{
				{Path: "body.media", Message: "must be a valid URL"},
				{Path: "body.parseMode", Message: "must be one of: Markdown, MarkdownV2, HTML"},
			},
		},
		{
			name: "malformed json",
			body: `{"message":`,
			want: []apperror.FieldError{
				{Path: "body", Message: "must be a valid JSON object"},
				{Path: "body.message", Message: "is required when media is not provided"},
			},
		},
		{
			name: "wrong type",
			body: `{"message":42}`,
			want: []apperror.FieldError{{Path: "body.message", Message: "must be of type string"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binder := NewBinder(New(), "")
			in := binder.Bind(newRequest(http.MethodPost, "/x", tt.body, nil))

			var body testBody
			in.Body(&body)
			in.Validate(LocationBody, body)

			if tt.want == nil {
				assert.NoError(t, in.Err())
				return
			}
			assert.Equal(t, tt.want, fieldErrors(t, in.Err()))
		})
	}
}

func TestInput_Body_TooLarge(t *testing.T) {
	r := newRequest(http.MethodPost, "/x", `{"message":"`+strings.Repeat("a", 64)+`"}`, nil)
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 16)

	in := NewBinder(New(), "").Bind(r)
	var body testBody
	in.Body(&body)

	assert.Equal(t, []apperror.FieldError{{Path: "body", Message: "must not exceed 16 bytes"}}, fieldErrors(t, in.Err()))
}
