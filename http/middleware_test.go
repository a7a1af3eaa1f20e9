package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderMiddleware struct {
	name  string
	calls *[]string
}

func (p *orderMiddleware) Handle(next MiddlewareFunc) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*p.calls = append(*p.calls, p.name)
		next(w, r)
	}
}

func TestMiddlewareChain(t *testing.T) {
	var calls []string

	conf := NewConfig("127.0.0.1:0")
	assert.NoError(t, conf.RegMiddleware(&orderMiddleware{"m1", &calls}))
	assert.NoError(t, conf.RegMiddleware(&orderMiddleware{"m2", &calls}))

	svc := &Service{Conf: conf}
	handler := svc.handleWithMiddleware(&handlerWithMiddleware{
		handlerFunc: func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "handler")
			RenderText(w, "ok")
		},
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"m1", "m2", "handler"}, calls)
	assert.Equal(t, "ok", w.Body.String())
}

type rejectMiddleware struct {
	err error
}

func (p *rejectMiddleware) Handle(next MiddlewareFunc) MiddlewareFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RenderError(w, http.StatusForbidden, p.err.Error())
		next(w, RequestWithError(r, p.err))
	}
}

func TestMiddlewareStopOnError(t *testing.T) {
	var handled bool

	conf := NewConfig("127.0.0.1:0")
	assert.NoError(t, conf.RegMiddleware(&rejectMiddleware{err: errors.New("rejected")}))

	svc := &Service{Conf: conf}
	handler := svc.handleWithMiddleware(&handlerWithMiddleware{
		handlerFunc: func(w http.ResponseWriter, r *http.Request) {
			handled = true
		},
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/", nil))

	assert.False(t, handled)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	RenderError(w, http.StatusConflict, "Counter already exists")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":409,"error":"Counter already exists"}`, w.Body.String())
}
