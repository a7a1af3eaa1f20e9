package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockController struct {
	BaseController
}

func (p *MockController) Index(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		w.Write([]byte("Error:" + err.Error()))
		return
	}
	ret := fmt.Sprintf("method:%s, param id:%s, path id:%s", r.Method, r.FormValue("id"), r.PathValue("id"))
	w.Write([]byte(ret))
}

func TestHttpServer(t *testing.T) {
	controller := &MockController{
		BaseController: BaseController{
			Name: "Mock",
			Path: "/",
			PatternMethods: map[string]string{
				"/":           "Index",
				"/index/{id}": "Index",
			},
		},
	}

	httpConfig := NewConfig("127.0.0.1:18888")
	err := httpConfig.RegController(controller)
	assert.NoError(t, err)

	httpSvc := &Service{
		Conf: httpConfig,
	}
	err = httpSvc.Init()
	assert.NoError(t, err)

	ok := httpSvc.Start()
	assert.True(t, ok)
	defer httpSvc.Stop()

	client := &http.Client{}
	ret, err := GetURL(client, "http://127.0.0.1:18888", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "method:GET, param id:, path id:", ret)

	ret, err = GetURL(client, "http://127.0.0.1:18888/index/id1?id=id2", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "method:GET, param id:id2, path id:id1", ret)
}

func TestStopWithoutInit(t *testing.T) {
	//Init失败时Services会对未初始化的服务调用Stop
	httpSvc := &Service{Conf: NewConfig("127.0.0.1:0")}
	assert.True(t, httpSvc.Stop())

	//Stop后可以重复调用
	assert.True(t, httpSvc.Stop())
}

func TestRegControllerErrors(t *testing.T) {
	httpConfig := NewConfig("127.0.0.1:0")
	err := httpConfig.RegController(nil)
	assert.Error(t, err)

	missing := &MockController{
		BaseController: BaseController{
			Name:           "Mock",
			Path:           "/",
			PatternMethods: map[string]string{"/": "NoSuchMethod"},
		},
	}
	err = httpConfig.RegController(missing)
	assert.Error(t, err)

	dup := &MockController{
		BaseController: BaseController{
			Name:           "Mock",
			Path:           "/",
			PatternMethods: map[string]string{"/": "Index"},
		},
	}
	err = httpConfig.RegController(dup)
	assert.NoError(t, err)
	err = httpConfig.RegController(dup)
	assert.Error(t, err)
}
