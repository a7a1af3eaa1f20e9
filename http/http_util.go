package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	c "github.com/d0ngw/counters/common"
)

// ErrorResp JSON错误响应体
type ErrorResp struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// RenderJSON 渲染JSON,状态码200
func RenderJSON(w http.ResponseWriter, jsonData interface{}) {
	RenderStatusJSON(w, http.StatusOK, jsonData)
}

// RenderStatusJSON 以status状态码渲染JSON
func RenderStatusJSON(w http.ResponseWriter, status int, jsonData interface{}) {
	bytes, err := c.MarshalJSON(jsonData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(bytes); err != nil {
		c.Errorf("write response fail,err:%v", err)
	}
}

// RenderError 渲染`{code,error}`形式的错误响应
func RenderError(w http.ResponseWriter, status int, msg string) {
	RenderStatusJSON(w, status, &ErrorResp{Code: status, Error: msg})
}

// RenderText 渲染Text
func RenderText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// GetURL 请求URL
func GetURL(client *http.Client, url string, params url.Values) (string, error) {
	var req *http.Request
	var err error
	if params != nil {
		req, err = http.NewRequest("GET", url+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequest("GET", url, nil)
	}
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("Status:%d,msg:%s", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
