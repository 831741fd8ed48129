package app

import (
	"net/http"
	"strings"

	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// LangKey gin.Context 中存储请求语言的键
const LangKey = "lang"

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// Res is the envelope used by admin and status endpoints: Code/Status/Msg/Data
// Res 是管理与状态接口使用的统一响应结构：Code/Status/Msg/Data
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorBody is written for every non-2xx response; "error" is the human readable message
// ErrorBody 所有非 2xx 响应的结构，"error" 为可读的错误消息
type ErrorBody struct {
	Error   string   `json:"error"`
	Code    int      `json:"code"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// GetLang returns the language negotiated for the request
// GetLang 获取当前请求协商的语言
func GetLang(c *gin.Context) string {
	if l := c.GetString(LangKey); l != "" {
		return l
	}
	return code.FALLBACK_LNG
}

// ToJSON writes a bare entity with 200, the shape the note API clients consume
// ToJSON 以 200 输出实体本身, 笔记 API 客户端直接消费该结构
func (r *Response) ToJSON(data interface{}) {
	r.Ctx.Set("status_code", http.StatusOK)
	r.send(http.StatusOK, data)
}

// ToResponse output to browser: unified use of Res
// ToResponse 输出到浏览器：统一使用 Res
func (r *Response) ToResponse(codeObj *code.Code) {
	if !codeObj.Status() {
		r.ToErrorResponse(codeObj, "")
		return
	}

	r.Ctx.Set("status_code", codeObj.StatusCode())
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.In(GetLang(r.Ctx)),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	r.send(codeObj.StatusCode(), content)
}

// ToErrorResponse writes ErrorBody with the status mapped from the code
// ToErrorResponse 以错误码映射的状态码输出 ErrorBody
func (r *Response) ToErrorResponse(codeObj *code.Code, traceID string) {
	r.Ctx.Set("status_code", codeObj.StatusCode())
	r.send(codeObj.StatusCode(), ErrorBody{
		Error:   codeObj.Lang.In(GetLang(r.Ctx)),
		Code:    codeObj.Code(),
		Details: codeObj.Details(),
		TraceID: traceID,
	})
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
