package app

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// transKey 与 middleware.TransKey 保持一致
const transKey = "trans"

// ValidError 单个字段的校验错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 校验错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.ErrorsToString(), ",")
}

// ErrorsToString 错误消息列表
func (v ValidErrors) ErrorsToString() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// MapsToString 字段到错误消息的映射
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid 绑定请求参数并校验
// 校验失败时按请求语言翻译错误消息，非校验类错误（如 JSON 格式错误）以 "body" 为键返回
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	trans, hasTrans := c.Value(transKey).(ut.Translator)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}
	if !hasTrans {
		for _, fe := range verrs {
			errs = append(errs, &ValidError{Key: fe.Namespace(), Message: fe.Error()})
		}
		return false, errs
	}

	translated := verrs.Translate(trans)
	keys := make([]string, 0, len(translated))
	for k := range translated {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		errs = append(errs, &ValidError{Key: k, Message: translated[k]})
	}
	return false, errs
}
