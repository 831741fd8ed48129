package middleware

import (
	"slices"
	"strings"

	"github.com/haierkeys/note-tree-service/pkg/app"
	"github.com/haierkeys/note-tree-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// TransKey gin.Context 中存储校验翻译器的键
const TransKey = "trans"

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言来自 ?lang= 或 lang / Accept-Language 请求头，只影响当前请求
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 && s != "*" {
			lang = s
			if i := strings.IndexAny(s, ",;"); i > 0 {
				lang = s[:i]
			}
		}

		lang = code.NormalizeLang(lang)

		// 翻译器按 zh_cn -> zh -> en 的顺序查找
		trans, found := uni.GetTranslator(lang)
		if !found {
			if base, _, ok := strings.Cut(lang, "_"); ok {
				trans, found = uni.GetTranslator(base)
			}
		}
		if !found {
			trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
		}
		c.Set(TransKey, trans)

		if lang == "zh" {
			lang = "zh_cn"
		}
		if !slices.Contains(code.GetSupportedLanguages(), lang) {
			lang = code.FALLBACK_LNG
		}
		c.Set(app.LangKey, lang)

		c.Next()
	}
}
