package code

import (
	"fmt"
	"reflect"
	"strings"
)

// lang holds the English and Chinese text of a message
// lang 用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// FALLBACK_LNG 回退语言
const FALLBACK_LNG = "en"

// lng 当前语言, 默认英文
var lng = FALLBACK_LNG

// GetMessage returns the message in the current language
// GetMessage 根据当前语言返回相应的消息
func (l lang) GetMessage() string {
	return l.In(lng)
}

// In returns the message in the given language, falling back to English
// In 返回指定语言的消息, 不存在时回退到英文
func (l lang) In(language string) string {
	val := reflect.ValueOf(l)
	if field := val.FieldByName(language); field.IsValid() && field.String() != "" {
		return field.String()
	}
	if field := val.FieldByName(FALLBACK_LNG); field.IsValid() && field.String() != "" {
		return field.String()
	}
	return fmt.Sprintf("No message available for language: %s", language)
}

// GetSupportedLanguages returns all languages supported by lang
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// NormalizeLang turns "zh-CN" / "ZH_cn" style tags into a lang field name
// NormalizeLang 将 "zh-CN" 之类的语言标记转换为 lang 字段名
func NormalizeLang(language string) string {
	return strings.ToLower(strings.ReplaceAll(language, "-", "_"))
}

// SetGlobalDefaultLang sets the process wide default language
// SetGlobalDefaultLang 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	language = NormalizeLang(language)
	for _, l := range GetSupportedLanguages() {
		if language == l {
			lng = language
			return nil
		}
	}
	lng = FALLBACK_LNG
	return fmt.Errorf("unsupported language: %s, fallback to %s", language, FALLBACK_LNG)
}
