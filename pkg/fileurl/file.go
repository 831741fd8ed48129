package fileurl

import (
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IsExist determines if the given path exists
// IsExist 判断所给路径文件/文件夹是否存在
func IsExist(p string) bool {
	_, err := os.Stat(p)
	return err == nil || os.IsExist(err)
}

// IsDir determines if the given path is a directory
// IsDir 判断所给路径是否为文件夹
func IsDir(p string) bool {
	s, err := os.Stat(p)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// CreatePath creates the parent directory of a file path
// CreatePath 创建文件路径所在的目录
func CreatePath(filePath string, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetFileExt gets file extension
// GetFileExt 获取文件后缀
func GetFileExt(name string) string {
	return path.Ext(name)
}

// mime.ExtensionsByType 按字母排序, image/jpeg 会得到 .jfif
var commonExt = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ExtByMime 根据文件名或 mimetype 推断扩展名, 文件名优先
func ExtByMime(filename, mimetype string) string {
	if ext := GetFileExt(filename); ext != "" {
		return strings.ToLower(ext)
	}
	if ext, ok := commonExt[strings.ToLower(mimetype)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimetype); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// ObjectKey 拼接存储前缀与相对路径，前缀为空时原样返回
func ObjectKey(customPath, key string) string {
	customPath = strings.Trim(customPath, "/")
	key = strings.TrimLeft(key, "/")
	if customPath == "" {
		return key
	}
	return customPath + "/" + key
}
