package domain

// Image 图片资源，上传后不可修改
// Data 为 base64 编码的内容
type Image struct {
	ID        string
	Filename  string
	Mimetype  string
	Data      string
	CreatedAt int64
}
