package dto

// ImageUploadRequest 上传图片，data 为 base64 编码
type ImageUploadRequest struct {
	Filename string `json:"filename" form:"filename" binding:"required,notblank"`
	Mimetype string `json:"mimetype" form:"mimetype" binding:"required,notblank"`
	Data     string `json:"data" form:"data" binding:"required"`
}

// ImageDTO 上传结果，不含数据
type ImageDTO struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
}

// ImageDataDTO 完整图片记录
type ImageDataDTO struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Mimetype  string `json:"mimetype"`
	Data      string `json:"data"`
	CreatedAt int64  `json:"createdAt"`
}
