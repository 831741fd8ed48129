package model

// Image mapped from table <image>, 表名由 NamingStrategy 生成以支持表前缀
type Image struct {
	ID        string `gorm:"column:id;primaryKey;size:36" json:"id" form:"id"`
	Filename  string `gorm:"column:filename;not null" json:"filename" form:"filename"`
	Mimetype  string `gorm:"column:mimetype;not null" json:"mimetype" form:"mimetype"`
	Data      string `gorm:"column:data;type:text;not null" json:"data" form:"data"`
	CreatedAt int64  `gorm:"column:created_at;not null" json:"createdAt" form:"createdAt"`
}
