package model

import "time"

// Note mapped from table <note>, 表名由 NamingStrategy 生成以支持表前缀
// parent_id 不建外键, 悬空引用按孤儿处理
type Note struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Name      string    `gorm:"column:name;not null" json:"name" form:"name"`
	ParentID  *int64    `gorm:"column:parent_id" json:"parentId" form:"parentId"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content" form:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}
