package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名执行迁移，空 key 迁移全部
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Note":
		return db.AutoMigrate(&Note{})
	case "Image":
		return db.AutoMigrate(&Image{})
	case "":
		return db.AutoMigrate(&Note{}, &Image{})
	}
	return nil
}
