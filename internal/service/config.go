// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Image  ImageServiceConfig  // Image related config // 图片相关配置
	Backup BackupServiceConfig // Backup related config // 备份相关配置
}

// ImageServiceConfig image service configuration
// ImageServiceConfig 图片服务配置
type ImageServiceConfig struct {
	MaxSize      int64  // Max decoded size in bytes, 0 for unlimited // 解码后最大字节数，0 表示不限制
	MirrorPrefix string // Object key prefix for mirrored images // 镜像到对象存储时的键前缀
}

// BackupServiceConfig backup service configuration
// BackupServiceConfig 备份服务配置
type BackupServiceConfig struct {
	Cron   string // Cron expression (5 fields) // 定时表达式（5 段）
	Prefix string // Object key prefix for backups // 备份对象键前缀
}
