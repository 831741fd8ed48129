package dto

// BackupResultDTO 一次备份导出的结果
type BackupResultDTO struct {
	Prefix    string   `json:"prefix"`
	Notes     int      `json:"notes"`
	Files     []string `json:"files"`
	StartedAt int64    `json:"startedAt"`
	Duration  string   `json:"duration"`
}

// BackupManifestEntry manifest.json 中的单条记录
type BackupManifestEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId"`
	Path     string `json:"path"`
	File     string `json:"file"`
}

// HealthDTO 健康检查结果
type HealthDTO struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
