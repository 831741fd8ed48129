package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldParentID 父笔记 ID 字段
	FieldParentID = "parentId"

	// FieldImageID 图片 ID 字段
	FieldImageID = "imageId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldPath 路径字段
	FieldPath = "path"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldSize 大小字段
	FieldSize = "size"

	// FieldStorage 存储类型字段
	FieldStorage = "storage"

	// FieldFileKey 文件键字段
	FieldFileKey = "fileKey"
)
