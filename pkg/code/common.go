package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	// 通用错误
	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI     = NewError(404, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams   = NewError(400, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorNotAuthToken    = NewError(401, http.StatusUnauthorized, lang{en: "Missing or invalid auth token", zh_cn: "缺少或无效的授权令牌"})
	ErrorTimeout         = NewError(504, http.StatusGatewayTimeout, lang{en: "Request timeout", zh_cn: "请求超时"})

	// 存储错误
	ErrorDBQuery     = NewError(1001, http.StatusInternalServerError, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorDBWrite     = NewError(1002, http.StatusInternalServerError, lang{en: "Database write failed", zh_cn: "数据库写入失败"})
	ErrorWriteQueue  = NewError(1003, http.StatusServiceUnavailable, lang{en: "Write queue is busy", zh_cn: "写入队列繁忙"})
	ErrorStorageSave = NewError(1004, http.StatusInternalServerError, lang{en: "Storage save failed", zh_cn: "存储保存失败"})

	// 笔记错误
	ErrorNoteNotFound        = NewError(2001, http.StatusNotFound, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorInvalidNoteID       = NewError(2002, http.StatusBadRequest, lang{en: "Invalid note ID", zh_cn: "无效的笔记 ID"})
	ErrorNoteCycle           = NewError(2003, http.StatusConflict, lang{en: "Cannot move a note to be its own descendant", zh_cn: "不能将笔记移动到它自己的子孙节点下"})
	ErrorNoteNameRequired    = NewError(2004, http.StatusBadRequest, lang{en: "Note name is required", zh_cn: "笔记名称不能为空"})
	ErrorSearchQueryRequired = NewError(2005, http.StatusBadRequest, lang{en: "Search query is required", zh_cn: "搜索关键字不能为空"})
	ErrorNotePathNotFound    = NewError(2006, http.StatusNotFound, lang{en: "Note path not found", zh_cn: "笔记路径不存在"})

	// 图片错误
	ErrorImageNotFound    = NewError(3001, http.StatusNotFound, lang{en: "Image not found", zh_cn: "图片不存在"})
	ErrorImageDataInvalid = NewError(3002, http.StatusBadRequest, lang{en: "Image data is not valid base64", zh_cn: "图片数据不是有效的 base64"})
	ErrorImageTooLarge    = NewError(3003, http.StatusRequestEntityTooLarge, lang{en: "Image is too large", zh_cn: "图片过大"})

	// 备份错误
	ErrorBackupDisabled = NewError(4001, http.StatusServiceUnavailable, lang{en: "Backup storage is not configured", zh_cn: "未配置备份存储"})
	ErrorBackupRunning  = NewError(4002, http.StatusConflict, lang{en: "A backup is already running", zh_cn: "备份正在进行中"})
	ErrorBackupFailed   = NewError(4003, http.StatusInternalServerError, lang{en: "Backup failed", zh_cn: "备份失败"})
)
