package util

// gin.Context 中保存 JWT Claims 的键
const ContextUserKey = "user"
