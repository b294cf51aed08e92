package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CalculateMD5 计算字节切片的MD5，用于上传与解析文本的去重
func CalculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// StringPtr 返回字符串的指针
func StringPtr(s string) *string {
	return &s
}

// TimePtr 返回时间的指针，零值时间返回nil以便数据库存NULL
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// IntPtr 返回整数的指针
func IntPtr(i int) *int {
	return &i
}

// StructToJSON 将任意可序列化结构转换为JSON列值
// 序列化失败时返回空对象，调用方不需要处理错误
func StructToJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("{}")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// ConvertArrayToJSON 将字符串数组转换为JSON列值
func ConvertArrayToJSON(arr []string) datatypes.JSON {
	if len(arr) == 0 {
		return datatypes.JSON("[]")
	}
	b, err := json.Marshal(arr)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
