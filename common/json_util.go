package common

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonUseNumber = jsoniter.Config{
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// MarshalJSON 将v序列化为JSON
func MarshalJSON(v interface{}) ([]byte, error) {
	return jsonStd.Marshal(v)
}

// UnmarshalJSON 将data反序列化到v
func UnmarshalJSON(data []byte, v interface{}) error {
	return jsonStd.Unmarshal(data, v)
}

// UnmarshalUseNumber 使用UseNumber进行解析,避免int64被错误地转为float64
func UnmarshalUseNumber(data []byte, v interface{}) error {
	return jsonUseNumber.Unmarshal(data, v)
}
