package utils

import "github.com/goccy/go-json"

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// StructToString encodes s as JSON for string-valued stores.
func StructToString(s interface{}) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}
