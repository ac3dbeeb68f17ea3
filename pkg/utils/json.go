package utils

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// snapshot codec: the std-compatible config sorts map keys, so equal
// game states always marshal to equal bytes.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func MarshalJson(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithMessage(err, "marshal json")
	}
	return data, nil
}

func UnmarshalJson[T any](data []byte) (T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return *new(T), errors.WithMessage(err, "unmarshal json")
	}
	return result, nil
}

// Clone deep-copies a value by round-tripping it through the codec.
func Clone[T any](v T) (T, error) {
	data, err := MarshalJson(v)
	if err != nil {
		return *new(T), err
	}
	return UnmarshalJson[T](data)
}
