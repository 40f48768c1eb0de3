package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LooseString строка, принимающая из JSON также числа и булевы значения.
// Голосовая платформа присылает параметры без строгой типизации ("id": 3 или "id": "3").
type LooseString string

// UnmarshalJSON реализует json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*s = LooseString(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*s = LooseString(strconv.FormatBool(v))
	default:
		// Объекты и массивы не являются скалярным параметром
		*s = ""
	}
	return nil
}

// String возвращает значение без пробелов по краям
func (s LooseString) String() string {
	return strings.TrimSpace(string(s))
}

// IsEmpty true, если значение отсутствует или состоит из пробелов
func (s LooseString) IsEmpty() bool {
	return s.String() == ""
}

// LooseBool булево значение, принимающее "true"/"yes"/"1" и числа
type LooseBool bool

// UnmarshalJSON реализует json.Unmarshaler
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = LooseBool(v)
	case float64:
		*b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			*b = true
		default:
			*b = false
		}
	default:
		*b = false
	}
	return nil
}

// Bool возвращает значение как bool
func (b LooseBool) Bool() bool {
	return bool(b)
}
