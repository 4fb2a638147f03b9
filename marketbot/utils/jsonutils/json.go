package jsonutils

import (
	"encoding/json"
	"fmt"
)

// Stringify renders an arbitrary decoded JSON value as display text.
// Strings come back as-is; everything else is re-marshalled so that
// unrecognized reply shapes survive as opaque text instead of being dropped.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bytes)
}
