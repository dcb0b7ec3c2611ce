package submission

import (
	"github.com/tidwall/gjson"

	"github.com/joestump/studyshelf/internal/validation"
)

// EffectiveTags extracts the tag collection from the raw "tags" JSON value.
// A flat array of strings is used as is. An array of tag arrays yields only
// its LAST inner array; earlier entries are discarded. A missing, null, or
// empty array yields no tags. Any other shape, including a mix of strings
// and arrays, is a validation error.
func EffectiveTags(raw gjson.Result) ([]string, error) {
	if !raw.Exists() || raw.Type == gjson.Null {
		return []string{}, nil
	}
	if !raw.IsArray() {
		return nil, validation.FieldError("tags", "must be an array of tags or an array of tag arrays")
	}

	outer := raw.Array()
	if len(outer) == 0 {
		return []string{}, nil
	}

	var strs, arrays int
	for _, el := range outer {
		switch {
		case el.Type == gjson.String:
			strs++
		case el.IsArray():
			arrays++
		}
	}
	switch {
	case strs == len(outer):
		return stringsOf(outer)
	case arrays == len(outer):
		return stringsOf(outer[len(outer)-1].Array())
	default:
		return nil, validation.FieldError("tags", "must be an array of tags or an array of tag arrays")
	}
}

func stringsOf(values []gjson.Result) ([]string, error) {
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if v.Type != gjson.String {
			return nil, validation.FieldError("tags", "tags must be strings")
		}
		tags = append(tags, v.Str)
	}
	return tags, nil
}
