package store

import (
	"net/url"
	"strconv"
	"taskPlanner/internal/models/task"
)

// EncodeFilter builds the list query string; filters left unset are omitted.
func EncodeFilter(f *task.Filter) string {
	if f == nil {
		return ""
	}
	values := url.Values{}
	if f.Completed != nil {
		values.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Priority != task.PriorityUnset {
		values.Set("priority", string(f.Priority))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	return values.Encode()
}
