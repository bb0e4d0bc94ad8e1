package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// List is an array-valued column (technology tags, gallery URLs) stored as JSON text.
type List []string

// GormDataType keeps the column portable between sqlite and postgres.
func (List) GormDataType() string { return "text" }

func (l List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *List) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("content: cannot scan %T into List", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("content: decode list: %w", err)
	}
	*l = out
	return nil
}

// Join flattens the list into the comma-separated form used by edit forms.
func (l List) Join() string {
	return strings.Join(l, ", ")
}

// SplitList parses a comma-separated edit value, trimming entries and dropping blanks.
func SplitList(s string) List {
	var out List
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
