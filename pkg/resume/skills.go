package resume

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Skills is an ordered set of skill categories. On the wire it is a JSON
// object mapping category name to a list of skills; key order is preserved
// in both directions.
type Skills []SkillCategory

// Get returns the skills of the named category.
func (s Skills) Get(name string) (skills []string, ok bool) {
	for _, c := range s {
		if c.Name == name {
			skills = c.Skills
			ok = true
			return skills, ok
		}
	}
	return skills, ok
}

// Names returns the category names in order.
func (s Skills) Names() (names []string) {
	names = make([]string, 0, len(s))
	for _, c := range s {
		names = append(names, c.Name)
	}
	return names
}

// MarshalJSON writes the categories as an object in order.
func (s Skills) MarshalJSON() (data []byte, err error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, c := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		var key []byte
		key, err = json.Marshal(c.Name)
		if err != nil {
			err = errors.Wrapf(err, "failed to marshal skill category %q", c.Name)
			return data, err
		}

		skills := c.Skills
		if skills == nil {
			skills = []string{}
		}

		var val []byte
		val, err = json.Marshal(skills)
		if err != nil {
			err = errors.Wrapf(err, "failed to marshal skills for %q", c.Name)
			return data, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	data = buf.Bytes()

	return data, err
}

// UnmarshalJSON reads an object of category lists, keeping document order.
func (s *Skills) UnmarshalJSON(data []byte) (err error) {
	if !gjson.ValidBytes(data) {
		err = errors.New("invalid technical_skills JSON")
		return err
	}

	*s = skillsFrom(gjson.ParseBytes(data))

	return err
}
