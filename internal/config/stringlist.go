package config

import (
	"strings"

	"github.com/alnah/go-repo2pdf/internal/yamlutil"
)

// StringList accepts either a single YAML string or a sequence of strings.
type StringList []string

// UnmarshalYAML decodes a scalar or a sequence. Blank entries are dropped.
func (l *StringList) UnmarshalYAML(data []byte) error {
	var many []string
	if err := yamlutil.Unmarshal(data, &many); err == nil {
		*l = compact(many)
		return nil
	}
	var one string
	if err := yamlutil.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = compact([]string{one})
	return nil
}

func compact(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
