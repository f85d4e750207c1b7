package document

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// ErrUnterminatedFrontMatter is returned when an opening fence has no
// closing fence.
var ErrUnterminatedFrontMatter = errors.New("front matter is not terminated")

// SplitFrontMatter separates a leading YAML block fenced by "---" lines from
// the body. Content without an opening fence is returned unchanged with nil
// metadata.
func SplitFrontMatter(content []byte) (Metadata, []byte, error) {
	rest, ok := cutFenceLine(content)
	if !ok {
		return nil, content, nil
	}

	var block []byte
	for len(rest) > 0 {
		line, next, _ := bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			body := next
			raw := make(map[string]any)
			if err := yaml.Unmarshal(block, &raw); err != nil {
				return nil, content, fmt.Errorf("failed to parse front matter: %w", err)
			}
			meta, err := FromMap(raw)
			if err != nil {
				return nil, content, err
			}
			return meta, body, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = next
	}

	return nil, content, ErrUnterminatedFrontMatter
}

func cutFenceLine(content []byte) ([]byte, bool) {
	line, rest, found := bytes.Cut(content, []byte("\n"))
	if !found {
		return nil, false
	}
	if !bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
		return nil, false
	}
	return rest, true
}
