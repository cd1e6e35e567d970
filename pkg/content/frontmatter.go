package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Meta is the YAML frontmatter of a page.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

var delimiter = []byte("---")

// splitFrontmatter separates the leading --- delimited YAML block from the
// markdown body. Content without frontmatter is all body.
func splitFrontmatter(content []byte) (Meta, []byte, error) {
	var meta Meta
	if !bytes.HasPrefix(content, delimiter) {
		return meta, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return meta, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	if head := rest[:end]; len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return meta, nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	body := rest[end+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}
