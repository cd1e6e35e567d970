package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithYAMLDir loads every {lang}.yaml (or .yml) file at the root of fsys.
func WithYAMLDir(fsys fs.FS) Option {
	return func(i *I18n) error {
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFile, err)
		}

		for _, e := range entries {
			ext := strings.ToLower(path.Ext(e.Name()))
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}

			data, err := fs.ReadFile(fsys, e.Name())
			if err != nil {
				return fmt.Errorf("i18n: read %q: %w", e.Name(), err)
			}

			var dict map[string]any
			if err := yaml.Unmarshal(data, &dict); err != nil {
				return fmt.Errorf("%w: parse %q: %s", ErrInvalidFile, e.Name(), err)
			}

			if err := i.add(strings.TrimSuffix(e.Name(), path.Ext(e.Name())), dict); err != nil {
				return err
			}
		}
		return nil
	}
}
