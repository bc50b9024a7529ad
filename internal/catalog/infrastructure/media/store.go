package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store 基于 afero 的媒体文件存储，路径均相对于 root
type Store struct {
	fs        afero.Fs
	root      string
	urlPrefix string
}

// NewStore 创建存储；生产环境传入 afero.NewOsFs()，测试使用 MemMapFs
func NewStore(fs afero.Fs, root, urlPrefix string) *Store {
	if urlPrefix == "" {
		urlPrefix = "/media/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Store{fs: fs, root: root, urlPrefix: urlPrefix}
}

// Save 写入 dir/name，同名文件已存在时追加短随机后缀，返回相对路径
func (s *Store) Save(ctx context.Context, dir, name string, data []byte) (string, error) {
	name = sanitize(name)
	rel := path.Join(dir, name)

	exists, err := afero.Exists(s.fs, s.abs(rel))
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", rel, err)
	}
	if exists {
		ext := path.Ext(name)
		rel = path.Join(dir, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), uuid.NewString()[:7], ext))
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.abs(rel)), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if err := afero.WriteFile(s.fs, s.abs(rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// Remove 删除文件，文件不存在不视为错误
func (s *Store) Remove(ctx context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	if err := s.fs.Remove(s.abs(rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL 返回对外访问地址
func (s *Store) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.urlPrefix + rel
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || strings.Trim(name, "._") == "" {
		return "upload"
	}
	return name
}
