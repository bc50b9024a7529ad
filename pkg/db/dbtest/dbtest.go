// Package dbtest 为仓储与服务测试提供基于 SQLite 临时文件的 GORM 实例
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

// New 在 t.TempDir 中创建 SQLite 数据库并迁移给定模型，测试结束时自动关闭
func New(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	conn, err := db.Init(db.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	if len(models) > 0 {
		require.NoError(t, conn.AutoMigrate(models...))
	}
	return conn.DB
}
