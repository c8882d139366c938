package cvedb

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sanca/internal/model"
)

func testCaches(t *testing.T) map[string]CacheManager {
	t.Helper()

	sqlite, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cves", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]CacheManager{
		"files":  NewFileCache(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestCacheIdempotence(t *testing.T) {
	for name, cache := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := cache.Read(model.OpenSSH, "8.9p1")
			assert.False(t, ok)

			first := []model.CVE{cveWithScore("CVE-2023-38408", 9.8), cveWithScore("CVE-2023-51385", 6.5)}
			cache.Store(first, model.OpenSSH, "8.9p1")

			got, ok := cache.Read(model.OpenSSH, "8.9p1")
			require.True(t, ok)
			assert.Equal(t, first, got)

			// 第二次写入不改变已有数据
			cache.Store([]model.CVE{cveWithScore("CVE-2099-0001", 1.0)}, model.OpenSSH, "8.9p1")
			got, ok = cache.Read(model.OpenSSH, "8.9p1")
			require.True(t, ok)
			assert.Equal(t, first, got)
		})
	}
}

func TestCacheEmptyListIsHit(t *testing.T) {
	for name, cache := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			cache.Store(nil, model.ProFTPD, "1.3.5e")
			got, ok := cache.Read(model.ProFTPD, "1.3.5e")
			require.True(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestCacheCompleteFinding(t *testing.T) {
	for name, cache := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			cves := []model.CVE{cveWithScore("CVE-2022-0001", 5.0), cveWithScore("CVE-2022-0001", 5.0)}
			cache.Store(cves, model.MySQL, "5.7.37")

			noVersion := model.Finding{Technology: model.MySQL}
			assert.False(t, cache.CompleteFinding(&noVersion))

			miss := model.Finding{Technology: model.MySQL, Version: "8.0.0"}
			assert.False(t, cache.CompleteFinding(&miss))

			hit := model.Finding{Technology: model.MySQL, Version: "5.7.37"}
			require.True(t, cache.CompleteFinding(&hit))
			require.Len(t, hit.Vulnerabilities, 1)
			assert.Equal(t, "CVE-2022-0001", hit.Vulnerabilities[0].ID)
		})
	}
}

func TestCacheIgnoresTechnologyWithoutCPE(t *testing.T) {
	for name, cache := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			cache.Store([]model.CVE{cveWithScore("CVE-1", 1)}, model.WPPClassicEditor, "1.6.3")
			_, ok := cache.Read(model.WPPClassicEditor, "1.6.3")
			assert.False(t, ok)
		})
	}
}

func TestFileCacheLayout(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCache(root)
	cache.Store([]model.CVE{cveWithScore("CVE-2021-23017", 7.7)}, model.Nginx, "1.20.0")

	path := filepath.Join(root, "cves", "nginx", "nginx", "1.20.0.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"CVE-2021-23017"`)
	assert.Contains(t, string(data), `"cvssMetricV31"`)
}

func TestFileCacheRejectsUnsafeVersions(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCache(root)

	for _, version := range []string{"../../etc", "1.0/2", `1\2`, ".."} {
		_, ok := cache.Path(model.Nginx, version)
		assert.False(t, ok, version)
		cache.Store([]model.CVE{}, model.Nginx, version)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileCacheMalformedIsMiss(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCache(root)

	path, ok := cache.Path(model.PHP, "8.1.2")
	require.True(t, ok)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, ok = cache.Read(model.PHP, "8.1.2")
	assert.False(t, ok)

	// 已存在的文件不会被覆盖，即使内容损坏
	cache.Store([]model.CVE{}, model.PHP, "8.1.2")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestFileCacheConcurrentStore(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCache(root)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Store([]model.CVE{cveWithScore("CVE-2023-0001", 7.5)}, model.Httpd, "2.4.57")
		}()
	}
	wg.Wait()

	got, ok := cache.Read(model.Httpd, "2.4.57")
	require.True(t, ok)
	require.Len(t, got, 1)

	// 临时文件全部清理，只留下最终的缓存文件
	entries, err := os.ReadDir(filepath.Join(root, "cves", "apache", "http_server"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2.4.57.json", entries[0].Name())
}

func TestFileCacheIgnoresOrphanedTempFiles(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCache(root)

	// 中断的写入只会留下临时文件，不占用缓存键
	dir := filepath.Join(root, "cves", "nginx", "nginx")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cache-123.tmp"), []byte(`[{"id":"CVE-`), 0644))

	_, ok := cache.Read(model.Nginx, "1.20.0")
	assert.False(t, ok)

	cache.Store([]model.CVE{cveWithScore("CVE-2021-23017", 7.7)}, model.Nginx, "1.20.0")
	got, ok := cache.Read(model.Nginx, "1.20.0")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "CVE-2021-23017", got[0].ID)

	info, err := os.Stat(filepath.Join(dir, "1.20.0.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
