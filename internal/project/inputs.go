package project

import (
	"fmt"

	"udonc/internal/catalog"
	"udonc/internal/refs"
)

// CacheApp names the directory of the on-disk catalog cache.
const CacheApp = "udonc"

// Assemblies returns the reference assemblies the config asks for: the
// builtin set when [references].builtin is on, then every manifest listed in
// [references].paths. The compile-time filter (refs.Usable) is applied by
// the frontend, not here.
func (c Config) Assemblies() ([]refs.Assembly, error) {
	var out []refs.Assembly
	if c.References.Builtin {
		out = append(out, refs.Builtin()...)
	}
	paths := make([]string, 0, len(c.References.Paths))
	for _, p := range c.References.Paths {
		paths = append(paths, c.Resolve(p))
	}
	extra, err := refs.LoadAll(paths)
	if err != nil {
		return nil, fmt.Errorf("references: %w", err)
	}
	return append(out, extra...), nil
}

// Enumerator returns the definition source for [catalog]: the definitions
// file when a path is set, the builtin set otherwise. With cache on, the
// source is wrapped in a disk cache under cacheDir ("" = user cache dir).
func (c Config) Enumerator(cacheDir string) (catalog.Enumerator, error) {
	var src catalog.Keyed
	if c.Catalog.Path != "" {
		src = catalog.FileEnumerator{Path: c.Resolve(c.Catalog.Path)}
	} else {
		src = catalog.Builtin(c.Compiler.PrimitiveNamespace)
	}
	if !c.Catalog.Cache {
		return src, nil
	}
	var (
		cache *catalog.DiskCache
		err   error
	)
	if cacheDir == "" {
		cache, err = catalog.OpenDiskCache(CacheApp)
	} else {
		cache, err = catalog.NewDiskCache(cacheDir)
	}
	if err != nil {
		// без кэша тоже работаем
		return src, nil
	}
	return &catalog.Cached{Inner: src, Cache: cache}, nil
}

// BuildCatalog builds the lazily populated node catalog for the config.
func (c Config) BuildCatalog(cacheDir string) (*catalog.Catalog, error) {
	enum, err := c.Enumerator(cacheDir)
	if err != nil {
		return nil, err
	}
	return catalog.New(enum, c.Collision()), nil
}
