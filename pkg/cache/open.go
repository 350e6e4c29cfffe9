package cache

import (
	"fmt"
	"net/url"
	"strings"
)

// Open returns the backend named by rawURL:
//
//	""                  file cache in defaultDir
//	"none", "off"       null cache
//	"file:///path"      file cache in /path
//	"redis://host:6379" Redis cache (also rediss://)
func Open(rawURL, defaultDir string) (Cache, error) {
	switch strings.ToLower(rawURL) {
	case "":
		return openFile(defaultDir)
	case "none", "off", "null":
		return NewNullCache(), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	switch u.Scheme {
	case "redis", "rediss":
		c, err := NewRedisCache(rawURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("cache url %q has no path", rawURL)
		}
		return openFile(u.Path)
	}
	return nil, fmt.Errorf("unsupported cache url scheme %q (want file, redis or rediss)", u.Scheme)
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
