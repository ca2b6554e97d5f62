// Package cache defines the Cache capability and its three variants.
//
// Void is the null object: it accepts writes and always misses, so code that
// depends on a Cache never has to check whether caching is enabled. Memory is
// a bounded, process-local LRU with optional per-entry expiry. Redis shares
// entries between processes; each key is a hash holding the value and the time
// it was written.
//
// New selects a variant from Config, which is populated from CACHE_* environment
// variables:
//
//	var cfg cache.Config
//	config.MustLoad(&cfg)
//
//	c, err := cache.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if v, err := c.Get(ctx, key); err == nil {
//	    return v, nil
//	}
//
// Every variant reports a missing, expired or stale key as ErrCacheMiss.
// GetByFile treats a value written before the file's last modification as
// stale, which suits values derived from files such as compiled templates.
package cache
