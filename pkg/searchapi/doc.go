// Package searchapi serves search cores over a small JSON HTTP API.
//
//	GET  /cores/{core}/select?q=&fq=&fl=id,name&rows=20&page=2&sort=price+desc
//	POST /cores/{core}/update    JSON object or array of objects
//	POST /cores/{core}/delete    {"ids": ["a", "b"]}
//	POST /cores/{core}/optimize
//	GET  /health
//
// Replies use the envelope {"data": ..., "meta": ..., "error": {"code", "message"}}.
// Failures from package search map to status codes by kind: configuration 404,
// invalid_document 400, unavailable 503 and transport 502.
//
// Select results can be cached with WithCache. Each core has a generation
// number that is part of the cache key and is bumped by every write, so stale
// entries are never served and simply expire.
package searchapi
