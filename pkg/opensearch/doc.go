// Package opensearch is the OpenSearch driver for package search. It builds
// clients with github.com/opensearch-project/opensearch-go/v2, checks cluster
// health on connect and maps search.Conn operations onto the REST API:
//
//   - Query     -> _search with query_string / match_all, _source, from/size, sort
//   - Add       -> _bulk index actions, "id" fields become _id
//   - DeleteByID -> DELETE /{index}/_doc/{id}, 404 tolerated
//   - Commit    -> _refresh
//   - Optimize  -> _forcemerge
//
// Register it on a search.Registry:
//
//	reg := search.NewRegistry(cores, search.WithDriver("opensearch", opensearch.Dial))
//
// Core options: addresses (comma separated), username, password, index
// (defaults to the core name), max_retries, disable_retry.
//
// Connectivity failures wrap ErrConnectionFailed or ErrHealthcheckFailed;
// error responses from the cluster wrap ErrRequestFailed.
package opensearch
