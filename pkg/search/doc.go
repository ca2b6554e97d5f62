// Package search provides a core-scoped client for remote or embedded search
// indexes: lazily established connections, query building with filtering,
// projection, pagination and multi-field sorting, document mapping for
// arbitrary structs, and a typed error channel.
//
// The package does not speak any wire protocol itself. Drivers implement Conn
// and are registered on a Registry under a name; each core's options select a
// driver with the "driver" key. See github.com/dmitrymomot/searchkit/pkg/opensearch
// and github.com/dmitrymomot/searchkit/pkg/blevesearch.
//
// # Architecture
//
// Registry is the connection manager. It reads options for a core from a
// ConfigProvider on first use, dials the driver and caches the Conn for its
// own lifetime. Concurrent first calls for the same core share a single dial.
// A failed dial is not cached, so the next call consults the provider again.
//
// Client is the facade for one core. Limit and Order configure builder state
// consumed by Fetch; Search takes an explicit Request for callers that must
// not share that state. Put maps its arguments with ToDocument, validating the
// whole batch before sending it, then commits. Delete issues one delete per id
// followed by a single commit and does not roll back on partial failure.
//
// # Usage
//
//	reg := search.NewRegistry(cores,
//	    search.WithDriver("opensearch", opensearch.Dial),
//	    search.WithDefaultDriver("opensearch"),
//	    search.WithLogger(log),
//	)
//	defer reg.Close()
//
//	products := reg.Core("products")
//	res, err := products.
//	    Limit(20, 2).
//	    Order("name", "price DESC").
//	    Fetch(ctx, []string{"id", "name"}, "name:lamp", "in_stock:true")
//
//	_, err = products.Put(ctx, Product{ID: "p-1", Name: "lamp", Tags: []string{"home", "light"}})
//
// # Error Handling
//
// Every failure is a *Error whose Kind is one of KindConfiguration,
// KindInvalidDocument, KindTransport or KindUnavailable, and which matches the
// corresponding sentinel with errors.Is. Before being returned each failure is
// handed to the Registry's Sink; the default Sink logs it.
//
//	if errors.Is(err, search.ErrConfiguration) {
//	    // core is missing from the configuration
//	}
package search
