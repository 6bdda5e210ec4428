// Package hitsource provides an embedded Go client for hitsource, a fetch
// phase for search hits backed by Valkey or Redis.
//
// Indices store document sources in one content type (JSON, YAML, CBOR or
// MessagePack). Fetching a page of hits returns each hit's _source: the
// stored bytes verbatim, or a projection narrowed by include/exclude field
// patterns and, for nested hits, to the matched inner object.
//
// # Low-level API
//
//	client, _ := hitsource.New(ctx, hitsource.WithValkey("localhost:6379", ""))
//	client.Indices().Ensure(ctx, "blog")
//	client.Documents("blog").Put(ctx, "1", []byte(`{"title":"t","comments":[{"text":"hi"}]}`))
//	hits, _ := client.Fetch("blog").Hits(ctx, []hitsource.HitRef{
//	    {ID: "1", Score: 1.2},
//	    {ID: "1", Score: 0.8, Nested: []hitsource.NestedLevel{{Field: "comments", Offset: 0}}},
//	}, hitsource.Includes("title", "comments.text"))
//
// # Typed API
//
//	type Post struct {
//	    Title string `json:"title"`
//	}
//
//	posts := hitsource.NewTypedIndex[Post](client, "blog")
//	_ = posts.Put(ctx, "1", Post{Title: "t"})
//	res, _ := posts.Fetch(ctx, []hitsource.HitRef{{ID: "1"}})
package hitsource
