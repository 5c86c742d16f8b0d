// Package search encodes query-string parameters and appends them to URLs.
//
// Several input shapes are supported, all satisfying Input:
//
//   - Map: insertion-ordered keys, slice values expand to repeated pairs
//   - Raw: a pre-encoded query string appended verbatim
//   - Pairs: an ordered sequence of key/value pairs
//   - Values: a canonical url.Values set, serialized by url.Values.Encode
//
// # Usage
//
//	q := search.NewMap().
//	    Set("page", 2).
//	    Set("tag", []string{"go", "http"})
//
//	u := search.Append("https://api.example.com/items?sort=asc", q)
//	// https://api.example.com/items?sort=asc&page=2&tag=go&tag=http
package search
