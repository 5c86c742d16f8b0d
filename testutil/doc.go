// Package testutil provides testing infrastructure for fetchkit.
//
// Server is a recording HTTP test server built on gin. It captures every
// request it receives and replays canned replies per route:
//
//	func TestFetch(t *testing.T) {
//	    srv := testutil.NewServer().
//	        Handle(http.MethodGet, "/items", testutil.JSON(200, `{"ok":true}`))
//	    testutil.T(t).Setup(srv)
//
//	    // ... call srv.URL() + "/items" ...
//	    last := srv.Last()
//	}
//
// Server implements TestComponent, so it can be started, reset between
// cases and snapshotted like any other lifecycle component.
package testutil
