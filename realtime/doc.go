// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime pushes session change notifications to connected clients.

A Hub is created once in main and shared by the action handlers (which
publish) and the websocket endpoint (which subscribes):

	hub := realtime.NewHub(realtime.DefaultBuffer)
	mux.Handle("GET /realtime", realtime.NewHandler(hub, st))

Events carry the session id, action name, actor and new version. Clients
refetch the snapshot when they see a newer version. Delivery is best effort;
a slow client drops events instead of stalling the publisher.
*/
package realtime
