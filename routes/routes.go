package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mapmeet/auth"
	"mapmeet/comments"
	"mapmeet/events"
	"mapmeet/feed"
	"mapmeet/friends"
	"mapmeet/live"
	"mapmeet/middleware"
	"mapmeet/ratelim"
	"mapmeet/rsvp"
	"mapmeet/settings"
	"mapmeet/share"
	"mapmeet/workspace"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/token/refresh", rl.Limit(h.Refresh))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
}

func AddEventRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *events.Handler) {
	router.GET("/api/events/events", rl.Limit(h.GetEvents))
	router.GET("/api/events/event/:eventid", h.GetEvent)
	router.GET("/api/events/event/:eventid/flyer", rl.Limit(h.PrintFlyer))
	router.GET("/api/events/locations", rl.Limit(h.SuggestLocations))
	router.POST("/api/events/event", middleware.Authenticate(h.CreateEvent))
	router.PUT("/api/events/event/:eventid", middleware.Authenticate(h.EditEvent))
	router.DELETE("/api/events/event/:eventid", middleware.Authenticate(h.DeleteEvent))
}

func AddFeedRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *feed.Handler) {
	router.GET("/api/feed/events", rl.Limit(h.GetFeed))
}

func AddCommentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *comments.Handler) {
	router.GET("/api/comments/event/:eventid", rl.Limit(h.GetThreads))
	router.POST("/api/comments/event/:eventid", middleware.Authenticate(h.CreateComment))
	router.PUT("/api/comments/comment/:commentid", middleware.Authenticate(h.UpdateComment))
	router.DELETE("/api/comments/comment/:commentid", middleware.Authenticate(h.DeleteComment))
}

func AddRSVPRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *rsvp.Handler) {
	router.POST("/api/rsvp/event/:eventid", rl.Limit(middleware.Authenticate(h.Toggle)))
	router.GET("/api/rsvp/mine", middleware.Authenticate(h.ListMine))
}

func AddFriendRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *friends.Handler) {
	router.GET("/api/friends", middleware.Authenticate(h.List))
	router.POST("/api/friends/request", rl.Limit(middleware.Authenticate(h.Request)))
	router.POST("/api/friends/accept/:friendshipid", middleware.Authenticate(h.Accept))
	router.DELETE("/api/friends/:friendshipid", middleware.Authenticate(h.Remove))
	router.GET("/api/friends/going/:eventid", middleware.Authenticate(h.FriendsGoing))
}

func AddSettingsRoutes(router *httprouter.Router, h *settings.Handler) {
	router.GET("/api/settings", middleware.Authenticate(h.GetSettings))
	router.PUT("/api/settings/preferences", middleware.Authenticate(h.UpdatePreferences))
	router.PUT("/api/settings/notifications", middleware.Authenticate(h.UpdateNotifications))
}

func AddShareRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *share.Handler) {
	router.GET("/api/share/resolve", rl.Limit(h.Resolve))
	router.GET("/api/share/event/:eventid/qr", rl.Limit(h.QR))
}

func AddWorkspaceRoutes(router *httprouter.Router, h *workspace.Handler) {
	router.GET("/api/workspace", h.GetWorkspace)
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/events", live.ServeWS(hub))
}
