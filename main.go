package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"mapmeet/auth"
	"mapmeet/calendar"
	"mapmeet/comments"
	"mapmeet/db"
	"mapmeet/events"
	"mapmeet/feed"
	"mapmeet/filemgr"
	"mapmeet/friends"
	"mapmeet/geo"
	"mapmeet/live"
	"mapmeet/mailer"
	"mapmeet/ratelim"
	"mapmeet/rdx"
	"mapmeet/routes"
	"mapmeet/rsvp"
	"mapmeet/settings"
	"mapmeet/share"
	"mapmeet/tagger"
	"mapmeet/workspace"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter, stores *db.Stores, hub *live.Hub) *httprouter.Router {
	geocoder := geo.NewFromEnv()
	tag := tagger.NewFromEnv()
	mail := mailer.NewFromEnv()
	cal := calendar.NewFromEnv()
	photos := filemgr.NewDiskSaver()

	eventHandler := &events.Handler{
		Events:   stores.Events,
		Users:    stores.Users,
		RSVPs:    stores.RSVPs,
		Geo:      geocoder,
		Tagger:   tag,
		Mail:     mail,
		Calendar: cal,
		Photos:   photos,
		Live:     hub,
	}
	rsvpHandler := &rsvp.Handler{
		RSVPs:    stores.RSVPs,
		Events:   stores.Events,
		Users:    stores.Users,
		Mail:     mail,
		Calendar: cal,
	}
	friendHandler := &friends.Handler{
		Friendships: stores.Friendships,
		Users:       stores.Users,
		RSVPs:       stores.RSVPs,
	}

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter, &auth.Handler{Users: stores.Users})
	routes.AddEventRoutes(router, rateLimiter, eventHandler)
	routes.AddFeedRoutes(router, rateLimiter, feed.NewHandler(stores.Events))
	routes.AddCommentRoutes(router, rateLimiter, comments.NewHandler(stores.Comments, stores.Events))
	routes.AddRSVPRoutes(router, rateLimiter, rsvpHandler)
	routes.AddFriendRoutes(router, rateLimiter, friendHandler)
	routes.AddSettingsRoutes(router, &settings.Handler{Users: stores.Users})
	routes.AddShareRoutes(router, rateLimiter, share.NewHandler(stores.Events))
	routes.AddWorkspaceRoutes(router, &workspace.Handler{Config: workspace.FromEnv()})
	routes.AddLiveRoutes(router, hub)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.Init(ctx); err != nil {
		cancel()
		log.Fatalf("mongo init failed: %v", err)
	}
	cancel()
	rdx.Init()

	rateLimiter := ratelim.NewRateLimiter()

	hub := live.NewHub()
	go hub.Run()

	router := setupRouter(rateLimiter, db.NewStores(), hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down live hub...")
		hub.Stop()
		db.Close()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
