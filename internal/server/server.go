package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"racego.com/raceapi/internal/config"
	"racego.com/raceapi/internal/middleware"
	"racego.com/raceapi/pkg/ratelimiter"
	"racego.com/raceapi/pkg/validator"

	authHttp "racego.com/raceapi/internal/modules/auth/delivery/http"
	authRepo "racego.com/raceapi/internal/modules/auth/repository"
	authService "racego.com/raceapi/internal/modules/auth/service"

	competitorHttp "racego.com/raceapi/internal/modules/competitor/delivery/http"
	competitorRepo "racego.com/raceapi/internal/modules/competitor/repository"
	competitorService "racego.com/raceapi/internal/modules/competitor/service"

	liveHttp "racego.com/raceapi/internal/modules/live/delivery/http"
	liveService "racego.com/raceapi/internal/modules/live/service"

	raceHttp "racego.com/raceapi/internal/modules/race/delivery/http"
	raceRepo "racego.com/raceapi/internal/modules/race/repository"
	raceService "racego.com/raceapi/internal/modules/race/service"

	rankingHttp "racego.com/raceapi/internal/modules/ranking/delivery/http"
	rankingRepo "racego.com/raceapi/internal/modules/ranking/repository"
	rankingService "racego.com/raceapi/internal/modules/ranking/service"

	searchService "racego.com/raceapi/internal/modules/search/service"

	statHttp "racego.com/raceapi/internal/modules/stat/delivery/http"
	statRepo "racego.com/raceapi/internal/modules/stat/repository"
	statService "racego.com/raceapi/internal/modules/stat/service"

	trackHttp "racego.com/raceapi/internal/modules/track/delivery/http"
	trackRepo "racego.com/raceapi/internal/modules/track/repository"
	trackService "racego.com/raceapi/internal/modules/track/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires every module. redisClient and meiliClient may be nil, which
// disables rate limiting, the live feed and competitor search.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) *Server {
	if err := validator.Register(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	loginRepo := authRepo.NewLoginRepository(db)
	limiter := ratelimiter.New(redisClient, cfg.RateLimitLogin)
	authSvc := authService.NewAuthService(loginRepo, limiter, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := authHttp.NewAuthHandler(authSvc)

	raceSvc := raceService.NewRaceService(raceRepo.NewRaceRepository(db), loginRepo)
	raceHandler := raceHttp.NewRaceHandler(raceSvc)

	var searchSvc searchService.SearchService
	if meiliClient != nil {
		searchSvc = searchService.NewMeiliSearchService(meiliClient)
	}
	competitorSvc := competitorService.NewCompetitorService(competitorRepo.NewCompetitorRepository(db), searchSvc)
	competitorHandler := competitorHttp.NewCompetitorHandler(competitorSvc)

	liveSvc := liveService.NewLiveService(redisClient)
	liveHandler := liveHttp.NewLiveHandler(liveSvc, allowedOrigins(cfg))

	trackSvc := trackService.NewTrackService(trackRepo.NewTrackRepository(db), liveSvc)
	trackHandler := trackHttp.NewTrackHandler(trackSvc)

	rankingSvc := rankingService.NewRankingService(rankingRepo.NewRankingRepository(db))
	rankingHandler := rankingHttp.NewRankingHandler(rankingSvc)

	statSvc := statService.NewStatService(statRepo.NewStatRepository(db))
	statHandler := statHttp.NewStatHandler(statSvc)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/v1/live"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(authSvc, raceSvc, cfg.RaceHeader)

	v1 := router.Group("/v1")

	// Public routes (no auth required)
	v1.POST("/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/me", authHandler.Me)

		// Race routes check race access per request body or path
		protected.GET("/races", raceHandler.GetRaces)
		protected.POST("/race", raceHandler.CreateRace)
		protected.PUT("/race", raceHandler.UpdateRace)
		protected.DELETE("/race", raceHandler.DeleteRace)
		protected.POST("/race/manager", raceHandler.AddManager)
		protected.DELETE("/race/manager", raceHandler.DeleteManager)
		protected.GET("/race/:id", raceHandler.GetRaceDetails)
		protected.POST("/race/:id", raceHandler.UpdateRaceDetails)
		protected.GET("/managers/:id", raceHandler.GetManagers)
	}

	// Race scoped routes, the active race comes from the race header
	scoped := protected.Group("")
	scoped.Use(authMiddleware.RequireRaceAccess())
	{
		scoped.GET("/user", competitorHandler.GetUsers)
		scoped.POST("/user", competitorHandler.AddUser)
		scoped.DELETE("/user", competitorHandler.DeleteUser)
		scoped.GET("/user/search", competitorHandler.SearchUsers)
		scoped.GET("/user/:id", competitorHandler.GetUserDetails)
		scoped.PUT("/user/:id", competitorHandler.SetUserDetails)

		scoped.GET("/track", trackHandler.GetTrack)
		scoped.POST("/ontrack", trackHandler.AddOntrack)
		scoped.PUT("/ontrack", trackHandler.SubmitLap)
		scoped.DELETE("/ontrack", trackHandler.CancelLap)

		scoped.GET("/categories", rankingHandler.GetCategories)
		scoped.GET("/ranking/:class", rankingHandler.GetRanking)

		scoped.GET("/stats", statHandler.GetRaceStats)
		scoped.GET("/live", liveHandler.Stream)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func allowedOrigins(cfg *config.Config) []string {
	var origins []string
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", cfg.RaceHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
