package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"bookshelf-backend/internal/books"
	"bookshelf-backend/internal/platform/auth"
	"bookshelf-backend/internal/platform/db"
	"bookshelf-backend/internal/platform/requestid"
	"bookshelf-backend/internal/records"
)

func main() {
	// 設定読み込み（DATABASE_URL / SECRET_KEY で上書き可）
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		log.Fatalf("[ERROR] unknown mode %q (dev|release)", mode)
	}

	conn, err := db.Connect(cfg.DSN)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	// テーブル作成＋初期データ（冪等）
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.InitSchema(initCtx, conn); err != nil {
		cancelInit()
		log.Fatal(err)
	}
	cancelInit()
	log.Println("[INFO] database ready")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestid.New())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "book collection API", "status": "ok"})
	})

	// /api
	api := r.Group("/api")
	protected := api.Group("", auth.RequireAuth([]byte(cfg.SecretKey)))

	books.RegisterRoutes(api, books.NewService(conn))
	records.RegisterRoutes(api, protected, records.NewService(conn))
	auth.RegisterRoutes(api, auth.NewService(conn, []byte(cfg.SecretKey)))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		log.Println("[INFO] listening on http://0.0.0.0:8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
